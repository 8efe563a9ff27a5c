package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/univisa-api/internal/models"
)

var exportColumns = []string{"id", "type", "params", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message"}

func TestExportJobRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO export_jobs")).
		WithArgs(sqlmock.AnyArg(), "cohort", sqlmock.AnyArg(), "QUEUED", 0, nil, "dso-1", sqlmock.AnyArg(), nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ExportJob{
		Type:      models.ExportTypeCohort,
		Params:    models.ExportJobParams{Format: models.ExportFormatCSV},
		CreatedBy: "dso-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))

	rows := sqlmock.NewRows(exportColumns).
		AddRow(job.ID, "cohort", `{"format":"csv"}`, "QUEUED", 0, nil, "dso-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM export_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, fetched.ID)
	assert.Equal(t, models.ExportFormatCSV, fetched.Params.Format)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	now := time.Now()
	status := models.ExportStatusFinished
	progress := 100
	result := "/api/v1/exports/download?token=abc"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE export_jobs SET status = $1, progress = $2, result_url = $3, finished_at = $4 WHERE id = $5")).
		WithArgs(status, progress, result, now, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateExportJobParams{
		Status:     &status,
		Progress:   &progress,
		ResultURL:  &result,
		FinishedAt: &now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdateNoop(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateExportJobParams{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	rows := sqlmock.NewRows(exportColumns).
		AddRow("job-1", "student_risk", `{"format":"pdf","student_id":"demo"}`, "QUEUED", 0, nil, "dso-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "demo", jobs[0].Params.StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
