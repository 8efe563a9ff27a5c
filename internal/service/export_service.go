package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/univisa-api/internal/dto"
	"github.com/noah-isme/univisa-api/internal/models"
	appErrors "github.com/noah-isme/univisa-api/pkg/errors"
	"github.com/noah-isme/univisa-api/pkg/export"
	"github.com/noah-isme/univisa-api/pkg/storage"
)

type cohortSource interface {
	Cohort(ctx context.Context, date models.Date) ([]dto.CohortRow, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderReport(report export.Report) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders cohort and student risk documents and persists them for signed download.
type ExportService struct {
	profiles  riskProfileRepository
	evaluator profileEvaluator
	cohort    cohortSource
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(profiles riskProfileRepository, evaluator profileEvaluator, cohort cohortSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		profiles:  profiles,
		evaluator: evaluator,
		cohort:    cohort,
		storage:   store,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate renders the document described by job, stores it and signs a download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	asOf, err := exportDate(job.Params.AsOf)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Type {
	case models.ExportTypeCohort:
		payload, err = s.renderCohort(ctx, asOf, job.Params.Format)
	case models.ExportTypeStudentRisk:
		if job.Params.Format != models.ExportFormatPDF {
			return nil, fmt.Errorf("unsupported format %s for %s", job.Params.Format, job.Type)
		}
		payload, err = s.renderStudentReport(ctx, job.Params.StudentID, asOf)
	default:
		err = fmt.Errorf("unsupported export type %s", job.Type)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, asOf), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          s.downloadURL(token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// StudentReport renders the risk report PDF for one student synchronously.
func (s *ExportService) StudentReport(ctx context.Context, studentID string, date models.Date) ([]byte, string, error) {
	if date.IsZero() {
		date = models.Today()
	}
	payload, err := s.renderStudentReport(ctx, studentID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.ErrStudentNotFound
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render risk report")
	}
	filename := fmt.Sprintf("risk_report_%s_%s.pdf", sanitizeFilename(studentID), date.String())
	return payload, filename, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/exports/download?token=%s", prefix, token)
}

func (s *ExportService) renderCohort(ctx context.Context, asOf models.Date, format models.ExportFormat) ([]byte, error) {
	rows, err := s.cohort.Cohort(ctx, asOf)
	if err != nil {
		return nil, err
	}
	dataset := cohortDataset(rows)
	switch format {
	case models.ExportFormatCSV:
		return s.csv.Render(dataset)
	case models.ExportFormatPDF:
		return s.pdf.RenderReport(export.Report{
			Title:    "Cohort Compliance Risk",
			Subtitle: fmt.Sprintf("As of %s", asOf.String()),
			Summary:  cohortSummary(rows),
			Tables:   []export.Dataset{dataset},
			Footer:   fmt.Sprintf("Generated %s", s.now().UTC().Format(time.RFC3339)),
		})
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

func (s *ExportService) renderStudentReport(ctx context.Context, studentID string, asOf models.Date) ([]byte, error) {
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	output := s.evaluator.EvaluateProfile(*profile, asOf)

	flagRows := make([]map[string]string, 0, len(output.Flags))
	for _, flag := range output.Flags {
		flagRows = append(flagRows, map[string]string{
			"Category":    flag.Category,
			"Severity":    string(flag.Severity),
			"Days":        optionalDays(flag.DaysUntilCritical),
			"Explanation": flag.Explanation,
		})
	}
	alertRows := make([]map[string]string, 0, len(output.Alerts))
	for _, alert := range output.Alerts {
		alertRows = append(alertRows, map[string]string{
			"Urgency": strconv.Itoa(alert.Urgency),
			"Type":    string(alert.Type),
			"Title":   alert.Title,
			"Days":    optionalDays(alert.DaysUntilCritical),
		})
	}

	tables := []export.Dataset{}
	if len(flagRows) > 0 {
		tables = append(tables, export.Dataset{
			Caption: "Risk flags",
			Headers: []string{"Category", "Severity", "Days", "Explanation"},
			Widths:  []float64{45, 20, 15, 110},
			Rows:    flagRows,
		}, export.Dataset{
			Caption: "Alerts by urgency",
			Headers: []string{"Urgency", "Type", "Title", "Days"},
			Widths:  []float64{20, 25, 125, 20},
			Rows:    alertRows,
		})
	}

	return s.pdf.RenderReport(export.Report{
		Title:    "Visa Compliance Risk Report",
		Subtitle: fmt.Sprintf("%s (%s)", profile.FullName, profile.StudentID),
		Summary: []export.Field{
			{Label: "University", Value: profile.University},
			{Label: "Visa type", Value: string(profile.VisaType)},
			{Label: "Program end", Value: profile.ProgramEndDate.String()},
			{Label: "Enrollment", Value: string(profile.EnrollmentStatus)},
			{Label: "Weekly work hours", Value: models.FormatHours(profile.WeeklyWorkHours)},
			{Label: "Risk score", Value: strconv.Itoa(output.RiskScore)},
			{Label: "Risk level", Value: string(output.RiskLevel)},
			{Label: "Evaluated on", Value: output.GeneratedAt},
		},
		Tables: tables,
		Footer: "This report is informational and does not replace advice from your DSO.",
	})
}

func (s *ExportService) buildFilename(job *models.ExportJob, asOf models.Date) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	subject := "all"
	if job.Type == models.ExportTypeStudentRisk {
		subject = sanitizeFilename(job.Params.StudentID)
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", job.Type, subject, asOf.String(), timestamp, job.Params.Format)
}

func cohortDataset(rows []dto.CohortRow) export.Dataset {
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Student ID":    row.StudentID,
			"Name":          row.FullName,
			"Country":       row.CountryOfOrigin,
			"Visa":          string(row.VisaType),
			"Program End":   row.ProgramEndDate.String(),
			"Score":         strconv.Itoa(row.RiskScore),
			"Level":         string(row.RiskLevel),
			"Top Risk Flag": row.TopRiskFlag,
		})
	}
	return export.Dataset{
		Headers: []string{"Student ID", "Name", "Country", "Visa", "Program End", "Score", "Level", "Top Risk Flag"},
		Widths:  []float64{22, 30, 22, 12, 22, 12, 15, 55},
		Rows:    dataRows,
	}
}

func cohortSummary(rows []dto.CohortRow) []export.Field {
	counts := map[models.RiskLevel]int{}
	for _, row := range rows {
		counts[row.RiskLevel]++
	}
	return []export.Field{
		{Label: "Students", Value: strconv.Itoa(len(rows))},
		{Label: "High risk", Value: strconv.Itoa(counts[models.RiskLevelHigh])},
		{Label: "Medium risk", Value: strconv.Itoa(counts[models.RiskLevelMedium])},
		{Label: "Low risk", Value: strconv.Itoa(counts[models.RiskLevelLow])},
	}
}

func exportDate(raw string) (models.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Today(), nil
	}
	return models.ParseDate(raw)
}

func optionalDays(days *int) string {
	if days == nil {
		return "-"
	}
	return strconv.Itoa(*days)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
