package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-01 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.March, 1), d)

	d, err = ParseDate("2025-03-01T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.String(), "timestamp keeps its own calendar day")

	_, err = ParseDate("03/01/2025")
	assert.Error(t, err)
}

func TestDateDaysUntil(t *testing.T) {
	start := NewDate(2025, time.March, 1)
	assert.Equal(t, 0, start.DaysUntil(start))
	assert.Equal(t, 90, start.DaysUntil(NewDate(2025, time.May, 30)))
	assert.Equal(t, -1, start.DaysUntil(NewDate(2025, time.February, 28)))
	assert.Equal(t, 366, NewDate(2024, time.January, 1).DaysUntil(NewDate(2025, time.January, 1)))
}

func TestDateDaysUntilFarApart(t *testing.T) {
	start := NewDate(2025, time.March, 1)
	far := NewDate(2400, time.March, 1)
	assert.Equal(t, 136966, start.DaysUntil(far))
	assert.Equal(t, -136966, far.DaysUntil(start))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		End Date  `json:"end"`
		Opt *Date `json:"opt"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"end":"2026-05-15","opt":null}`), &p))
	assert.Equal(t, NewDate(2026, time.May, 15), p.End)
	assert.Nil(t, p.Opt)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"end":"2026-05-15","opt":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"end":20260515}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"end":"May 15"}`), &p))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, time.June, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2025-06-02", d.String())

	require.NoError(t, d.Scan([]byte("2025-07-04")))
	assert.Equal(t, NewDate(2025, time.July, 4), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2025, time.July, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC), v)
}
