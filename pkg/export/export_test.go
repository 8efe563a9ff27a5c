package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersHeaderOrder(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student ID", "Risk Score", "Top Risk Flag"},
		Rows: []map[string]string{
			{"Top Risk Flag": "Work Hour Violation", "Student ID": "demo", "Risk Score": "30"},
			{"Student ID": "s2", "Risk Score": "0"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Student ID,Risk Score,Top Risk Flag\ndemo,30,Work Hour Violation\ns2,0,\n", string(out))
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"Name", "Days"},
		Rows:    []map[string]string{{"Name": "=HYPERLINK(\"x\")", "Days": "-80"}},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"'=HYPERLINK(""x"")",-80`)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderReport(t *testing.T) {
	report := Report{
		Title:    "Visa Compliance Risk Report",
		Subtitle: "Riya Sharma, generated 2025-03-01",
		Summary:  []Field{{Label: "Risk score", Value: "55 (medium)"}},
		Tables: []Dataset{{
			Caption: "Flags",
			Headers: []string{"Category", "Severity", "Explanation"},
			Widths:  []float64{2, 1, 5},
			Rows: []map[string]string{{
				"Category":    "Program End Approaching",
				"Severity":    "high",
				"Explanation": "Your program ends in 10 days and you have no active OPT/CPT. You must have authorization to remain in the US after your program end date.",
			}},
		}},
		Footer: "Informational only.",
	}

	out, err := NewPDFExporter().RenderReport(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRenderTable(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{Headers: []string{"A"}, Rows: []map[string]string{{"A": "1"}}}, "Cohort")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRejectsEmptyReport(t *testing.T) {
	_, err := NewPDFExporter().RenderReport(Report{Title: "Empty"})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Dataset{}, "No headers")
	assert.Error(t, err)
}
