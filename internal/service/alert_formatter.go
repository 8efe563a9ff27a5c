package service

import (
	"sort"

	"github.com/noah-isme/univisa-api/internal/models"
)

const (
	defaultUrgency = 3
	// noDeadlineSortKey places flags without a deadline after dated ones of the same urgency.
	noDeadlineSortKey = 999
)

var severityUrgency = map[models.Severity]int{
	models.SeverityHigh:   1,
	models.SeverityMedium: 2,
	models.SeverityLow:    3,
}

// GenerateAlerts projects flags into alerts ordered by urgency, then by days until critical.
// Ties keep their flag order.
func GenerateAlerts(flags []models.RiskFlag) []models.Alert {
	alerts := make([]models.Alert, 0, len(flags))
	for _, flag := range flags {
		urgency, ok := severityUrgency[flag.Severity]
		if !ok {
			urgency = defaultUrgency
		}
		alerts = append(alerts, models.Alert{
			Type:              alertTypeFor(flag),
			Title:             flag.Category,
			Description:       flag.Explanation,
			Severity:          flag.Severity,
			Urgency:           urgency,
			DaysUntilCritical: flag.DaysUntilCritical,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Urgency != alerts[j].Urgency {
			return alerts[i].Urgency < alerts[j].Urgency
		}
		return deadlineSortKey(alerts[i]) < deadlineSortKey(alerts[j])
	})
	return alerts
}

func alertTypeFor(flag models.RiskFlag) models.AlertType {
	switch {
	case flag.DaysUntilCritical != nil:
		return models.AlertTypeDeadline
	case flag.Severity == models.SeverityHigh:
		return models.AlertTypeWarning
	default:
		return models.AlertTypeInfo
	}
}

func deadlineSortKey(alert models.Alert) int {
	if alert.DaysUntilCritical == nil {
		return noDeadlineSortKey
	}
	return *alert.DaysUntilCritical
}
