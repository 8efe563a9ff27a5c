package service

import (
	"fmt"

	"github.com/noah-isme/univisa-api/internal/models"
)

const (
	maxRiskScore = 100
	// optFilingLeadDays is how far before program end the OPT filing window opens.
	optFilingLeadDays = 90
	workHourCap       = 20.0
	workHourWarning   = 17.0
)

// RiskEngine scores a student profile against the F-1/J-1 compliance rules.
type RiskEngine struct {
	insights InsightSource
}

// NewRiskEngine constructs an engine. A nil source falls back to the static label table.
func NewRiskEngine(insights InsightSource) *RiskEngine {
	if insights == nil {
		insights = NewStaticInsightSource(nil)
	}
	return &RiskEngine{insights: insights}
}

// CalculateRisk evaluates every rule in declaration order against profile as of today.
// A zero today means the current UTC date. It never fails.
func (e *RiskEngine) CalculateRisk(profile models.StudentProfile, today models.Date) models.RiskOutput {
	if today.IsZero() {
		today = models.Today()
	}
	score := 0
	flags := make([]models.RiskFlag, 0)
	daysToEnd := today.DaysUntil(profile.ProgramEndDate)

	// Rule 1: OPT application timing.
	if !profile.OnOPT && !profile.OnCPT {
		windowOpensIn := daysToEnd - optFilingLeadDays
		if windowOpensIn < 30 {
			score += 35
			flags = append(flags, models.RiskFlag{
				Category: models.CategoryOPTApplicationTiming,
				Severity: models.SeverityHigh,
				Explanation: fmt.Sprintf("Your OPT application window opens in approximately %d days. "+
					"Missing this window means losing your right to work post-graduation.", windowOpensIn),
				DaysUntilCritical: intPtr(windowOpensIn),
				RedditInsight:     e.insights.Lookup(models.CategoryOPTApplicationTiming),
			})
		} else if windowOpensIn < 60 {
			score += 15
			flags = append(flags, models.RiskFlag{
				Category:          models.CategoryOPTApplicationTiming,
				Severity:          models.SeverityMedium,
				Explanation:       "Your OPT application window is approaching. Begin gathering documents now.",
				DaysUntilCritical: intPtr(windowOpensIn),
			})
		}
	}

	// Rule 2: full-time enrollment requirement.
	if profile.EnrollmentStatus == models.EnrollmentPartTime {
		score += 40
		flags = append(flags, models.RiskFlag{
			Category: models.CategoryEnrollmentViolation,
			Severity: models.SeverityHigh,
			Explanation: "F-1 students must maintain full-time enrollment during the academic year " +
				"unless authorized by DSO. Part-time status without authorization is a SEVIS violation.",
			RedditInsight: e.insights.Lookup(models.CategoryEnrollmentViolation),
		})
	}

	// Rule 3: on-campus work hours. The 20h cap is applied to J-1 students as well.
	if profile.WeeklyWorkHours > workHourCap {
		score += 30
		flags = append(flags, models.RiskFlag{
			Category: models.CategoryWorkHourViolation,
			Severity: models.SeverityHigh,
			Explanation: fmt.Sprintf("You reported %s hours/week. F-1 students may not work more than 20 hours "+
				"per week on campus during the academic year. This is a deportable offense.", models.FormatHours(profile.WeeklyWorkHours)),
			RedditInsight: e.insights.Lookup(models.CategoryWorkHourViolation),
		})
	} else if profile.WeeklyWorkHours > workHourWarning {
		score += 10
		flags = append(flags, models.RiskFlag{
			Category:      models.CategoryWorkHoursApproaching,
			Severity:      models.SeverityMedium,
			Explanation:   fmt.Sprintf("You are at %s hrs/week — close to the 20hr limit. Track carefully.", models.FormatHours(profile.WeeklyWorkHours)),
			RedditInsight: e.insights.Lookup(models.CategoryWorkHoursApproaching),
		})
	}

	// Rule 4: travel.
	if profile.TravelingSoon {
		score += 15
		flags = append(flags, models.RiskFlag{
			Category: models.CategoryInternationalTravel,
			Severity: models.SeverityMedium,
			Explanation: "Ensure your visa stamp, I-20, and travel signature are all valid before departing. " +
				"Expired visa stamps require renewal at a US consulate abroad before reentry.",
		})
	}

	// Rule 5: program end without OPT.
	if daysToEnd < 60 && !profile.OnOPT {
		score += 20
		flags = append(flags, models.RiskFlag{
			Category: models.CategoryProgramEndApproaching,
			Severity: models.SeverityHigh,
			Explanation: fmt.Sprintf("Your program ends in %d days and you have no active OPT/CPT. "+
				"You must have authorization to remain in the US after your program end date.", daysToEnd),
			DaysUntilCritical: intPtr(daysToEnd),
		})
	}

	// Rule 6: OPT expiry.
	if profile.OnOPT && profile.OPTEndDate != nil {
		daysToOPTEnd := today.DaysUntil(*profile.OPTEndDate)
		if daysToOPTEnd < 30 {
			score += 25
			flags = append(flags, models.RiskFlag{
				Category: models.CategoryOPTExpiringSoon,
				Severity: models.SeverityHigh,
				Explanation: fmt.Sprintf("Your OPT expires in %d days. Ensure you have an H-1B cap-gap "+
					"extension or other status if remaining in US.", daysToOPTEnd),
				DaysUntilCritical: intPtr(daysToOPTEnd),
			})
		}
	}

	if score > maxRiskScore {
		score = maxRiskScore
	}

	return models.RiskOutput{
		StudentID:   profile.StudentID,
		RiskScore:   score,
		RiskLevel:   RiskLevelFor(score),
		Flags:       flags,
		Alerts:      GenerateAlerts(flags),
		GeneratedAt: today.String(),
	}
}

// RiskLevelFor maps a clamped score to its band.
func RiskLevelFor(score int) models.RiskLevel {
	switch {
	case score > 65:
		return models.RiskLevelHigh
	case score > 35:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func intPtr(v int) *int {
	return &v
}
