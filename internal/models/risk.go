package models

// Severity grades a single compliance concern.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskLevel is the overall band derived from a clamped risk score.
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "high"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelLow    RiskLevel = "low"
)

// Risk flag categories emitted by the engine.
const (
	CategoryOPTApplicationTiming  = "OPT Application Timing"
	CategoryEnrollmentViolation   = "Enrollment Status Violation"
	CategoryWorkHourViolation     = "Work Hour Violation"
	CategoryWorkHoursApproaching  = "Work Hours Approaching Limit"
	CategoryInternationalTravel   = "International Travel Risk"
	CategoryProgramEndApproaching = "Program End Approaching"
	CategoryOPTExpiringSoon       = "OPT Expiring Soon"
)

// NoRiskFlagLabel is shown in cohort rows when no rule fired.
const NoRiskFlagLabel = "All requirements met"

// AlertType classifies how an alert is presented.
type AlertType string

const (
	AlertTypeDeadline AlertType = "deadline"
	AlertTypeWarning  AlertType = "warning"
	AlertTypeInfo     AlertType = "info"
)

// RiskFlag records one triggered compliance rule.
type RiskFlag struct {
	Category          string   `json:"category"`
	Severity          Severity `json:"severity"`
	Explanation       string   `json:"explanation"`
	DaysUntilCritical *int     `json:"days_until_critical"`
	RedditInsight     *string  `json:"reddit_insight"`
}

// Alert is the urgency-ranked presentation of a RiskFlag.
type Alert struct {
	Type              AlertType `json:"type"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Severity          Severity  `json:"severity"`
	Urgency           int       `json:"urgency"`
	DaysUntilCritical *int      `json:"days_until_critical"`
}

// RiskOutput is the result of a single risk evaluation.
type RiskOutput struct {
	StudentID   string     `json:"student_id"`
	RiskScore   int        `json:"risk_score"`
	RiskLevel   RiskLevel  `json:"risk_level"`
	Flags       []RiskFlag `json:"flags"`
	Alerts      []Alert    `json:"alerts"`
	GeneratedAt string     `json:"generated_at"`
}
