package dto

import "github.com/noah-isme/univisa-api/internal/models"

// CohortRow is one student in the DSO risk dashboard.
type CohortRow struct {
	StudentID       string            `json:"student_id"`
	FullName        string            `json:"full_name"`
	CountryOfOrigin string            `json:"country_of_origin"`
	VisaType        models.VisaType   `json:"visa_type"`
	ProgramEndDate  models.Date       `json:"program_end_date"`
	RiskScore       int               `json:"risk_score"`
	RiskLevel       models.RiskLevel  `json:"risk_level"`
	TopRiskFlag     string            `json:"top_risk_flag"`
	Flags           []models.RiskFlag `json:"flags"`
}
