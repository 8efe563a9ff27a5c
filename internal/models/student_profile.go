package models

import (
	"strconv"
	"strings"
	"time"
)

// VisaType enumerates supported non-immigrant student visas.
type VisaType string

const (
	VisaTypeF1 VisaType = "F1"
	VisaTypeJ1 VisaType = "J1"
)

// EnrollmentStatus captures the student's current course load.
type EnrollmentStatus string

const (
	EnrollmentFullTime EnrollmentStatus = "full_time"
	EnrollmentPartTime EnrollmentStatus = "part_time"
	EnrollmentOnLeave  EnrollmentStatus = "on_leave"
)

// DemoStudentID identifies the profile seeded at startup for demos and chat fallback.
const DemoStudentID = "demo"

// StudentProfile is the compliance snapshot evaluated by the risk engine.
type StudentProfile struct {
	StudentID        string           `db:"id" json:"student_id"`
	FullName         string           `db:"full_name" json:"full_name"`
	University       string           `db:"university" json:"university"`
	CountryOfOrigin  string           `db:"country_of_origin" json:"country_of_origin"`
	VisaType         VisaType         `db:"visa_type" json:"visa_type"`
	ProgramStartDate Date             `db:"program_start_date" json:"program_start_date"`
	ProgramEndDate   Date             `db:"program_end_date" json:"program_end_date"`
	EnrollmentStatus EnrollmentStatus `db:"enrollment_status" json:"enrollment_status"`
	WeeklyWorkHours  float64          `db:"weekly_work_hours" json:"weekly_work_hours"`
	OnOPT            bool             `db:"on_opt" json:"on_opt"`
	OnCPT            bool             `db:"on_cpt" json:"on_cpt"`
	OPTStartDate     *Date            `db:"opt_start_date" json:"opt_start_date"`
	OPTEndDate       *Date            `db:"opt_end_date" json:"opt_end_date"`
	CPTStartDate     *Date            `db:"cpt_start_date" json:"cpt_start_date"`
	CPTEndDate       *Date            `db:"cpt_end_date" json:"cpt_end_date"`
	TravelingSoon    bool             `db:"traveling_soon" json:"traveling_soon"`
	ChangingEmployer bool             `db:"changing_employer" json:"changing_employer"`
	ChangingCourses  bool             `db:"changing_courses" json:"changing_courses"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// StudentProfileFilter narrows profile listings.
type StudentProfileFilter struct {
	Search   string
	Page     int
	PageSize int
}

// StudentProfileInput is the create/update payload for a profile.
type StudentProfileInput struct {
	FullName         string           `json:"full_name" validate:"required"`
	University       string           `json:"university" validate:"required"`
	CountryOfOrigin  string           `json:"country_of_origin" validate:"required"`
	VisaType         VisaType         `json:"visa_type" validate:"required,oneof=F1 J1"`
	ProgramStartDate Date             `json:"program_start_date"`
	ProgramEndDate   Date             `json:"program_end_date"`
	EnrollmentStatus EnrollmentStatus `json:"enrollment_status" validate:"required,oneof=full_time part_time on_leave"`
	WeeklyWorkHours  float64          `json:"weekly_work_hours" validate:"gte=0"`
	OnOPT            bool             `json:"on_opt"`
	OnCPT            bool             `json:"on_cpt"`
	OPTStartDate     *Date            `json:"opt_start_date"`
	OPTEndDate       *Date            `json:"opt_end_date"`
	CPTStartDate     *Date            `json:"cpt_start_date"`
	CPTEndDate       *Date            `json:"cpt_end_date"`
	TravelingSoon    bool             `json:"traveling_soon"`
	ChangingEmployer bool             `json:"changing_employer"`
	ChangingCourses  bool             `json:"changing_courses"`
}

// CreateStudentProfileResponse is returned after a profile is stored.
type CreateStudentProfileResponse struct {
	StudentID string `json:"student_id"`
}

// FormatHours renders weekly hours the way students enter them, always with a decimal part.
func FormatHours(hours float64) string {
	s := strconv.FormatFloat(hours, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
