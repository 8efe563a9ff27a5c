package models

import "time"

// CPTRequestStatus tracks a Curricular Practical Training request through DSO review.
type CPTRequestStatus string

const (
	CPTStatusIntent      CPTRequestStatus = "intent"
	CPTStatusOfferSigned CPTRequestStatus = "offer_signed"
	CPTStatusApproved    CPTRequestStatus = "approved"
	CPTStatusRejected    CPTRequestStatus = "rejected"
)

// CPTRequest is opened by a student before signing an offer so the DSO sees it early.
type CPTRequest struct {
	ID                    string           `db:"id" json:"id"`
	StudentID             string           `db:"student_id" json:"student_id"`
	CompanyName           string           `db:"company_name" json:"company_name"`
	Role                  string           `db:"role" json:"role"`
	ExpectedStartDate     Date             `db:"expected_start_date" json:"expected_start_date"`
	ExpectedEndDate       Date             `db:"expected_end_date" json:"expected_end_date"`
	Notes                 *string          `db:"notes" json:"notes"`
	Status                CPTRequestStatus `db:"status" json:"status"`
	SignedOfferUploadedAt *time.Time       `db:"signed_offer_uploaded_at" json:"signed_offer_uploaded_at"`
	CreatedAt             time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time        `db:"updated_at" json:"updated_at"`
}

// CPTRequestWithStudent adds the owning student's name for DSO listings.
type CPTRequestWithStudent struct {
	CPTRequest
	StudentName string `db:"student_name" json:"student_name"`
}

// CreateCPTRequest is the payload for opening a CPT request.
type CreateCPTRequest struct {
	CompanyName       string  `json:"company_name" validate:"required"`
	Role              string  `json:"role" validate:"required"`
	ExpectedStartDate Date    `json:"expected_start_date"`
	ExpectedEndDate   Date    `json:"expected_end_date"`
	Notes             *string `json:"notes"`
}

// UpdateCPTRequest carries a requested status transition.
type UpdateCPTRequest struct {
	Status CPTRequestStatus `json:"status"`
}
