package models

import "time"

// EnrollmentMethod records how a company entered a fair.
type EnrollmentMethod string

const (
	EnrollmentMethodAdmin      EnrollmentMethod = "admin"
	EnrollmentMethodInviteCode EnrollmentMethod = "inviteCode"
	EnrollmentMethodMigration  EnrollmentMethod = "migration"
)

// Enrollment records that a company participates in a fair. It lives
// under fairs/{fairId}/enrollments with the company id as document id,
// so at most one exists per (fair, company) pair.
type Enrollment struct {
	CompanyID        string           `json:"companyId"`
	CompanyName      string           `json:"companyName"`
	EnrolledAt       time.Time        `json:"enrolledAt"`
	EnrolledBy       string           `json:"enrolledBy"`
	EnrollmentMethod EnrollmentMethod `json:"enrollmentMethod"`
	BoothID          string           `json:"boothId,omitempty"`
}
