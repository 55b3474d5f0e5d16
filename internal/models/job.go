package models

import "time"

// Job is a canonical job posting in the global jobs collection.
type Job struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"companyId"`
	CompanyName    string    `json:"companyName"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employmentType,omitempty"`
	ApplyURL       string    `json:"applyUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FairJob is a point-in-time copy of a Job under fairs/{fairId}/jobs.
// SourceJobID points at the origin; the copy's lifecycle is independent
// after creation.
type FairJob struct {
	ID             string    `json:"id"`
	SourceJobID    string    `json:"sourceJobId,omitempty"`
	CompanyID      string    `json:"companyId"`
	CompanyName    string    `json:"companyName"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employmentType,omitempty"`
	ApplyURL       string    `json:"applyUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
