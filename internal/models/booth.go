package models

import "time"

// Booth is a company's canonical, fair-independent profile. A company
// has at most one.
type Booth struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	CompanyName  string    `json:"companyName"`
	Industry     *string   `json:"industry,omitempty"`
	CompanySize  *string   `json:"companySize,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Description  *string   `json:"description,omitempty"`
	LogoURL      *string   `json:"logoUrl,omitempty"`
	LogoKey      string    `json:"logoKey,omitempty"`
	Website      *string   `json:"website,omitempty"`
	CareersPage  *string   `json:"careersPage,omitempty"`
	ContactName  *string   `json:"contactName,omitempty"`
	ContactEmail *string   `json:"contactEmail,omitempty"`
	ContactPhone *string   `json:"contactPhone,omitempty"`
	HiringFor    []string  `json:"hiringFor,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CompanySnapshot is the flat projection of a company and its booth
// taken at enrollment time. Optional fields stay as explicit JSON nulls
// so a later write never silently drops a key.
type CompanySnapshot struct {
	CompanyID    string   `json:"companyId"`
	CompanyName  string   `json:"companyName"`
	Industry     *string  `json:"industry"`
	CompanySize  *string  `json:"companySize"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	LogoURL      *string  `json:"logoUrl"`
	Website      *string  `json:"website"`
	CareersPage  *string  `json:"careersPage"`
	ContactName  *string  `json:"contactName"`
	ContactEmail *string  `json:"contactEmail"`
	ContactPhone *string  `json:"contactPhone"`
	HiringFor    []string `json:"hiringFor"`
}

// FairBooth is the fork-once copy of a booth living under
// fairs/{fairId}/booths. Edits to it never propagate back to the
// global booth or to other fairs' copies.
type FairBooth struct {
	ID string `json:"id"`
	CompanySnapshot
	EnrolledAt time.Time  `json:"enrolledAt"`
	EnrolledBy string     `json:"enrolledBy"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}
