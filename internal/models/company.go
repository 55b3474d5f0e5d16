package models

import "time"

// Company is the canonical employer record. It is owned by exactly one
// user; representatives may also act on its behalf.
type Company struct {
	ID                string    `json:"id"`
	CompanyName       string    `json:"companyName"`
	OwnerID           string    `json:"ownerId"`
	RepresentativeIDs []string  `json:"representativeIds"`
	BoothID           string    `json:"boothId,omitempty"`
	InviteCode        string    `json:"inviteCode,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is the owner or a representative.
func (c *Company) HasMember(userID string) bool {
	if userID == c.OwnerID {
		return true
	}
	for _, id := range c.RepresentativeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
