package companies

import (
	"context"
	"errors"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

// BuildSnapshot projects a company and its global booth into the flat
// structure copied into a fair at enrollment time. Booth fields win
// over company fields; optional fields that are absent stay nil so the
// stored document carries explicit nulls. Pure read, no side effects.
func (r *Repository) BuildSnapshot(ctx context.Context, companyID string) (*models.CompanySnapshot, error) {
	company, err := r.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("company not found")
		}
		return nil, apperr.Dependency("failed to load company")
	}

	snapshot := &models.CompanySnapshot{
		CompanyID:   company.ID,
		CompanyName: company.CompanyName,
		HiringFor:   []string{},
	}

	if company.BoothID == "" {
		return snapshot, nil
	}
	booth, err := r.GetBooth(ctx, company.BoothID)
	if err != nil {
		// A dangling boothId degrades to a booth-less snapshot rather
		// than failing the enrollment.
		if errors.Is(err, docstore.ErrNotFound) {
			return snapshot, nil
		}
		return nil, apperr.Dependency("failed to load booth")
	}

	if booth.CompanyName != "" {
		snapshot.CompanyName = booth.CompanyName
	}
	snapshot.Industry = booth.Industry
	snapshot.CompanySize = booth.CompanySize
	snapshot.Location = booth.Location
	snapshot.Description = booth.Description
	snapshot.LogoURL = booth.LogoURL
	snapshot.Website = booth.Website
	snapshot.CareersPage = booth.CareersPage
	snapshot.ContactName = booth.ContactName
	snapshot.ContactEmail = booth.ContactEmail
	snapshot.ContactPhone = booth.ContactPhone
	if len(booth.HiringFor) > 0 {
		snapshot.HiringFor = booth.HiringFor
	}
	return snapshot, nil
}
