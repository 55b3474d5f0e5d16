// Package access resolves whether a caller is a platform administrator
// or an authorized member of a company. Every mutating operation goes
// through this gate.
package access

import (
	"context"
	"errors"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

// UserLoader loads user records for role checks.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CompanyLoader loads company records for membership checks.
type CompanyLoader interface {
	GetByID(ctx context.Context, id string) (*models.Company, error)
}

// Gate performs the platform's authorization checks.
type Gate struct {
	users     UserLoader
	companies CompanyLoader
}

// NewGate creates an access gate.
func NewGate(users UserLoader, companies CompanyLoader) *Gate {
	return &Gate{users: users, companies: companies}
}

// VerifyAdmin returns nil when userID names a platform administrator.
func (g *Gate) VerifyAdmin(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Validation("user id required")
	}
	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Dependency("failed to load user")
	}
	if user.Role != models.RoleAdministrator {
		return apperr.Forbidden("administrator access required")
	}
	return nil
}

// VerifyCompanyAccess returns nil when userID is the company's owner or
// one of its representatives.
func (g *Gate) VerifyCompanyAccess(ctx context.Context, userID, companyID string) error {
	if userID == "" {
		return apperr.Validation("user id required")
	}
	company, err := g.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("company not found")
		}
		return apperr.Dependency("failed to load company")
	}
	if !company.HasMember(userID) {
		return apperr.Forbidden("not authorized for this company")
	}
	return nil
}

// VerifyCompanyManager allows admins OR company members. Both checks
// always run as an explicit two-step OR: a failing admin check never
// masks a valid company check. The company-side error is returned when
// both fail, so an absent company still surfaces as 404.
func (g *Gate) VerifyCompanyManager(ctx context.Context, userID, companyID string) error {
	adminErr := g.VerifyAdmin(ctx, userID)
	if adminErr == nil {
		return nil
	}
	companyErr := g.VerifyCompanyAccess(ctx, userID, companyID)
	if companyErr == nil {
		return nil
	}
	return companyErr
}

// IsAdmin reports whether userID is an administrator, swallowing the
// error detail. Used by read paths that only branch on the answer.
func (g *Gate) IsAdmin(ctx context.Context, userID string) bool {
	return g.VerifyAdmin(ctx, userID) == nil
}
