package access

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return u, nil
}

type fakeCompanies map[string]*models.Company

func (f fakeCompanies) GetByID(_ context.Context, id string) (*models.Company, error) {
	c, ok := f[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return c, nil
}

func newTestGate() *Gate {
	users := fakeUsers{
		"admin":  {ID: "admin", Role: models.RoleAdministrator},
		"owner":  {ID: "owner", Role: models.RoleCompanyOwner},
		"rep":    {ID: "rep", Role: models.RoleRepresentative},
		"random": {ID: "random", Role: models.RoleStudent},
	}
	companies := fakeCompanies{
		"acme": {ID: "acme", OwnerID: "owner", RepresentativeIDs: []string{"rep"}},
	}
	return NewGate(users, companies)
}

func TestVerifyAdmin(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()

	require.NoError(t, gate.VerifyAdmin(ctx, "admin"))

	err := gate.VerifyAdmin(ctx, "owner")
	require.Equal(t, http.StatusForbidden, apperr.StatusOf(err))

	err = gate.VerifyAdmin(ctx, "ghost")
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))

	err = gate.VerifyAdmin(ctx, "")
	require.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
}

func TestVerifyCompanyAccess(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()

	require.NoError(t, gate.VerifyCompanyAccess(ctx, "owner", "acme"))
	require.NoError(t, gate.VerifyCompanyAccess(ctx, "rep", "acme"))

	err := gate.VerifyCompanyAccess(ctx, "random", "acme")
	require.Equal(t, http.StatusForbidden, apperr.StatusOf(err))

	err = gate.VerifyCompanyAccess(ctx, "owner", "ghost")
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestVerifyCompanyManagerIsAnOr(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()

	// Admins pass without being company members.
	require.NoError(t, gate.VerifyCompanyManager(ctx, "admin", "acme"))
	// Members pass without being admins; the failed admin check must not
	// mask their membership.
	require.NoError(t, gate.VerifyCompanyManager(ctx, "owner", "acme"))
	require.NoError(t, gate.VerifyCompanyManager(ctx, "rep", "acme"))

	err := gate.VerifyCompanyManager(ctx, "random", "acme")
	require.Equal(t, http.StatusForbidden, apperr.StatusOf(err))

	// When both checks fail against an absent company, the company error
	// surfaces.
	err = gate.VerifyCompanyManager(ctx, "random", "ghost")
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestIsAdmin(t *testing.T) {
	gate := newTestGate()
	ctx := context.Background()
	require.True(t, gate.IsAdmin(ctx, "admin"))
	require.False(t, gate.IsAdmin(ctx, "owner"))
	require.False(t, gate.IsAdmin(ctx, "ghost"))
}
