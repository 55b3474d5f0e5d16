package enrollments

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/auth"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/companies"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/fairs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/jobs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

type fixture struct {
	store    *docstore.Memory
	fairs    *fairs.Repository
	service  *Service
	fairID   string
	fairCode string
}

func strPtr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemory()

	authRepo := auth.NewRepository(store)
	companyRepo := companies.NewRepository(store)
	jobRepo := jobs.NewRepository(store)
	fairRepo := fairs.NewRepository(store)
	gate := access.NewGate(authRepo, companyRepo)
	service := NewService(fairRepo, companyRepo, jobRepo, authRepo, gate, nil, nil)

	users := []models.User{
		{ID: "admin", Email: "admin@test.dev", Role: models.RoleAdministrator},
		{ID: "owner", Email: "owner@acme.dev", Role: models.RoleCompanyOwner, CompanyID: "acme"},
		{ID: "student", Email: "student@test.dev", Role: models.RoleStudent},
	}
	for i := range users {
		require.NoError(t, authRepo.Create(ctx, &users[i]))
	}

	require.NoError(t, store.Set(ctx, companies.CollectionCompanies, "acme", models.Company{
		ID: "acme", CompanyName: "Acme Corp", OwnerID: "owner",
		RepresentativeIDs: []string{}, BoothID: "booth-acme",
	}))
	require.NoError(t, store.Set(ctx, companies.CollectionBooths, "booth-acme", models.Booth{
		ID: "booth-acme", CompanyID: "acme", CompanyName: "Acme Corporation",
		Industry: strPtr("Robotics"), HiringFor: []string{"Engineering"},
	}))

	require.NoError(t, store.Set(ctx, jobs.CollectionJobs, "job-1", models.Job{
		ID: "job-1", CompanyID: "acme", CompanyName: "Acme Corporation", Title: "Backend Engineer",
	}))
	require.NoError(t, store.Set(ctx, jobs.CollectionJobs, "job-2", models.Job{
		ID: "job-2", CompanyID: "acme", CompanyName: "Acme Corporation", Title: "Data Scientist",
	}))

	require.NoError(t, store.Set(ctx, fairs.CollectionFairs, "f1", models.Fair{
		ID: "f1", Name: "Spring Fair", InviteCode: "SPRING24",
	}))

	return &fixture{store: store, fairs: fairRepo, service: service, fairID: "f1", fairCode: "SPRING24"}
}

func TestEnrollByAdminCreatesBoothEnrollmentAndJobs(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.service.Enroll(ctx, EnrollInput{
		CallerID: "admin", FairID: fx.fairID, CompanyID: "acme",
	})
	require.NoError(t, err)
	require.Equal(t, fx.fairID, result.FairID)
	require.NotEmpty(t, result.BoothID)

	enrollment, err := fx.fairs.GetEnrollment(ctx, fx.fairID, "acme")
	require.NoError(t, err)
	require.Equal(t, "acme", enrollment.CompanyID)
	require.Equal(t, models.EnrollmentMethodAdmin, enrollment.EnrollmentMethod)
	require.Equal(t, "admin", enrollment.EnrolledBy)
	require.Equal(t, result.BoothID, enrollment.BoothID)

	booth, err := fx.fairs.GetBooth(ctx, fx.fairID, result.BoothID)
	require.NoError(t, err)
	// Snapshot comes from the global booth, not the bare company record.
	require.Equal(t, "Acme Corporation", booth.CompanyName)
	require.Equal(t, "Robotics", *booth.Industry)
	require.Equal(t, []string{"Engineering"}, booth.HiringFor)

	fairJobs, err := fx.fairs.ListFairJobs(ctx, fx.fairID, "acme")
	require.NoError(t, err)
	require.Len(t, fairJobs, 2)
	sources := map[string]bool{}
	for _, j := range fairJobs {
		sources[j.SourceJobID] = true
	}
	require.True(t, sources["job-1"])
	require.True(t, sources["job-2"])
}

func TestEnrollByInviteCode(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.service.Enroll(ctx, EnrollInput{
		CallerID: "owner", InviteCode: fx.fairCode,
	})
	require.NoError(t, err)
	require.Equal(t, fx.fairID, result.FairID)

	// Company resolved from the caller's own record.
	enrollment, err := fx.fairs.GetEnrollment(ctx, fx.fairID, "acme")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentMethodInviteCode, enrollment.EnrollmentMethod)
	require.Equal(t, "owner", enrollment.EnrolledBy)
}

func TestEnrollInvalidInviteCode(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Enroll(context.Background(), EnrollInput{
		CallerID: "owner", InviteCode: "WRONGCOD",
	})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	require.Equal(t, "Invalid invite code", err.Error())
}

func TestEnrollDuplicateRejected(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.NoError(t, err)

	_, err = fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))

	// The failed attempt left no second booth behind.
	booths, err := fx.fairs.ListBooths(ctx, fx.fairID)
	require.NoError(t, err)
	require.Len(t, booths, 1)
}

func TestEnrollUnauthorizedCaller(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Enroll(context.Background(), EnrollInput{
		CallerID: "student", FairID: fx.fairID, CompanyID: "acme",
	})
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
}

func TestEnrollUnknownFair(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Enroll(context.Background(), EnrollInput{
		CallerID: "admin", FairID: "ghost", CompanyID: "acme",
	})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestEnrollJobCopyIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// A copy of job-1 already exists from an earlier partial run.
	require.NoError(t, fx.store.Set(ctx, fairs.JobsPath(fx.fairID), "stale", models.FairJob{
		ID: "stale", SourceJobID: "job-1", CompanyID: "acme", Title: "Backend Engineer",
	}))

	_, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.NoError(t, err)

	fairJobs, err := fx.fairs.ListFairJobs(ctx, fx.fairID, "acme")
	require.NoError(t, err)
	require.Len(t, fairJobs, 2)
}

func TestUnenrollRemovesBoothEnrollmentAndJobs(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Unenroll(ctx, "admin", fx.fairID, "acme"))

	_, err = fx.fairs.GetEnrollment(ctx, fx.fairID, "acme")
	require.ErrorIs(t, err, docstore.ErrNotFound)
	_, err = fx.fairs.GetBooth(ctx, fx.fairID, result.BoothID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
	fairJobs, err := fx.fairs.ListFairJobs(ctx, fx.fairID, "acme")
	require.NoError(t, err)
	require.Empty(t, fairJobs)

	// Canonical records stay untouched.
	_, err = fx.store.Get(ctx, companies.CollectionCompanies, "acme")
	require.NoError(t, err)
	_, err = fx.store.Get(ctx, jobs.CollectionJobs, "job-1")
	require.NoError(t, err)
}

func TestUnenrollBoothlessEnrollment(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Legacy record with no booth reference.
	require.NoError(t, fx.store.Set(ctx, fairs.EnrollmentsPath(fx.fairID), "acme", models.Enrollment{
		CompanyID: "acme", CompanyName: "Acme Corp",
		EnrollmentMethod: models.EnrollmentMethodMigration,
	}))

	require.NoError(t, fx.service.Unenroll(ctx, "admin", fx.fairID, "acme"))
	_, err := fx.fairs.GetEnrollment(ctx, fx.fairID, "acme")
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestUnenrollNotEnrolled(t *testing.T) {
	fx := newFixture(t)

	err := fx.service.Unenroll(context.Background(), "admin", fx.fairID, "acme")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestUnenrollAuthorizationMatchesEnroll(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.NoError(t, err)

	// A company member may remove their own company; a stranger may not.
	err = fx.service.Unenroll(ctx, "student", fx.fairID, "acme")
	require.Equal(t, http.StatusForbidden, apperr.StatusOf(err))
	require.NoError(t, fx.service.Unenroll(ctx, "owner", fx.fairID, "acme"))
}

func TestListForFair(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: fx.fairID, CompanyID: "acme"})
	require.NoError(t, err)

	list, err := fx.service.ListForFair(ctx, fx.fairID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "acme", list[0].CompanyID)

	_, err = fx.service.ListForFair(ctx, "ghost")
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}

func TestListFairsForCompany(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.store.Set(ctx, fairs.CollectionFairs, "f2", models.Fair{
		ID: "f2", Name: "Autumn Fair", InviteCode: "AUTUMN24",
	}))

	_, err := fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: "f1", CompanyID: "acme"})
	require.NoError(t, err)
	_, err = fx.service.Enroll(ctx, EnrollInput{CallerID: "admin", FairID: "f2", CompanyID: "acme"})
	require.NoError(t, err)

	list, err := fx.service.ListFairsForCompany(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, fair := range list {
		// Membership listings never leak the enrollment credential.
		require.Empty(t, fair.InviteCode)
	}
}
