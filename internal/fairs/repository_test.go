package fairs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

func TestCreateAssignsIDAndInviteCode(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	fair := &models.Fair{Name: "Spring Fair", CreatedBy: "admin"}
	require.NoError(t, repo.Create(ctx, fair))
	require.NotEmpty(t, fair.ID)
	require.Len(t, fair.InviteCode, 8)

	got, err := repo.GetByID(ctx, fair.ID)
	require.NoError(t, err)
	require.Equal(t, fair.InviteCode, got.InviteCode)

	byCode, err := repo.GetByInviteCode(ctx, fair.InviteCode)
	require.NoError(t, err)
	require.Equal(t, fair.ID, byCode.ID)
}

func TestRefreshInviteCodeReplacesOld(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	fair := &models.Fair{Name: "Fair"}
	require.NoError(t, repo.Create(ctx, fair))
	old := fair.InviteCode

	code, err := repo.RefreshInviteCode(ctx, fair.ID, "admin")
	require.NoError(t, err)
	require.NotEqual(t, old, code)

	_, err = repo.GetByInviteCode(ctx, old)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDeleteCascadeClearsFairScope(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	repo := NewRepository(store)

	fair := &models.Fair{ID: "f1", Name: "Fair"}
	require.NoError(t, repo.Create(ctx, fair))
	require.NoError(t, store.Set(ctx, BoothsPath("f1"), "b1", models.FairBooth{ID: "b1"}))
	require.NoError(t, store.Set(ctx, JobsPath("f1"), "j1", models.FairJob{ID: "j1", CompanyID: "acme"}))
	require.NoError(t, store.Set(ctx, EnrollmentsPath("f1"), "acme", models.Enrollment{CompanyID: "acme"}))

	// Another fair's scope must survive.
	require.NoError(t, store.Set(ctx, BoothsPath("f2"), "b2", models.FairBooth{ID: "b2"}))

	require.NoError(t, repo.DeleteCascade(ctx, "f1"))

	_, err := repo.GetByID(ctx, "f1")
	require.ErrorIs(t, err, docstore.ErrNotFound)
	for _, path := range []string{BoothsPath("f1"), JobsPath("f1"), EnrollmentsPath("f1")} {
		docs, err := store.Query(ctx, path, docstore.Query{})
		require.NoError(t, err)
		require.Empty(t, docs)
	}

	_, err = store.Get(ctx, BoothsPath("f2"), "b2")
	require.NoError(t, err)
}

func TestFairJobRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(docstore.NewMemory())

	job := &models.FairJob{CompanyID: "acme", CompanyName: "Acme", Title: "Engineer"}
	require.NoError(t, repo.SaveFairJob(ctx, "f1", job))
	require.NotEmpty(t, job.ID)

	got, err := repo.GetFairJob(ctx, "f1", job.ID)
	require.NoError(t, err)
	require.Equal(t, "Engineer", got.Title)

	byCompany, err := repo.ListFairJobs(ctx, "f1", "acme")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	other, err := repo.ListFairJobs(ctx, "f1", "other")
	require.NoError(t, err)
	require.Empty(t, other)

	require.NoError(t, repo.DeleteFairJob(ctx, "f1", job.ID))
	_, err = repo.GetFairJob(ctx, "f1", job.ID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}
