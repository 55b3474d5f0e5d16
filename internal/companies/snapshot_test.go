package companies

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

func strPtr(s string) *string { return &s }

func TestBuildSnapshotWithoutBooth(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	repo := NewRepository(store)

	require.NoError(t, store.Set(ctx, CollectionCompanies, "acme", models.Company{
		ID: "acme", CompanyName: "Acme Corp", OwnerID: "owner",
	}))

	snap, err := repo.BuildSnapshot(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "acme", snap.CompanyID)
	require.Equal(t, "Acme Corp", snap.CompanyName)
	require.Nil(t, snap.Industry)
	require.NotNil(t, snap.HiringFor)
	require.Empty(t, snap.HiringFor)
}

func TestBuildSnapshotBoothFieldsWin(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	repo := NewRepository(store)

	require.NoError(t, store.Set(ctx, CollectionCompanies, "acme", models.Company{
		ID: "acme", CompanyName: "Acme Corp", OwnerID: "owner", BoothID: "b1",
	}))
	require.NoError(t, store.Set(ctx, CollectionBooths, "b1", models.Booth{
		ID: "b1", CompanyID: "acme", CompanyName: "Acme Corporation",
		Industry:  strPtr("Robotics"),
		Location:  strPtr("Berlin"),
		HiringFor: []string{"Engineering"},
	}))

	snap, err := repo.BuildSnapshot(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "Acme Corporation", snap.CompanyName)
	require.Equal(t, "Robotics", *snap.Industry)
	require.Equal(t, "Berlin", *snap.Location)
	require.Nil(t, snap.CompanySize)
	require.Equal(t, []string{"Engineering"}, snap.HiringFor)
}

func TestBuildSnapshotDanglingBoothDegrades(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	repo := NewRepository(store)

	require.NoError(t, store.Set(ctx, CollectionCompanies, "acme", models.Company{
		ID: "acme", CompanyName: "Acme Corp", OwnerID: "owner", BoothID: "gone",
	}))

	snap, err := repo.BuildSnapshot(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", snap.CompanyName)
	require.Nil(t, snap.Industry)
}

func TestBuildSnapshotMissingCompany(t *testing.T) {
	repo := NewRepository(docstore.NewMemory())
	_, err := repo.BuildSnapshot(context.Background(), "ghost")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusOf(err))
}
