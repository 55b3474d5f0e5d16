package companies

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/utils"
)

const (
	// CollectionCompanies is the root collection for canonical companies.
	CollectionCompanies = "companies"
	// CollectionBooths is the root collection for global booths.
	CollectionBooths = "booths"
)

// Repository handles company and global booth persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a companies repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create inserts a company with a fresh invite code. Company invite
// codes get an opportunistic uniqueness check: a handful of regenerate
// attempts on collision, no store-level constraint.
func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	code, err := r.uniqueInviteCode(ctx)
	if err != nil {
		return err
	}
	company.InviteCode = code
	if company.RepresentativeIDs == nil {
		company.RepresentativeIDs = []string{}
	}
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now
	return r.store.Set(ctx, CollectionCompanies, company.ID, company)
}

// GetByID returns a company, or docstore.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	doc, err := r.store.Get(ctx, CollectionCompanies, id)
	if err != nil {
		return nil, err
	}
	var company models.Company
	if err := doc.Decode(&company); err != nil {
		return nil, err
	}
	company.ID = doc.ID
	return &company, nil
}

// GetByInviteCode resolves a company invite code, or docstore.ErrNotFound.
func (r *Repository) GetByInviteCode(ctx context.Context, code string) (*models.Company, error) {
	docs, err := r.store.Query(ctx, CollectionCompanies, docstore.Where("inviteCode", code))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	var company models.Company
	if err := docs[0].Decode(&company); err != nil {
		return nil, err
	}
	company.ID = docs[0].ID
	return &company, nil
}

// Update merges fields into a company document, stamping updatedAt.
func (r *Repository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now().UTC()
	return r.store.Update(ctx, CollectionCompanies, id, fields)
}

// Save fully replaces a company document.
func (r *Repository) Save(ctx context.Context, company *models.Company) error {
	company.UpdatedAt = time.Now().UTC()
	return r.store.Set(ctx, CollectionCompanies, company.ID, company)
}

// RefreshInviteCode rotates the company invite code and returns it.
func (r *Repository) RefreshInviteCode(ctx context.Context, id string) (string, error) {
	code, err := r.uniqueInviteCode(ctx)
	if err != nil {
		return "", err
	}
	if err := r.Update(ctx, id, map[string]interface{}{"inviteCode": code}); err != nil {
		return "", err
	}
	return code, nil
}

// GetBooth returns a global booth by id, or docstore.ErrNotFound.
func (r *Repository) GetBooth(ctx context.Context, boothID string) (*models.Booth, error) {
	doc, err := r.store.Get(ctx, CollectionBooths, boothID)
	if err != nil {
		return nil, err
	}
	var booth models.Booth
	if err := doc.Decode(&booth); err != nil {
		return nil, err
	}
	booth.ID = doc.ID
	return &booth, nil
}

// SaveBooth creates or replaces the company's global booth and, on
// first write, links it from the company record.
func (r *Repository) SaveBooth(ctx context.Context, company *models.Company, booth *models.Booth) error {
	now := time.Now().UTC()
	if booth.ID == "" {
		booth.ID = uuid.NewString()
		booth.CreatedAt = now
	}
	booth.UpdatedAt = now
	booth.CompanyID = company.ID
	if booth.CompanyName == "" {
		booth.CompanyName = company.CompanyName
	}
	if err := r.store.Set(ctx, CollectionBooths, booth.ID, booth); err != nil {
		return err
	}
	if company.BoothID != booth.ID {
		return r.Update(ctx, company.ID, map[string]interface{}{"boothId": booth.ID})
	}
	return nil
}

func (r *Repository) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.NewInviteCode()
		if err != nil {
			return "", err
		}
		_, err = r.GetByInviteCode(ctx, code)
		if errors.Is(err, docstore.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	// 36^8 keyspace; five straight collisions means the store is lying.
	return utils.NewInviteCode()
}
