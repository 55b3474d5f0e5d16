package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

// CollectionUsers is the root collection for user accounts.
const CollectionUsers = "users"

// Repository handles user persistence in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository creates an auth repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// GetByID returns a user by ID, or docstore.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := doc.Decode(&u); err != nil {
		return nil, err
	}
	u.ID = doc.ID
	return &u, nil
}

// GetByEmail returns a user by email, or docstore.ErrNotFound.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := r.store.Query(ctx, CollectionUsers, docstore.Where("email", email))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	var u models.User
	if err := docs[0].Decode(&u); err != nil {
		return nil, err
	}
	u.ID = docs[0].ID
	return &u, nil
}

// Create inserts a new user and fills in id and timestamps.
func (r *Repository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return r.store.Set(ctx, CollectionUsers, u.ID, u)
}

// SetCompany links (or clears) the user's company membership.
func (r *Repository) SetCompany(ctx context.Context, userID, companyID string) error {
	return r.store.Update(ctx, CollectionUsers, userID, map[string]interface{}{
		"companyId": companyID,
		"updatedAt": time.Now().UTC(),
	})
}

// SetRole changes the user's role.
func (r *Repository) SetRole(ctx context.Context, userID string, role models.Role) error {
	return r.store.Update(ctx, CollectionUsers, userID, map[string]interface{}{
		"role":      role,
		"updatedAt": time.Now().UTC(),
	})
}

// List returns all users, ordered by full name, without credentials.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	docs, err := r.store.Query(ctx, CollectionUsers, docstore.Query{OrderBy: "fullName"})
	if err != nil {
		return nil, err
	}
	list := make([]models.UserPublic, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := doc.Decode(&u); err != nil {
			return nil, err
		}
		u.ID = doc.ID
		list = append(list, u.ToPublic())
	}
	return list, nil
}

// IsNotFound reports whether err means an absent user document.
func IsNotFound(err error) bool {
	return errors.Is(err, docstore.ErrNotFound)
}
