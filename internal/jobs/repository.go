package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
)

// CollectionJobs is the root collection for canonical job postings.
const CollectionJobs = "jobs"

// Repository handles global job persistence.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a jobs repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create inserts a job posting.
func (r *Repository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	return r.store.Set(ctx, CollectionJobs, job.ID, job)
}

// GetByID returns a job, or docstore.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	doc, err := r.store.Get(ctx, CollectionJobs, id)
	if err != nil {
		return nil, err
	}
	var job models.Job
	if err := doc.Decode(&job); err != nil {
		return nil, err
	}
	job.ID = doc.ID
	return &job, nil
}

// ListByCompany returns a company's job postings, newest first left to
// the caller; the store orders by title for stable output.
func (r *Repository) ListByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	docs, err := r.store.Query(ctx, CollectionJobs, docstore.Query{
		Filters: []docstore.Filter{{Field: "companyId", Value: companyID}},
		OrderBy: "title",
	})
	if err != nil {
		return nil, err
	}
	list := make([]models.Job, 0, len(docs))
	for _, doc := range docs {
		var job models.Job
		if err := doc.Decode(&job); err != nil {
			return nil, err
		}
		job.ID = doc.ID
		list = append(list, job)
	}
	return list, nil
}

// Save fully replaces a job posting.
func (r *Repository) Save(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now().UTC()
	return r.store.Set(ctx, CollectionJobs, job.ID, job)
}

// Delete removes a job posting.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionJobs, id)
}
