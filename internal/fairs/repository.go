package fairs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/utils"
)

// CollectionFairs is the root collection for fairs.
const CollectionFairs = "fairs"

// Fair-scoped subcollection names. Everything a company brings into a
// fair lives under the fair's id, so cleanup and access control reason
// per fair without cross-fair queries.
const (
	SubcollectionBooths      = "booths"
	SubcollectionJobs        = "jobs"
	SubcollectionEnrollments = "enrollments"
)

// BoothsPath returns fairs/{fairID}/booths.
func BoothsPath(fairID string) string {
	return CollectionFairs + "/" + fairID + "/" + SubcollectionBooths
}

// JobsPath returns fairs/{fairID}/jobs.
func JobsPath(fairID string) string {
	return CollectionFairs + "/" + fairID + "/" + SubcollectionJobs
}

// EnrollmentsPath returns fairs/{fairID}/enrollments.
func EnrollmentsPath(fairID string) string {
	return CollectionFairs + "/" + fairID + "/" + SubcollectionEnrollments
}

// Repository handles fair persistence and the fair-scoped keyspace.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a fairs repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying document store for batched writes that
// span the fair-scoped keyspace.
func (r *Repository) Store() docstore.Store { return r.store }

// Create inserts a fair with a fresh invite code.
func (r *Repository) Create(ctx context.Context, fair *models.Fair) error {
	if fair.ID == "" {
		fair.ID = uuid.NewString()
	}
	code, err := utils.NewInviteCode()
	if err != nil {
		return err
	}
	fair.InviteCode = code
	now := time.Now().UTC()
	fair.CreatedAt = now
	fair.UpdatedAt = now
	return r.store.Set(ctx, CollectionFairs, fair.ID, fair)
}

// GetByID returns a fair, or docstore.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Fair, error) {
	doc, err := r.store.Get(ctx, CollectionFairs, id)
	if err != nil {
		return nil, err
	}
	var fair models.Fair
	if err := doc.Decode(&fair); err != nil {
		return nil, err
	}
	fair.ID = doc.ID
	return &fair, nil
}

// GetByInviteCode resolves a fair invite code, or docstore.ErrNotFound.
// Codes are not store-enforced unique; the first match wins.
func (r *Repository) GetByInviteCode(ctx context.Context, code string) (*models.Fair, error) {
	docs, err := r.store.Query(ctx, CollectionFairs, docstore.Where("inviteCode", code))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, docstore.ErrNotFound
	}
	var fair models.Fair
	if err := docs[0].Decode(&fair); err != nil {
		return nil, err
	}
	fair.ID = docs[0].ID
	return &fair, nil
}

// List returns all fairs ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Fair, error) {
	docs, err := r.store.Query(ctx, CollectionFairs, docstore.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	list := make([]models.Fair, 0, len(docs))
	for _, doc := range docs {
		var fair models.Fair
		if err := doc.Decode(&fair); err != nil {
			return nil, err
		}
		fair.ID = doc.ID
		list = append(list, fair)
	}
	return list, nil
}

// Update merges fields into a fair document, stamping the auditor.
func (r *Repository) Update(ctx context.Context, id, updatedBy string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now().UTC()
	fields["updatedBy"] = updatedBy
	return r.store.Update(ctx, CollectionFairs, id, fields)
}

// RefreshInviteCode rotates the fair's invite code and returns it.
func (r *Repository) RefreshInviteCode(ctx context.Context, id, updatedBy string) (string, error) {
	code, err := utils.NewInviteCode()
	if err != nil {
		return "", err
	}
	if err := r.Update(ctx, id, updatedBy, map[string]interface{}{"inviteCode": code}); err != nil {
		return "", err
	}
	return code, nil
}

// DeleteCascade removes every fair-scoped document and then the fair
// itself. Each subcollection is cleared in its own batch, processed
// independently: a failure partway leaves a partially cleaned fair,
// which a retry finishes.
func (r *Repository) DeleteCascade(ctx context.Context, fairID string) error {
	for _, path := range []string{BoothsPath(fairID), JobsPath(fairID), EnrollmentsPath(fairID)} {
		if err := r.deleteCollection(ctx, path); err != nil {
			return err
		}
	}
	return r.store.Delete(ctx, CollectionFairs, fairID)
}

func (r *Repository) deleteCollection(ctx context.Context, path string) error {
	docs, err := r.store.Query(ctx, path, docstore.Query{})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	batch := r.store.NewBatch()
	for _, doc := range docs {
		batch.Delete(path, doc.ID)
	}
	return batch.Commit(ctx)
}

// GetEnrollment returns the enrollment for (fair, company), or
// docstore.ErrNotFound. The document id is the company id, so at most
// one exists per pair.
func (r *Repository) GetEnrollment(ctx context.Context, fairID, companyID string) (*models.Enrollment, error) {
	doc, err := r.store.Get(ctx, EnrollmentsPath(fairID), companyID)
	if err != nil {
		return nil, err
	}
	var e models.Enrollment
	if err := doc.Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEnrollments returns all enrollments of a fair.
func (r *Repository) ListEnrollments(ctx context.Context, fairID string) ([]models.Enrollment, error) {
	docs, err := r.store.Query(ctx, EnrollmentsPath(fairID), docstore.Query{OrderBy: "companyName"})
	if err != nil {
		return nil, err
	}
	list := make([]models.Enrollment, 0, len(docs))
	for _, doc := range docs {
		var e models.Enrollment
		if err := doc.Decode(&e); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

// GetBooth returns one fair-scoped booth, or docstore.ErrNotFound.
func (r *Repository) GetBooth(ctx context.Context, fairID, boothID string) (*models.FairBooth, error) {
	doc, err := r.store.Get(ctx, BoothsPath(fairID), boothID)
	if err != nil {
		return nil, err
	}
	var booth models.FairBooth
	if err := doc.Decode(&booth); err != nil {
		return nil, err
	}
	booth.ID = doc.ID
	return &booth, nil
}

// ListBooths returns all fair-scoped booths of a fair.
func (r *Repository) ListBooths(ctx context.Context, fairID string) ([]models.FairBooth, error) {
	docs, err := r.store.Query(ctx, BoothsPath(fairID), docstore.Query{OrderBy: "companyName"})
	if err != nil {
		return nil, err
	}
	list := make([]models.FairBooth, 0, len(docs))
	for _, doc := range docs {
		var booth models.FairBooth
		if err := doc.Decode(&booth); err != nil {
			return nil, err
		}
		booth.ID = doc.ID
		list = append(list, booth)
	}
	return list, nil
}

// SaveBooth replaces a fair-scoped booth document. The copy is
// independent of the global booth; nothing propagates back.
func (r *Repository) SaveBooth(ctx context.Context, fairID string, booth *models.FairBooth) error {
	now := time.Now().UTC()
	booth.UpdatedAt = &now
	return r.store.Set(ctx, BoothsPath(fairID), booth.ID, booth)
}

// ListFairJobs returns fair-scoped jobs, optionally filtered by company.
func (r *Repository) ListFairJobs(ctx context.Context, fairID, companyID string) ([]models.FairJob, error) {
	q := docstore.Query{OrderBy: "title"}
	if companyID != "" {
		q.Filters = []docstore.Filter{{Field: "companyId", Value: companyID}}
	}
	docs, err := r.store.Query(ctx, JobsPath(fairID), q)
	if err != nil {
		return nil, err
	}
	list := make([]models.FairJob, 0, len(docs))
	for _, doc := range docs {
		var job models.FairJob
		if err := doc.Decode(&job); err != nil {
			return nil, err
		}
		job.ID = doc.ID
		list = append(list, job)
	}
	return list, nil
}

// GetFairJob returns one fair-scoped job, or docstore.ErrNotFound.
func (r *Repository) GetFairJob(ctx context.Context, fairID, jobID string) (*models.FairJob, error) {
	doc, err := r.store.Get(ctx, JobsPath(fairID), jobID)
	if err != nil {
		return nil, err
	}
	var job models.FairJob
	if err := doc.Decode(&job); err != nil {
		return nil, err
	}
	job.ID = doc.ID
	return &job, nil
}

// SaveFairJob replaces a fair-scoped job document.
func (r *Repository) SaveFairJob(ctx context.Context, fairID string, job *models.FairJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = time.Now().UTC()
	return r.store.Set(ctx, JobsPath(fairID), job.ID, job)
}

// DeleteFairJob removes a fair-scoped job document.
func (r *Repository) DeleteFairJob(ctx context.Context, fairID, jobID string) error {
	return r.store.Delete(ctx, JobsPath(fairID), jobID)
}
