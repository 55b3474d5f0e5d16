// Package enrollments orchestrates a company joining or leaving a fair:
// authorization, the denormalized booth snapshot, the enrollment record
// and the job copies, in that order.
package enrollments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/apperr"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/companies"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/fairs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/jobs"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/queue"
)

// Service coordinates enrollment and unenrollment. The notification
// queue is optional; a nil queue silently skips notifications.
type Service struct {
	fairs     *fairs.Repository
	companies *companies.Repository
	jobs      *jobs.Repository
	users     access.UserLoader
	gate      *access.Gate
	queue     *queue.Queue
	logger    *zap.Logger
}

// NewService creates the enrollment orchestrator.
func NewService(fairRepo *fairs.Repository, companyRepo *companies.Repository, jobRepo *jobs.Repository, users access.UserLoader, gate *access.Gate, q *queue.Queue, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fairs:     fairRepo,
		companies: companyRepo,
		jobs:      jobRepo,
		users:     users,
		gate:      gate,
		queue:     q,
		logger:    logger,
	}
}

// EnrollInput carries the enrollment request. Exactly one of FairID or
// InviteCode identifies the fair; CompanyID defaults to the caller's
// own company when empty.
type EnrollInput struct {
	CallerID   string
	FairID     string
	InviteCode string
	CompanyID  string
}

// EnrollResult is returned on success: the fair-scoped booth created
// for the company and the fair it now belongs to.
type EnrollResult struct {
	FairID  string `json:"fairId"`
	BoothID string `json:"boothId"`
}

// Enroll enrolls a company into a fair. The booth snapshot and the
// enrollment record commit in one atomic batch; job copies follow in a
// second, best-effort batch. A job-copy failure leaves the enrollment
// in place and reports a dependency error alongside the result.
func (s *Service) Enroll(ctx context.Context, in EnrollInput) (*EnrollResult, error) {
	fair, method, err := s.resolveFair(ctx, in)
	if err != nil {
		return nil, err
	}

	companyID, err := s.resolveCompany(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.gate.VerifyCompanyManager(ctx, in.CallerID, companyID); err != nil {
		return nil, err
	}

	if _, err := s.fairs.GetEnrollment(ctx, fair.ID, companyID); err == nil {
		return nil, apperr.Validation("Company is already enrolled in this fair")
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, apperr.Dependency("failed to check enrollment")
	}

	snapshot, err := s.companies.BuildSnapshot(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booth := &models.FairBooth{
		ID:              uuid.NewString(),
		CompanySnapshot: *snapshot,
		EnrolledAt:      now,
		EnrolledBy:      in.CallerID,
	}
	enrollment := &models.Enrollment{
		CompanyID:        companyID,
		CompanyName:      snapshot.CompanyName,
		EnrolledAt:       now,
		EnrolledBy:       in.CallerID,
		EnrollmentMethod: method,
		BoothID:          booth.ID,
	}

	batch := s.fairs.Store().NewBatch()
	batch.Set(fairs.BoothsPath(fair.ID), booth.ID, booth)
	batch.Set(fairs.EnrollmentsPath(fair.ID), companyID, enrollment)
	if err := batch.Commit(ctx); err != nil {
		s.logger.Error("enrollment batch failed", zap.Error(err),
			zap.String("fair_id", fair.ID), zap.String("company_id", companyID))
		return nil, apperr.Dependency("failed to enroll company")
	}

	result := &EnrollResult{FairID: fair.ID, BoothID: booth.ID}

	if err := s.copyJobs(ctx, fair.ID, companyID); err != nil {
		s.logger.Error("job copy failed after enrollment", zap.Error(err),
			zap.String("fair_id", fair.ID), zap.String("company_id", companyID))
		return result, apperr.Dependency("company enrolled but job copy failed")
	}

	s.notify(ctx, queue.JobTypeEnrollmentConfirmed, fair, enrollment)
	return result, nil
}

// resolveFair picks the fair from an explicit id or an invite code and
// decides the enrollment method. An unknown invite code is a client
// error, not a missing resource.
func (s *Service) resolveFair(ctx context.Context, in EnrollInput) (*models.Fair, models.EnrollmentMethod, error) {
	if in.InviteCode != "" {
		fair, err := s.fairs.GetByInviteCode(ctx, in.InviteCode)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, "", apperr.Validation("Invalid invite code")
			}
			return nil, "", apperr.Dependency("failed to resolve invite code")
		}
		if in.FairID != "" && in.FairID != fair.ID {
			return nil, "", apperr.Validation("invite code does not match fair")
		}
		return fair, models.EnrollmentMethodInviteCode, nil
	}
	if in.FairID == "" {
		return nil, "", apperr.Validation("fairId or inviteCode required")
	}
	fair, err := s.fairs.GetByID(ctx, in.FairID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, "", apperr.NotFound("fair not found")
		}
		return nil, "", apperr.Dependency("failed to load fair")
	}
	return fair, models.EnrollmentMethodAdmin, nil
}

// resolveCompany uses the explicit company id when present, otherwise
// falls back to the caller's own company.
func (s *Service) resolveCompany(ctx context.Context, in EnrollInput) (string, error) {
	if in.CompanyID != "" {
		return in.CompanyID, nil
	}
	user, err := s.users.GetByID(ctx, in.CallerID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", apperr.NotFound("user not found")
		}
		return "", apperr.Dependency("failed to load user")
	}
	if user.CompanyID == "" {
		return "", apperr.Validation("no company specified and caller has no company")
	}
	return user.CompanyID, nil
}

// copyJobs copies the company's global job postings into the fair,
// skipping any source already copied so re-runs are idempotent.
func (s *Service) copyJobs(ctx context.Context, fairID, companyID string) error {
	postings, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if len(postings) == 0 {
		return nil
	}
	existing, err := s.fairs.ListFairJobs(ctx, fairID, companyID)
	if err != nil {
		return err
	}
	copied := make(map[string]bool, len(existing))
	for _, job := range existing {
		if job.SourceJobID != "" {
			copied[job.SourceJobID] = true
		}
	}
	batch := s.fairs.Store().NewBatch()
	pending := 0
	now := time.Now().UTC()
	for _, src := range postings {
		if copied[src.ID] {
			continue
		}
		clone := models.FairJob{
			ID:             uuid.NewString(),
			SourceJobID:    src.ID,
			CompanyID:      src.CompanyID,
			CompanyName:    src.CompanyName,
			Title:          src.Title,
			Description:    src.Description,
			Location:       src.Location,
			EmploymentType: src.EmploymentType,
			ApplyURL:       src.ApplyURL,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		batch.Set(fairs.JobsPath(fairID), clone.ID, clone)
		pending++
	}
	if pending == 0 {
		return nil
	}
	return batch.Commit(ctx)
}

// Unenroll removes a company from a fair. The enrollment record and its
// booth go in one atomic batch; the company's fair-scoped jobs go in a
// second batch afterwards.
func (s *Service) Unenroll(ctx context.Context, callerID, fairID, companyID string) error {
	fair, err := s.fairs.GetByID(ctx, fairID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("fair not found")
		}
		return apperr.Dependency("failed to load fair")
	}
	if err := s.gate.VerifyCompanyManager(ctx, callerID, companyID); err != nil {
		return err
	}
	enrollment, err := s.fairs.GetEnrollment(ctx, fairID, companyID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("company is not enrolled in this fair")
		}
		return apperr.Dependency("failed to load enrollment")
	}

	batch := s.fairs.Store().NewBatch()
	batch.Delete(fairs.EnrollmentsPath(fairID), companyID)
	if enrollment.BoothID != "" {
		batch.Delete(fairs.BoothsPath(fairID), enrollment.BoothID)
	}
	if err := batch.Commit(ctx); err != nil {
		s.logger.Error("unenrollment batch failed", zap.Error(err),
			zap.String("fair_id", fairID), zap.String("company_id", companyID))
		return apperr.Dependency("failed to unenroll company")
	}

	if err := s.deleteFairJobs(ctx, fairID, companyID); err != nil {
		s.logger.Error("fair job cleanup failed after unenrollment", zap.Error(err),
			zap.String("fair_id", fairID), zap.String("company_id", companyID))
		return apperr.Dependency("company unenrolled but job cleanup failed")
	}

	s.notify(ctx, queue.JobTypeEnrollmentRemoved, fair, enrollment)
	return nil
}

func (s *Service) deleteFairJobs(ctx context.Context, fairID, companyID string) error {
	fairJobs, err := s.fairs.ListFairJobs(ctx, fairID, companyID)
	if err != nil {
		return err
	}
	if len(fairJobs) == 0 {
		return nil
	}
	batch := s.fairs.Store().NewBatch()
	for _, job := range fairJobs {
		batch.Delete(fairs.JobsPath(fairID), job.ID)
	}
	return batch.Commit(ctx)
}

// ListForFair returns a fair's enrollments.
func (s *Service) ListForFair(ctx context.Context, fairID string) ([]models.Enrollment, error) {
	if _, err := s.fairs.GetByID(ctx, fairID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("fair not found")
		}
		return nil, apperr.Dependency("failed to load fair")
	}
	list, err := s.fairs.ListEnrollments(ctx, fairID)
	if err != nil {
		return nil, apperr.Dependency("failed to list enrollments")
	}
	return list, nil
}

// ListFairsForCompany returns every fair a company is enrolled in,
// found through a collection-group query over all enrollment
// subcollections.
func (s *Service) ListFairsForCompany(ctx context.Context, companyID string) ([]models.Fair, error) {
	docs, err := s.fairs.Store().CollectionGroup(ctx, fairs.SubcollectionEnrollments,
		docstore.Where("companyId", companyID))
	if err != nil {
		return nil, apperr.Dependency("failed to query enrollments")
	}
	result := make([]models.Fair, 0, len(docs))
	for _, doc := range docs {
		fairID := docstore.ParentID(doc.Path)
		if fairID == "" {
			continue
		}
		fair, err := s.fairs.GetByID(ctx, fairID)
		if err != nil {
			// An enrollment surviving its fair is stale data, not an error.
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			return nil, apperr.Dependency("failed to load fair")
		}
		result = append(result, fair.Public())
	}
	return result, nil
}

// notify enqueues an enrollment notification. Failures are logged and
// swallowed; notification delivery never gates the enrollment flow.
func (s *Service) notify(ctx context.Context, jobType queue.JobType, fair *models.Fair, enrollment *models.Enrollment) {
	if s.queue == nil {
		return
	}
	err := s.queue.EnqueueEnrollment(ctx, jobType, queue.EnrollmentPayload{
		FairID:      fair.ID,
		FairName:    fair.Name,
		CompanyID:   enrollment.CompanyID,
		CompanyName: enrollment.CompanyName,
	})
	if err != nil {
		s.logger.Warn("enqueue enrollment notification failed", zap.Error(err),
			zap.String("fair_id", fair.ID), zap.String("company_id", enrollment.CompanyID))
	}
}
