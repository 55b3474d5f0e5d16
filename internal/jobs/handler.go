package jobs

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// Handler handles global job HTTP endpoints. These postings are the
// sources copied into fairs at enrollment time.
type Handler struct {
	repo      *Repository
	companies access.CompanyLoader
	gate      *access.Gate
}

// NewHandler creates a jobs handler.
func NewHandler(repo *Repository, companies access.CompanyLoader, gate *access.Gate) *Handler {
	return &Handler{repo: repo, companies: companies, gate: gate}
}

// JobRequest is the body for job create/update.
type JobRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	ApplyURL       string `json:"applyUrl"`
}

// Create handles POST /companies/:id/jobs (admin or company member).
func (h *Handler) Create(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title required")
		return
	}
	company, err := h.companies.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	job := &models.Job{
		CompanyID:      companyID,
		CompanyName:    company.CompanyName,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		ApplyURL:       req.ApplyURL,
	}
	if err := h.repo.Create(c.Request.Context(), job); err != nil {
		response.Internal(c, "failed to create job")
		return
	}
	response.Created(c, job)
}

// ListByCompany handles GET /companies/:id/jobs (admin or company member).
func (h *Handler) ListByCompany(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.repo.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to list jobs")
		return
	}
	response.OK(c, list)
}

// Update handles PUT /jobs/:id (admin or member of the owning company).
func (h *Handler) Update(c *gin.Context) {
	job, ok := h.authorizedJob(c)
	if !ok {
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title required")
		return
	}
	job.Title = strings.TrimSpace(req.Title)
	job.Description = req.Description
	job.Location = req.Location
	job.EmploymentType = req.EmploymentType
	job.ApplyURL = req.ApplyURL
	if err := h.repo.Save(c.Request.Context(), job); err != nil {
		response.Internal(c, "failed to update job")
		return
	}
	response.OK(c, job)
}

// Delete handles DELETE /jobs/:id (admin or member of the owning company).
// Fair-scoped copies are independent and stay in place.
func (h *Handler) Delete(c *gin.Context) {
	job, ok := h.authorizedJob(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), job.ID); err != nil {
		response.Internal(c, "failed to delete job")
		return
	}
	response.Success(c)
}

// authorizedJob loads the job from the path and authorizes the caller
// against its owning company, writing the error response on failure.
func (h *Handler) authorizedJob(c *gin.Context) (*models.Job, bool) {
	job, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			response.NotFound(c, "job not found")
		} else {
			response.Internal(c, "failed to load job")
		}
		return nil, false
	}
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, job.CompanyID); err != nil {
		response.Error(c, err)
		return nil, false
	}
	return job, true
}
