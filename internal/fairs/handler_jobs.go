package fairs

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// ListJobs handles GET /fairs/:id/jobs?companyId= with the same
// liveness gate as booth listing.
func (h *Handler) ListJobs(c *gin.Context) {
	fair, ok := h.requireVisible(c)
	if !ok {
		return
	}
	jobs, err := h.repo.ListFairJobs(c.Request.Context(), fair.ID, c.Query("companyId"))
	if err != nil {
		response.Internal(c, "failed to list jobs")
		return
	}
	response.OK(c, jobs)
}

// FairJobRequest is the body for fair-scoped job create/update.
type FairJobRequest struct {
	CompanyID      string `json:"companyId"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	ApplyURL       string `json:"applyUrl"`
}

// CreateJob handles POST /fairs/:id/jobs (admin or company member).
// Jobs added here exist only inside this fair and carry no source link.
func (h *Handler) CreateJob(c *gin.Context) {
	fairID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	var req FairJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title required")
		return
	}
	if req.CompanyID == "" {
		response.BadRequest(c, "companyId required")
		return
	}
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, req.CompanyID); err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.repo.GetEnrollment(c.Request.Context(), fairID, req.CompanyID)
	if err != nil {
		response.BadRequest(c, "company is not enrolled in this fair")
		return
	}
	job := &models.FairJob{
		CompanyID:      req.CompanyID,
		CompanyName:    enrollment.CompanyName,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		ApplyURL:       req.ApplyURL,
	}
	if err := h.repo.SaveFairJob(c.Request.Context(), fairID, job); err != nil {
		response.Internal(c, "failed to create job")
		return
	}
	response.Created(c, job)
}

// UpdateJob handles PUT /fairs/:id/jobs/:jobId (admin or member of the
// owning company).
func (h *Handler) UpdateJob(c *gin.Context) {
	job, ok := h.authorizedFairJob(c)
	if !ok {
		return
	}
	var req FairJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "title required")
		return
	}
	job.Title = strings.TrimSpace(req.Title)
	job.Description = req.Description
	job.Location = req.Location
	job.EmploymentType = req.EmploymentType
	job.ApplyURL = req.ApplyURL
	if err := h.repo.SaveFairJob(c.Request.Context(), c.Param("id"), job); err != nil {
		response.Internal(c, "failed to update job")
		return
	}
	response.OK(c, job)
}

// DeleteJob handles DELETE /fairs/:id/jobs/:jobId (admin or member of
// the owning company). Removing a copy never touches its source.
func (h *Handler) DeleteJob(c *gin.Context) {
	job, ok := h.authorizedFairJob(c)
	if !ok {
		return
	}
	if err := h.repo.DeleteFairJob(c.Request.Context(), c.Param("id"), job.ID); err != nil {
		response.Internal(c, "failed to delete job")
		return
	}
	response.Success(c)
}

// authorizedFairJob loads the fair-scoped job from the path and
// authorizes the caller against the owning company, writing the error
// response on failure.
func (h *Handler) authorizedFairJob(c *gin.Context) (*models.FairJob, bool) {
	fairID := c.Param("id")
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return nil, false
	}
	job, err := h.repo.GetFairJob(c.Request.Context(), fairID, c.Param("jobId"))
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
