package enrollments

import (
	"github.com/gin-gonic/gin"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// Handler handles enrollment HTTP endpoints.
type Handler struct {
	service *Service
	gate    *access.Gate
}

// NewHandler creates an enrollments handler.
func NewHandler(service *Service, gate *access.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// EnrollRequest is the body for POST /fairs/:id/enroll. CompanyID
// defaults to the caller's company; InviteCode lets non-admins enroll
// without knowing the fair is otherwise restricted.
type EnrollRequest struct {
	CompanyID  string `json:"companyId"`
	InviteCode string `json:"inviteCode"`
}

// Enroll handles POST /fairs/:id/enroll.
func (h *Handler) Enroll(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request body")
		return
	}
	result, err := h.service.Enroll(c.Request.Context(), EnrollInput{
		CallerID:   userID,
		FairID:     c.Param("id"),
		InviteCode: req.InviteCode,
		CompanyID:  req.CompanyID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// EnrollByCode handles POST /fairs/enroll, the invite-code-only entry
// point where the caller does not know the fair id.
func (h *Handler) EnrollByCode(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.InviteCode == "" {
		response.BadRequest(c, "inviteCode required")
		return
	}
	result, err := h.service.Enroll(c.Request.Context(), EnrollInput{
		CallerID:   userID,
		InviteCode: req.InviteCode,
		CompanyID:  req.CompanyID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// LeaveRequest is the body for POST /fairs/:id/leave.
type LeaveRequest struct {
	CompanyID string `json:"companyId"`
}

// Leave handles POST /fairs/:id/leave. Company members pull their own
// company out; admins may name any company.
func (h *Handler) Leave(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "invalid request body")
		return
	}
	companyID := req.CompanyID
	if companyID == "" {
		resolved, err := h.service.resolveCompany(c.Request.Context(), EnrollInput{CallerID: userID})
		if err != nil {
			response.Error(c, err)
			return
		}
		companyID = resolved
	}
	if err := h.service.Unenroll(c.Request.Context(), userID, c.Param("id"), companyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c)
}

// Remove handles DELETE /fairs/:id/enrollments/:companyId (admin only
// via route middleware; the service re-checks authorization anyway).
func (h *Handler) Remove(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.service.Unenroll(c.Request.Context(), userID, c.Param("id"), c.Param("companyId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c)
}

// ListForFair handles GET /fairs/:id/enrollments (admin only).
func (h *Handler) ListForFair(c *gin.Context) {
	list, err := h.service.ListForFair(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListFairsForCompany handles GET /companies/:id/fairs (admin or
// company member).
func (h *Handler) ListFairsForCompany(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.service.ListFairsForCompany(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
