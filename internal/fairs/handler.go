package fairs

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/queue"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// Handler handles fair lifecycle HTTP endpoints.
type Handler struct {
	repo   *Repository
	gate   *access.Gate
	clock  Clock
	queue  *queue.Queue
	logger *zap.Logger
}

// NewHandler creates a fairs handler. q may be nil when the
// notification queue is disabled.
func NewHandler(repo *Repository, gate *access.Gate, clock Clock, q *queue.Queue, logger *zap.Logger) *Handler {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, gate: gate, clock: clock, queue: q, logger: logger}
}

// FairRequest is the body for fair create/update. Times are RFC3339.
type FairRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
}

func parseWindow(req *FairRequest) (start, end *time.Time, err error) {
	if req.StartTime != nil && *req.StartTime != "" {
		t, perr := time.Parse(time.RFC3339, *req.StartTime)
		if perr != nil {
			return nil, nil, errors.New("invalid startTime")
		}
		start = &t
	}
	if req.EndTime != nil && *req.EndTime != "" {
		t, perr := time.Parse(time.RFC3339, *req.EndTime)
		if perr != nil {
			return nil, nil, errors.New("invalid endTime")
		}
		end = &t
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, errors.New("endTime must not precede startTime")
	}
	return start, end, nil
}

// isAdminCaller checks the role claim set by the JWT middleware.
func isAdminCaller(c *gin.Context) bool {
	roleVal, ok := c.Get(middleware.ContextUserRole)
	if !ok {
		return false
	}
	role, _ := roleVal.(string)
	return models.Role(role) == models.RoleAdministrator
}

// List handles GET /fairs (public). Invite codes are stripped for
// non-administrators.
func (h *Handler) List(c *gin.Context) {
	fairsList, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list fairs")
		return
	}
	if !isAdminCaller(c) {
		for i := range fairsList {
			fairsList[i] = fairsList[i].Public()
		}
	}
	response.OK(c, fairsList)
}

// Get handles GET /fairs/:id (public).
func (h *Handler) Get(c *gin.Context) {
	fair, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	if !isAdminCaller(c) {
		*fair = fair.Public()
	}
	response.OK(c, fair)
}

// Create handles POST /fairs (admin only).
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req FairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	start, end, err := parseWindow(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fair := &models.Fair{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		CreatedBy:   userID,
		UpdatedBy:   userID,
	}
	if err := h.repo.Create(c.Request.Context(), fair); err != nil {
		h.logger.Error("create fair failed", zap.Error(err))
		response.Internal(c, "failed to create fair")
		return
	}
	response.Created(c, fair)
}

// Update handles PUT /fairs/:id (admin only). The live flag changes
// only through the toggle endpoint.
func (h *Handler) Update(c *gin.Context) {
	fairID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	var req FairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	start, end, err := parseWindow(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	fields := map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"description": req.Description,
	}
	if start != nil {
		fields["startTime"] = start
	}
	if end != nil {
		fields["endTime"] = end
	}
	if err := h.repo.Update(c.Request.Context(), fairID, userID, fields); err != nil {
		response.Internal(c, "failed to update fair")
		return
	}
	fair, err := h.repo.GetByID(c.Request.Context(), fairID)
	if err != nil {
		response.Internal(c, "failed to load fair")
		return
	}
	response.OK(c, fair)
}

// Delete handles DELETE /fairs/:id (admin only). Cascades through
// every fair-scoped subcollection before removing the fair itself.
func (h *Handler) Delete(c *gin.Context) {
	fairID := c.Param("id")
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	if err := h.repo.DeleteCascade(c.Request.Context(), fairID); err != nil {
		h.logger.Error("fair cascade delete failed", zap.Error(err), zap.String("fair_id", fairID))
		response.Internal(c, "failed to delete fair")
		return
	}
	response.Success(c)
}

// Status handles GET /fairs/:id/status (public). Side-effect free:
// evaluating twice with no writes in between yields identical results.
func (h *Handler) Status(c *gin.Context) {
	fair, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	response.OK(c, EvaluateStatus(fair, h.clock()))
}

// ToggleStatus handles POST /fairs/:id/toggle-status (admin only).
// Flips the manual flag independent of any schedule.
func (h *Handler) ToggleStatus(c *gin.Context) {
	fairID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	fair, err := h.repo.GetByID(c.Request.Context(), fairID)
	if err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	next := !fair.IsLive
	if err := h.repo.Update(c.Request.Context(), fairID, userID, map[string]interface{}{"isLive": next}); err != nil {
		response.Internal(c, "failed to toggle fair status")
		return
	}
	if next && h.queue != nil {
		// Best-effort announcement; delivery failures never fail the toggle.
		if err := h.queue.EnqueueFairLive(c.Request.Context(), queue.FairLivePayload{
			FairID: fairID, FairName: fair.Name,
		}); err != nil {
			h.logger.Warn("enqueue fair live notification failed", zap.Error(err), zap.String("fair_id", fairID))
		}
	}
	response.OK(c, gin.H{"isLive": next})
}

// RefreshInviteCode handles POST /fairs/:id/refresh-invite-code (admin
// only). The new code replaces the old one immediately.
func (h *Handler) RefreshInviteCode(c *gin.Context) {
	fairID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	code, err := h.repo.RefreshInviteCode(c.Request.Context(), fairID, userID)
	if err != nil {
		response.Internal(c, "failed to refresh invite code")
		return
	}
	response.OK(c, gin.H{"inviteCode": code})
}

// requireVisible loads the fair and enforces the liveness gate for
// non-administrators. Administrators bypass the gate regardless of
// live state.
func (h *Handler) requireVisible(c *gin.Context) (*models.Fair, bool) {
	fair, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			response.NotFound(c, "fair not found")
		} else {
			response.Internal(c, "failed to load fair")
		}
		return nil, false
	}
	if isAdminCaller(c) {
		return fair, true
	}
	if !EvaluateStatus(fair, h.clock()).IsLive {
		response.Forbidden(c, "fair is not currently live")
		return nil, false
	}
	return fair, true
}
