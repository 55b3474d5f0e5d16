package companies

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/access"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/auth"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/models"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/storage"
)

// Handler handles company and global booth HTTP endpoints.
type Handler struct {
	repo   *Repository
	users  *auth.Repository
	gate   *access.Gate
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a companies handler. s3 may be nil when logo
// storage is disabled.
func NewHandler(repo *Repository, users *auth.Repository, gate *access.Gate, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, users: users, gate: gate, s3: s3, logger: logger}
}

// CreateRequest is the body for POST /companies.
type CreateRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
}

// JoinRequest is the body for POST /companies/join.
type JoinRequest struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// RepresentativeRequest is the body for POST /companies/:id/representatives.
type RepresentativeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// BoothRequest is the body for PUT /companies/:id/booth.
type BoothRequest struct {
	CompanyName  string   `json:"companyName"`
	Industry     *string  `json:"industry"`
	CompanySize  *string  `json:"companySize"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	LogoURL      *string  `json:"logoUrl"`
	Website      *string  `json:"website"`
	CareersPage  *string  `json:"careersPage"`
	ContactName  *string  `json:"contactName"`
	ContactEmail *string  `json:"contactEmail"`
	ContactPhone *string  `json:"contactPhone"`
	HiringFor    []string `json:"hiringFor"`
}

// Create handles POST /companies. The caller becomes the owner and is
// linked to the company; a student caller is promoted to companyOwner.
func (h *Handler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "companyName required")
		return
	}
	name := strings.TrimSpace(req.CompanyName)
	if name == "" || len(name) > 255 {
		response.BadRequest(c, "companyName must be 1-255 characters")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	if user.CompanyID != "" {
		response.BadRequest(c, "user already belongs to a company")
		return
	}

	company := &models.Company{CompanyName: name, OwnerID: userID}
	if err := h.repo.Create(c.Request.Context(), company); err != nil {
		h.logger.Error("create company failed", zap.Error(err))
		response.Internal(c, "failed to create company")
		return
	}
	if err := h.users.SetCompany(c.Request.Context(), userID, company.ID); err != nil {
		response.Internal(c, "failed to link company to user")
		return
	}
	if user.Role == models.RoleStudent {
		_ = h.users.SetRole(c.Request.Context(), userID, models.RoleCompanyOwner)
	}
	response.Created(c, company)
}

// Get handles GET /companies/:id (admin or company member).
func (h *Handler) Get(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	response.OK(c, company)
}

// Update handles PUT /companies/:id (admin or company member).
func (h *Handler) Update(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "companyName required")
		return
	}
	if err := h.repo.Update(c.Request.Context(), companyID, map[string]interface{}{
		"companyName": strings.TrimSpace(req.CompanyName),
	}); err != nil {
		response.Internal(c, "failed to update company")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to load company")
		return
	}
	response.OK(c, company)
}

// Join handles POST /companies/join. Resolves a company invite code and
// adds the caller as a representative.
func (h *Handler) Join(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "inviteCode required")
		return
	}
	company, err := h.repo.GetByInviteCode(c.Request.Context(), strings.ToUpper(strings.TrimSpace(req.InviteCode)))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			response.BadRequest(c, "Invalid invite code")
			return
		}
		response.Internal(c, "failed to resolve invite code")
		return
	}
	if company.HasMember(userID) {
		response.BadRequest(c, "already a member of this company")
		return
	}
	company.RepresentativeIDs = append(company.RepresentativeIDs, userID)
	if err := h.repo.Save(c.Request.Context(), company); err != nil {
		response.Internal(c, "failed to join company")
		return
	}
	if err := h.users.SetCompany(c.Request.Context(), userID, company.ID); err != nil {
		response.Internal(c, "failed to link company to user")
		return
	}
	if user, err := h.users.GetByID(c.Request.Context(), userID); err == nil && user.Role == models.RoleStudent {
		_ = h.users.SetRole(c.Request.Context(), userID, models.RoleRepresentative)
	}
	response.OK(c, company)
}

// AddRepresentative handles POST /companies/:id/representatives.
func (h *Handler) AddRepresentative(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	var req RepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "userId required")
		return
	}
	if _, err := h.users.GetByID(c.Request.Context(), req.UserID); err != nil {
		response.NotFound(c, "user not found")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	if company.HasMember(req.UserID) {
		response.BadRequest(c, "user is already a member of this company")
		return
	}
	company.RepresentativeIDs = append(company.RepresentativeIDs, req.UserID)
	if err := h.repo.Save(c.Request.Context(), company); err != nil {
		response.Internal(c, "failed to add representative")
		return
	}
	if err := h.users.SetCompany(c.Request.Context(), req.UserID, company.ID); err != nil {
		response.Internal(c, "failed to link company to user")
		return
	}
	response.OK(c, company)
}

// RemoveRepresentative handles DELETE /companies/:id/representatives/:userId.
func (h *Handler) RemoveRepresentative(c *gin.Context) {
	companyID := c.Param("id")
	targetID := c.Param("userId")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	kept := company.RepresentativeIDs[:0]
	found := false
	for _, id := range company.RepresentativeIDs {
		if id == targetID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		response.NotFound(c, "representative not found")
		return
	}
	company.RepresentativeIDs = kept
	if err := h.repo.Save(c.Request.Context(), company); err != nil {
		response.Internal(c, "failed to remove representative")
		return
	}
	_ = h.users.SetCompany(c.Request.Context(), targetID, "")
	response.Success(c)
}

// RefreshInviteCode handles POST /companies/:id/refresh-invite-code.
func (h *Handler) RefreshInviteCode(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), companyID); err != nil {
		response.NotFound(c, "company not found")
		return
	}
	code, err := h.repo.RefreshInviteCode(c.Request.Context(), companyID)
	if err != nil {
		response.Internal(c, "failed to refresh invite code")
		return
	}
	response.OK(c, gin.H{"inviteCode": code})
}

// GetBooth handles GET /companies/:id/booth.
func (h *Handler) GetBooth(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	if company.BoothID == "" {
		response.NotFound(c, "booth not found")
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), company.BoothID)
	if err != nil {
		response.NotFound(c, "booth not found")
		return
	}
	response.OK(c, booth)
}

// UpsertBooth handles PUT /companies/:id/booth. Creates the company's
// single global booth on first write, replaces it afterwards. Edits
// here never touch fair-scoped copies.
func (h *Handler) UpsertBooth(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	var req BoothRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	booth := &models.Booth{
		ID:           company.BoothID,
		CompanyName:  req.CompanyName,
		Industry:     req.Industry,
		CompanySize:  req.CompanySize,
		Location:     req.Location,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		Website:      req.Website,
		CareersPage:  req.CareersPage,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		HiringFor:    req.HiringFor,
	}
	if company.BoothID != "" {
		if existing, err := h.repo.GetBooth(c.Request.Context(), company.BoothID); err == nil {
			booth.CreatedAt = existing.CreatedAt
			booth.LogoKey = existing.LogoKey
			if booth.LogoURL == nil {
				booth.LogoURL = existing.LogoURL
			}
		}
	}
	if err := h.repo.SaveBooth(c.Request.Context(), company, booth); err != nil {
		h.logger.Error("save booth failed", zap.Error(err), zap.String("company_id", companyID))
		response.Internal(c, "failed to save booth")
		return
	}
	response.OK(c, booth)
}

// UploadLogo handles POST /companies/:id/booth/logo (multipart form,
// field "logo"). Requires S3 storage to be configured.
func (h *Handler) UploadLogo(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "logo storage is not configured")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	if company.BoothID == "" {
		response.BadRequest(c, "create a booth before uploading a logo")
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "logo file required")
		return
	}
	if fileHeader.Size > storage.MaxLogoFileSize {
		response.BadRequest(c, "logo exceeds maximum size")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateLogoFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported logo file type")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read upload")
		return
	}
	defer file.Close()

	key := storage.LogoKey(companyID, fileHeader.Filename)
	url, err := h.s3.Upload(c.Request.Context(), key, contentType, file, true)
	if err != nil {
		h.logger.Error("logo upload failed", zap.Error(err), zap.String("company_id", companyID))
		response.Internal(c, "failed to upload logo")
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), company.BoothID)
	if err != nil {
		response.NotFound(c, "booth not found")
		return
	}
	oldKey := booth.LogoKey
	booth.LogoURL = &url
	booth.LogoKey = key
	if err := h.repo.SaveBooth(c.Request.Context(), company, booth); err != nil {
		response.Internal(c, "failed to save booth")
		return
	}
	if oldKey != "" && oldKey != key {
		// Best-effort cleanup of the replaced object.
		if err := h.s3.DeleteObject(c.Request.Context(), oldKey); err != nil {
			h.logger.Warn("delete old logo failed", zap.Error(err), zap.String("key", oldKey))
		}
	}
	response.OK(c, gin.H{"logoUrl": url})
}

// LogoDownloadURL handles GET /companies/:id/booth/logo-url. Returns a
// time-limited presigned URL for buckets that are not public-read.
func (h *Handler) LogoDownloadURL(c *gin.Context) {
	companyID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, companyID); err != nil {
		response.Error(c, err)
		return
	}
	if h.s3 == nil {
		response.ServiceUnavailable(c, "logo storage is not configured")
		return
	}
	company, err := h.repo.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.NotFound(c, "company not found")
		return
	}
	if company.BoothID == "" {
		response.NotFound(c, "booth not found")
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), company.BoothID)
	if err != nil || booth.LogoKey == "" {
		response.NotFound(c, "logo not found")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), booth.LogoKey, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign logo url failed", zap.Error(err), zap.String("company_id", companyID))
		response.Internal(c, "failed to generate download url")
		return
	}
	response.OK(c, gin.H{"url": url})
}
