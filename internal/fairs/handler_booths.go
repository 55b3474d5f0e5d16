package fairs

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SE-Project-VCF/virtual-career-fair-sub001/internal/middleware"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/docstore"
	"github.com/SE-Project-VCF/virtual-career-fair-sub001/pkg/response"
)

// ListBooths handles GET /fairs/:id/booths. Open to anyone while the
// fair is live; administrators see booths regardless of live state.
func (h *Handler) ListBooths(c *gin.Context) {
	fair, ok := h.requireVisible(c)
	if !ok {
		return
	}
	booths, err := h.repo.ListBooths(c.Request.Context(), fair.ID)
	if err != nil {
		response.Internal(c, "failed to list booths")
		return
	}
	response.OK(c, booths)
}

// GetBooth handles GET /fairs/:id/booths/:boothId, gated the same way
// as the listing.
func (h *Handler) GetBooth(c *gin.Context) {
	fair, ok := h.requireVisible(c)
	if !ok {
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), fair.ID, c.Param("boothId"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			response.NotFound(c, "booth not found")
		} else {
			response.Internal(c, "failed to load booth")
		}
		return
	}
	response.OK(c, booth)
}

// FairBoothRequest is the editable surface of a fair-scoped booth.
// Identity and enrollment audit fields are not client-writable.
type FairBoothRequest struct {
	CompanyName  string   `json:"companyName" binding:"required"`
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

// UpdateBooth handles PUT /fairs/:id/booths/:boothId (admin or member
// of the owning company). Changes stay inside this fair's copy.
func (h *Handler) UpdateBooth(c *gin.Context) {
	fairID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)
	if _, err := h.repo.GetByID(c.Request.Context(), fairID); err != nil {
		response.NotFound(c, "fair not found")
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), fairID, c.Param("boothId"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			response.NotFound(c, "booth not found")
		} else {
			response.Internal(c, "failed to load booth")
		}
		return
	}
	if err := h.gate.VerifyCompanyManager(c.Request.Context(), userID, booth.CompanyID); err != nil {
		response.Error(c, err)
		return
	}
	var req FairBoothRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "companyName required")
		return
	}
	booth.CompanyName = req.CompanyName
	booth.Industry = req.Industry
	booth.CompanySize = req.CompanySize
	booth.Location = req.Location
	booth.Description = req.Description
	booth.LogoURL = req.LogoURL
	booth.Website = req.Website
	booth.CareersPage = req.CareersPage
	booth.ContactName = req.ContactName
	booth.ContactEmail = req.ContactEmail
	booth.ContactPhone = req.ContactPhone
	if req.HiringFor != nil {
		booth.HiringFor = req.HiringFor
	}
	if booth.HiringFor == nil {
		booth.HiringFor = []string{}
	}
	if err := h.repo.SaveBooth(c.Request.Context(), fairID, booth); err != nil {
		response.Internal(c, "failed to update booth")
		return
	}
	response.OK(c, booth)
}
