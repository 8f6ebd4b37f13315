package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/accusim-bookkeeping/internal/domain/profile"
)

// ProfileHandler handles HTTP requests for the business profile
type ProfileHandler struct {
	service Service
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(logger *slog.Logger, service Service) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// Get returns the current business profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	RespondOK(c, h.service.State().Profile)
}

// Update replaces the business profile wholesale.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p := profile.BusinessProfile{
		Name:          req.Name,
		Type:          req.Type,
		Method:        req.Method,
		FinancialYear: req.FinancialYear,
		Currency:      req.Currency,
		Branches:      req.Branches,
	}

	if err := p.Validate(); err != nil {
		RespondUnprocessable(c, err.Error())
		return
	}

	if err := h.service.SaveProfile(c.Request.Context(), p); err != nil {
		h.logger.Error("Failed to save profile", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, p)
}
