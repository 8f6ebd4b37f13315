package handler

import (
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/accusim-bookkeeping/internal/coordinator"
	"github.com/accusim-bookkeeping/internal/extraction"
)

// VoucherHandler handles HTTP requests for voucher analysis and posting
type VoucherHandler struct {
	service Service
	logger  *slog.Logger
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(logger *slog.Logger, service Service) *VoucherHandler {
	return &VoucherHandler{
		service: service,
		logger:  logger,
	}
}

// Analyze runs the extraction service over a free-form description and/or a
// base64 receipt image and returns the structured proposal for review.
func (h *VoucherHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var image *extraction.InlineImage
	if req.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			h.logger.Error("Invalid image payload", "error", err)
			RespondBadRequest(c, "Image data must be base64 encoded")
			return
		}
		mimeType := req.ImageMIMEType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		image = &extraction.InlineImage{Data: data, MIMEType: mimeType}
	}

	proposal, err := h.service.Analyze(c.Request.Context(), req.Text, image)
	if err != nil {
		if errors.Is(err, coordinator.ErrNoInput) {
			RespondBadRequest(c, err.Error())
			return
		}
		var extractionErr *extraction.Error
		if errors.As(err, &extractionErr) {
			h.logger.Error("Extraction failed", "error", err)
			RespondBadGateway(c, extractionErr.Message)
			return
		}
		h.logger.Error("Failed to analyze transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, proposal)
}

// Post turns a reviewed proposal into a posted voucher. Persistence problems
// after the posting succeeded are reported on the result, not as a failure.
func (h *VoucherHandler) Post(c *gin.Context) {
	var req PostVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.PostVoucher(c.Request.Context(), &req.Proposal)
	if err != nil {
		h.logger.Error("Failed to post voucher", "error", err)
		RespondUnprocessable(c, err.Error())
		return
	}

	RespondCreated(c, result)
}

// List returns the voucher history, newest first.
func (h *VoucherHandler) List(c *gin.Context) {
	RespondOK(c, h.service.State().Vouchers)
}
