package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// StateHandler serves the full application snapshot the UI renders from.
type StateHandler struct {
	service Service
	logger  *slog.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(logger *slog.Logger, service Service) *StateHandler {
	return &StateHandler{
		service: service,
		logger:  logger,
	}
}

// Get returns the current ledgers, stock, voucher history and profile in one
// response.
func (h *StateHandler) Get(c *gin.Context) {
	RespondOK(c, h.service.State())
}
