package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/shared"
)

// LedgerHandler handles HTTP requests for the chart of accounts
type LedgerHandler struct {
	service Service
	logger  *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, service Service) *LedgerHandler {
	return &LedgerHandler{
		service: service,
		logger:  logger,
	}
}

// List returns the current chart of accounts with running balances.
func (h *LedgerHandler) List(c *gin.Context) {
	RespondOK(c, h.service.State().Ledgers)
}

// Update overrides one ledger's balance and balance type. A degraded remote
// sync still answers 200; the state endpoint carries the sync error.
func (h *LedgerHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid ledger ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid ledger ID")
		return
	}

	var req UpdateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		h.logger.Error("Invalid balance", "balance", req.Balance, "error", err)
		RespondBadRequest(c, "Balance must be a decimal number")
		return
	}

	updated, err := h.service.UpdateLedger(c.Request.Context(), ledger.Ledger{
		ID:          id,
		Name:        req.Name,
		Group:       ledger.Group(req.Group),
		Balance:     balance,
		BalanceType: shared.EntrySide(req.BalanceType),
	})
	if err != nil {
		var notFound ledger.ErrLedgerNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, notFound.Error())
			return
		}
		h.logger.Error("Failed to update ledger", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, updated)
}
