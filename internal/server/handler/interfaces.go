package handler

import (
	"context"

	"github.com/accusim-bookkeeping/internal/coordinator"
	"github.com/accusim-bookkeeping/internal/domain/ledger"
	"github.com/accusim-bookkeeping/internal/domain/profile"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
	"github.com/accusim-bookkeeping/internal/extraction"
)

// Service is the application surface the HTTP handlers call into.
type Service interface {
	State() coordinator.State
	Analyze(ctx context.Context, text string, image *extraction.InlineImage) (*voucher.Proposal, error)
	PostVoucher(ctx context.Context, p *voucher.Proposal) (*coordinator.PostResult, error)
	UpdateLedger(ctx context.Context, l ledger.Ledger) ([]ledger.Ledger, error)
	SaveProfile(ctx context.Context, p profile.BusinessProfile) error
}
