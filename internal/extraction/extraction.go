// Package extraction defines the port to the external service that turns
// free-text and receipt images into structured voucher proposals. The core
// treats the service as a black box: it either returns a schema-conforming
// proposal or fails with an Error.
package extraction

import (
	"context"
	"fmt"

	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// InlineImage is a receipt or invoice photograph attached to a request.
type InlineImage struct {
	Data     []byte
	MIMEType string
}

// Context is the compact business context sent with every request so the
// service can match names against the live chart of accounts and stock list.
type Context struct {
	BusinessName   string
	Branches       []string
	LedgerNames    []string
	StockSummaries []string
}

// Input is one extraction request. At least one of Text or Image must be
// present; the guard lives in the caller, not here.
type Input struct {
	Text    string
	Image   *InlineImage
	Context Context
}

// Extractor turns a free-form transaction description into a proposal.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*voucher.Proposal, error)
}

// Error is the single failure type of the port. Transport failures, non-2xx
// responses, empty bodies and malformed or non-conforming payloads all
// collapse into it; the message is safe to show to the user.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
