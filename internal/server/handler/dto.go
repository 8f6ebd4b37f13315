package handler

import (
	"github.com/accusim-bookkeeping/internal/domain/voucher"
)

// AnalyzeRequest asks the extraction service to turn a free-form description
// and/or a receipt image into a voucher proposal. ImageData is base64.
type AnalyzeRequest struct {
	Text          string `json:"text"`
	ImageData     string `json:"image_data,omitempty"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
}

// PostVoucherRequest submits a reviewed proposal for posting.
type PostVoucherRequest struct {
	Proposal voucher.Proposal `json:"proposal" binding:"required"`
}

// UpdateLedgerRequest overrides a ledger's balance and balance type.
type UpdateLedgerRequest struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Balance     string `json:"balance" binding:"required"`
	BalanceType string `json:"balance_type" binding:"required,oneof=Dr Cr"`
}

// ProfileRequest replaces the business profile.
type ProfileRequest struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type"`
	Method        string   `json:"method"`
	FinancialYear string   `json:"financial_year"`
	Currency      string   `json:"currency"`
	Branches      []string `json:"branches" binding:"required,min=1"`
}
