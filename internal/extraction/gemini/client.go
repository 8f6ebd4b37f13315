// Package gemini implements the extraction port against the Gemini
// generateContent REST API with a schema-constrained JSON response.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/accusim-bookkeeping/internal/domain/shared"
	"github.com/accusim-bookkeeping/internal/domain/voucher"
	"github.com/accusim-bookkeeping/internal/extraction"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config carries the settings needed to talk to the Gemini API.
type Config struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
	Timeout     time.Duration
}

// Client calls the Gemini API and maps its responses onto voucher proposals.
type Client struct {
	baseURL     string
	apiKey      string
	textModel   string
	visionModel string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a Gemini-backed extractor.
func NewClient(logger *slog.Logger, cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      cfg.APIKey,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

// Extract sends the transaction text and/or image to Gemini and parses the
// schema-constrained JSON reply into a proposal. Every failure mode collapses
// into *extraction.Error.
func (c *Client) Extract(ctx context.Context, in extraction.Input) (*voucher.Proposal, error) {
	// The richer multimodal model is only worth the latency when an image
	// is attached.
	model := c.textModel
	if in.Image != nil {
		model = c.visionModel
	}

	reqBody, err := json.Marshal(c.buildRequest(in))
	if err != nil {
		return nil, &extraction.Error{Message: "could not encode request", Cause: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &extraction.Error{Message: "could not build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &extraction.Error{Message: "AI service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &extraction.Error{Message: "could not read AI response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini request failed", "status", resp.StatusCode, "model", model)
		return nil, &extraction.Error{Message: fmt.Sprintf("AI service returned status %d", resp.StatusCode)}
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &extraction.Error{Message: "malformed AI response", Cause: err}
	}

	text := genResp.text()
	if text == "" {
		return nil, &extraction.Error{Message: "no response from AI"}
	}

	var analysis analysisResponse
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, &extraction.Error{Message: "AI response is not valid JSON", Cause: err}
	}

	proposal, err := analysis.toProposal()
	if err != nil {
		return nil, &extraction.Error{Message: "AI response does not conform to the voucher schema", Cause: err}
	}

	return proposal, nil
}

func (c *Client) buildRequest(in extraction.Input) *generateContentRequest {
	var parts []requestPart
	if in.Image != nil {
		parts = append(parts, requestPart{
			InlineData: &inlineData{
				MIMEType: in.Image.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(in.Image.Data),
			},
		})
	}
	if in.Text != "" {
		parts = append(parts, requestPart{Text: in.Text})
	} else if in.Image != nil {
		parts = append(parts, requestPart{Text: "Analyze this image receipt/invoice and extract accounting details."})
	}

	return &generateContentRequest{
		SystemInstruction: &requestContent{
			Parts: []requestPart{{Text: systemPrompt(in.Context)}},
		},
		Contents: []requestContent{{Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}
}

func systemPrompt(bc extraction.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an advanced AI Accounting Engine for '%s'.\n", bc.BusinessName)
	b.WriteString("Your role is to simulate a Chartered Accountant and Tally Expert.\n\n")
	b.WriteString("Current Business Context:\n")
	fmt.Fprintf(&b, "- Branches: %s\n", strings.Join(bc.Branches, ", "))
	fmt.Fprintf(&b, "- Available Ledgers: %s\n", strings.Join(bc.LedgerNames, ", "))
	fmt.Fprintf(&b, "- Available Stock: %s\n\n", strings.Join(bc.StockSummaries, ", "))
	b.WriteString("Task:\n")
	b.WriteString("Analyze the user provided transaction text (receipt/invoice/note) and/or image.\n")
	b.WriteString("1. Extract Date, Amount, Product, Quantity, Tax.\n")
	b.WriteString("2. Identify the Voucher Type (Sales, Purchase, Payment, Receipt, Contra, Journal).\n")
	b.WriteString("3. Match with existing ledgers strictly. If a specific customer/vendor name is used, map it to 'Accounts Receivable' or 'Accounts Payable' if a specific ledger doesn't exist, but mention the specific name in the narration.\n")
	b.WriteString("4. Determine Debit/Credit logic based on Double Entry System.\n")
	b.WriteString("5. Classify B2B (if GST/Company mentioned) vs B2C.\n")
	b.WriteString("6. Verify for errors (e.g., negative stock, mismatched amounts).\n\n")
	b.WriteString("Output JSON format strictly matching the schema.")
	return b.String()
}

// toProposal validates the wire payload and maps it onto the domain proposal.
func (a *analysisResponse) toProposal() (*voucher.Proposal, error) {
	if a.VoucherData == nil {
		return nil, fmt.Errorf("missing voucherData")
	}
	if a.Verification == nil {
		return nil, fmt.Errorf("missing verification")
	}

	entries := make([]voucher.ProposedEntry, len(a.VoucherData.Entries))
	for i, e := range a.VoucherData.Entries {
		entries[i] = voucher.ProposedEntry{
			LedgerName: e.LedgerName,
			Amount:     e.Amount,
			Side:       shared.EntrySide(e.Type),
		}
	}

	p := &voucher.Proposal{
		Date:                 a.VoucherData.Date,
		Type:                 shared.VoucherType(a.VoucherData.Type),
		Branch:               a.VoucherData.Branch,
		Narration:            a.VoucherData.Narration,
		Entries:              entries,
		Classification:       shared.Classification(a.Classification),
		ClassificationReason: a.ClassificationReason,
		Verification: voucher.Verification{
			Status:  shared.VerificationStatus(a.Verification.Status),
			Message: a.Verification.Message,
		},
		Explanation: a.Explanation,
		Summary:     a.Summary,
	}
	if a.StockUpdate != nil && a.StockUpdate.ItemName != "" {
		qty := a.StockUpdate.QuantityChange
		if qty != math.Trunc(qty) {
			return nil, fmt.Errorf("stock quantityChange must be a whole number, got %v", qty)
		}
		p.StockUpdate = &voucher.StockUpdate{
			ItemName:       a.StockUpdate.ItemName,
			QuantityChange: int64(qty),
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
