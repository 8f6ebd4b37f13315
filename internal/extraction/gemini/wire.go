package gemini

import "github.com/shopspring/decimal"

// Request/response shapes for the generateContent endpoint. Only the fields
// this client uses are modelled.

type generateContentRequest struct {
	SystemInstruction *requestContent   `json:"system_instruction,omitempty"`
	Contents          []requestContent  `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// text returns the first candidate's concatenated text parts.
func (r *generateContentResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// analysisResponse is the schema-constrained JSON payload Gemini produces.
type analysisResponse struct {
	VoucherData *struct {
		Date      string `json:"date"`
		Type      string `json:"type"`
		Branch    string `json:"branch"`
		Narration string `json:"narration"`
		Entries   []struct {
			LedgerName string          `json:"ledgerName"`
			Amount     decimal.Decimal `json:"amount"`
			Type       string          `json:"type"`
		} `json:"entries"`
	} `json:"voucherData"`
	Classification       string `json:"classification"`
	ClassificationReason string `json:"classificationReason"`
	Verification         *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"verification"`
	Explanation string `json:"explanation"`
	Summary     string `json:"summary"`
	StockUpdate *struct {
		ItemName       string  `json:"itemName"`
		QuantityChange float64 `json:"quantityChange"`
	} `json:"stockUpdate"`
}

// analysisSchema is the response schema sent with every request so the model
// returns strictly conforming JSON.
func analysisSchema() map[string]any {
	entrySchema := map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"ledgerName": map[string]any{"type": "STRING", "description": "Must match one of the available ledgers provided in context exactly."},
			"amount":     map[string]any{"type": "NUMBER"},
			"type":       map[string]any{"type": "STRING", "enum": []string{"Dr", "Cr"}},
		},
		"required": []string{"ledgerName", "amount", "type"},
	}

	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"voucherData": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"date":      map[string]any{"type": "STRING", "description": "YYYY-MM-DD format"},
					"type":      map[string]any{"type": "STRING", "enum": []string{"Sales", "Purchase", "Payment", "Receipt", "Contra", "Journal"}},
					"branch":    map[string]any{"type": "STRING", "description": "Infer branch or default to Head Office"},
					"narration": map[string]any{"type": "STRING"},
					"entries":   map[string]any{"type": "ARRAY", "items": entrySchema},
				},
				"required": []string{"date", "type", "branch", "narration", "entries"},
			},
			"classification":       map[string]any{"type": "STRING", "enum": []string{"B2B", "B2C", "Internal"}},
			"classificationReason": map[string]any{"type": "STRING"},
			"verification": map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"status":  map[string]any{"type": "STRING", "enum": []string{"Verified", "Error", "Warning"}},
					"message": map[string]any{"type": "STRING"},
				},
				"required": []string{"status", "message"},
			},
			"explanation": map[string]any{"type": "STRING", "description": "Explain the Debit/Credit logic clearly."},
			"summary":     map[string]any{"type": "STRING", "description": "A brief summary for the business owner."},
			"stockUpdate": map[string]any{
				"type":     "OBJECT",
				"nullable": true,
				"properties": map[string]any{
					"itemName":       map[string]any{"type": "STRING", "description": "Must match exact stock name from context if applicable."},
					"quantityChange": map[string]any{"type": "NUMBER", "description": "Negative for sales, Positive for purchase."},
				},
			},
		},
		"required": []string{"voucherData", "classification", "classificationReason", "verification", "explanation", "summary"},
	}
}
