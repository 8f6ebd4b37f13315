// Package profile defines the business profile singleton.
package profile

import "errors"

// Common validation errors
var (
	ErrEmptyName       = errors.New("business name cannot be empty")
	ErrDuplicateBranch = errors.New("branch names must be unique")
	ErrNoBranches      = errors.New("at least one branch is required")
	ErrEmptyBranchName = errors.New("branch name cannot be empty")
)

// BusinessProfile describes the installation's business. There is exactly one
// per installation and it is replaced wholesale on edit.
type BusinessProfile struct {
	Name          string   `json:"name" bson:"name"`
	Type          string   `json:"type" bson:"type"`
	Method        string   `json:"method" bson:"method"`
	FinancialYear string   `json:"financial_year" bson:"financial_year"`
	Currency      string   `json:"currency" bson:"currency"`
	Branches      []string `json:"branches" bson:"branches"`
}

// Validate checks the profile's invariants before a replace operation.
func (p *BusinessProfile) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if len(p.Branches) == 0 {
		return ErrNoBranches
	}
	seen := make(map[string]struct{}, len(p.Branches))
	for _, b := range p.Branches {
		if b == "" {
			return ErrEmptyBranchName
		}
		if _, dup := seen[b]; dup {
			return ErrDuplicateBranch
		}
		seen[b] = struct{}{}
	}
	return nil
}

// Default returns the built-in profile used to seed a fresh installation.
func Default() BusinessProfile {
	return BusinessProfile{
		Name:          "RS Traders & Co",
		Type:          "Wholesale & Retail Trading",
		Method:        "Double Entry System",
		FinancialYear: "2024–2025",
		Currency:      "INR",
		Branches: []string{
			"Head Office – Coimbatore",
			"Branch Office – Tiruppur",
		},
	}
}

// SamplePrompts are the quick-entry examples surfaced to the UI.
var SamplePrompts = []string{
	"Sold 5 Rice Bags to Krishna Stores (GST: 33ABCDE1234F1Z5) for cash. Received 6000.",
	"Purchased 50 packets of Wheat Flour from TN Agro Ltd on credit for 22500 plus 5% tax.",
	"Paid Office Rent of 15000 by Cheque for Coimbatore Head Office.",
	"Sold 2 bottles of Oil to a walking customer for 360 cash.",
}
