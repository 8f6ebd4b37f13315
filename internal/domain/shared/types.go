// Package shared contains types used across domain aggregates.
package shared

// EntrySide indicates which side of a ledger an entry affects.
type EntrySide string

const (
	Debit  EntrySide = "Dr"
	Credit EntrySide = "Cr"
)

// IsValid checks if the entry side is one of the two known values
func (s EntrySide) IsValid() bool {
	return s == Debit || s == Credit
}

// VoucherType classifies a posted accounting transaction.
type VoucherType string

const (
	VoucherSales    VoucherType = "Sales"
	VoucherPurchase VoucherType = "Purchase"
	VoucherPayment  VoucherType = "Payment"
	VoucherReceipt  VoucherType = "Receipt"
	VoucherContra   VoucherType = "Contra"
	VoucherJournal  VoucherType = "Journal"
)

// IsValid checks if the voucher type is a known value
func (t VoucherType) IsValid() bool {
	switch t {
	case VoucherSales, VoucherPurchase, VoucherPayment, VoucherReceipt, VoucherContra, VoucherJournal:
		return true
	}
	return false
}

// Classification is the AI-assigned counterparty type of a transaction.
type Classification string

const (
	ClassificationB2B      Classification = "B2B"
	ClassificationB2C      Classification = "B2C"
	ClassificationInternal Classification = "Internal"
)

// VerificationStatus is the AI's own assessment of an extracted transaction.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "Verified"
	VerificationError    VerificationStatus = "Error"
	VerificationWarning  VerificationStatus = "Warning"
)
