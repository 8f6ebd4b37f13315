// Package stock defines inventory items tracked alongside the ledger.
package stock

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item represents one stock line. Quantity is signed: vouchers may drive it
// negative, which is a business-level anomaly the AI verification is expected
// to flag rather than something the core rejects.
type Item struct {
	ID       uuid.UUID       `json:"id" bson:"id"`
	Name     string          `json:"name" bson:"name"`
	Unit     string          `json:"unit" bson:"unit"`
	Rate     decimal.Decimal `json:"rate" bson:"rate"`
	Quantity int64           `json:"quantity" bson:"quantity"`
}

// ErrItemNotFound is returned when a stock item cannot be resolved by name
type ErrItemNotFound struct {
	Name string
}

func (e ErrItemNotFound) Error() string {
	return fmt.Sprintf("stock item not found: %s", e.Name)
}

// Adjust returns a copy of the item with the quantity change applied
// (negative for outflow, positive for inflow). The receiver is not mutated.
func (i *Item) Adjust(quantityChange int64) Item {
	updated := *i
	updated.Quantity += quantityChange
	return updated
}

// Summary renders the compact "name (unit) @ rate" form used in the
// extraction context string.
func (i *Item) Summary() string {
	return fmt.Sprintf("%s (%s) @ %s", i.Name, i.Unit, i.Rate.String())
}

// Resolve finds a stock item by name within the given set, using the same
// trimmed, case-insensitive matching as ledger resolution.
func Resolve(set []Item, name string) (*Item, int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range set {
		if strings.ToLower(strings.TrimSpace(set[i].Name)) == want {
			return &set[i], i, true
		}
	}
	return nil, -1, false
}

// Defaults returns the built-in stock items used to seed a fresh
// installation, with deterministic IDs.
func Defaults() []Item {
	mk := func(id, name, unit string, rate, quantity int64) Item {
		return Item{
			ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("accusim:stock:"+id)),
			Name:     name,
			Unit:     unit,
			Rate:     decimal.NewFromInt(rate),
			Quantity: quantity,
		}
	}

	return []Item{
		mk("s1", "Rice Bag – 25 KG", "Bag", 1200, 100),
		mk("s2", "Wheat Flour – 10 KG", "Packet", 450, 50),
		mk("s3", "Cooking Oil – 1 Litre", "Bottle", 180, 200),
	}
}
