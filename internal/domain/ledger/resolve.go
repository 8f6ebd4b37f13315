package ledger

import (
	"strings"

	"github.com/google/uuid"
)

// normalizeName is the canonical form used when matching AI-supplied ledger
// names against the chart of accounts: surrounding whitespace is trimmed and
// the comparison is case-insensitive. Both the posting pass and any display
// lookup must go through Resolve so they share identical matching semantics.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve finds a ledger by name within the given set. The index of the match
// is returned alongside the ledger; ok is false when no ledger matches.
func Resolve(set []Ledger, name string) (*Ledger, int, bool) {
	want := normalizeName(name)
	for i := range set {
		if normalizeName(set[i].Name) == want {
			return &set[i], i, true
		}
	}
	return nil, -1, false
}

// ResolveID finds a ledger by its id within the given set.
func ResolveID(set []Ledger, id uuid.UUID) (*Ledger, int, bool) {
	for i := range set {
		if set[i].ID == id {
			return &set[i], i, true
		}
	}
	return nil, -1, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
