// Package venue holds the static seating configuration and the pure
// projection that turns it, together with an occupancy snapshot, into a
// renderable seat map.  Nothing in this package mutates state.
package venue

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rjsarena/arena-booking/internal/model"
)

// TierRule maps a row to its tier and price.  Price is in cents.
type TierRule struct {
	Tier       model.Tier `json:"tier"`
	PriceCents uint32     `json:"price_cents"`
}

// Layout describes the fixed seating plan of a venue: rows in display
// order, a constant seat count per row, and a per-row-index tier rule.
// A Layout is immutable once loaded; concurrent readers need no locking.
type Layout struct {
	VenueName   string     `json:"venue_name"`
	Rows        []string   `json:"rows"`
	SeatsPerRow uint32     `json:"seats_per_row"`
	TierRules   []TierRule `json:"tier_rules"` // indexed by row position
}

// Default returns the built-in arena layout: four rows of twelve seats,
// row A gold, row B silver, rows C and D standard.
func Default() Layout {
	return Layout{
		VenueName:   "Rithy Jesda Arena",
		Rows:        []string{"A", "B", "C", "D"},
		SeatsPerRow: 12,
		TierRules: []TierRule{
			{Tier: model.TierGold, PriceCents: 12000},
			{Tier: model.TierSilver, PriceCents: 8000},
			{Tier: model.TierStandard, PriceCents: 4000},
			{Tier: model.TierStandard, PriceCents: 4000},
		},
	}
}

// LoadFile reads a layout from a JSON file and validates it.  Use this
// when VENUE_LAYOUT_PATH is set; otherwise callers should fall back to
// Default().
func LoadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the structural invariants a layout must satisfy before
// it can back an inventory: at least one row, no duplicate row labels, a
// positive seat count and one tier rule per row.
func (l Layout) Validate() error {
	if len(l.Rows) == 0 {
		return fmt.Errorf("layout has no rows")
	}
	if l.SeatsPerRow == 0 {
		return fmt.Errorf("layout seats_per_row must be positive")
	}
	if len(l.TierRules) != len(l.Rows) {
		return fmt.Errorf("layout has %d rows but %d tier rules", len(l.Rows), len(l.TierRules))
	}
	seen := make(map[string]struct{}, len(l.Rows))
	for _, row := range l.Rows {
		if row == "" {
			return fmt.Errorf("layout row label must not be empty")
		}
		if _, dup := seen[row]; dup {
			return fmt.Errorf("duplicate row label %q", row)
		}
		seen[row] = struct{}{}
	}
	for i, r := range l.TierRules {
		if r.Tier == "" {
			return fmt.Errorf("row %q has no tier", l.Rows[i])
		}
	}
	return nil
}

// SeatCount returns the total number of seats in the layout.
func (l Layout) SeatCount() int {
	return len(l.Rows) * int(l.SeatsPerRow)
}

// SeatID derives the canonical identifier for a seat from its row label
// and 1-based number.
func SeatID(row string, number uint32) string {
	return fmt.Sprintf("%s%d", row, number)
}
