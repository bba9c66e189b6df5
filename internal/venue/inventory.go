package venue

import (
	"github.com/rjsarena/arena-booking/internal/model"
)

// BuildSeatMap projects the layout and an occupancy snapshot into the
// canonical ordered seat map: rows in listed order, seat numbers
// ascending within each row.  A seat appearing in occupied is OCCUPIED,
// every other seat is AVAILABLE.  Session holds are overlaid by the
// caller (see OverlayHolds); they are never stored here.
//
// The function is pure and safe to call concurrently from any number of
// readers.
func BuildSeatMap(layout Layout, occupied map[string]struct{}) []model.Seat {
	seats := make([]model.Seat, 0, layout.SeatCount())
	for rowIdx, row := range layout.Rows {
		rule := layout.TierRules[rowIdx]
		for n := uint32(1); n <= layout.SeatsPerRow; n++ {
			id := SeatID(row, n)
			state := model.SeatAvailable
			if _, sold := occupied[id]; sold {
				state = model.SeatOccupied
			}
			seats = append(seats, model.Seat{
				ID:         id,
				Row:        row,
				Number:     n,
				Tier:       rule.Tier,
				PriceCents: rule.PriceCents,
				State:      state,
			})
		}
	}
	return seats
}

// OverlayHolds marks the given held seat ids as HELD on a freshly built
// seat map.  Occupied seats are left untouched: a hold can never shadow
// a sale.  The slice is modified in place and returned for convenience.
func OverlayHolds(seats []model.Seat, heldIDs []string) []model.Seat {
	if len(heldIDs) == 0 {
		return seats
	}
	held := make(map[string]struct{}, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = struct{}{}
	}
	for i := range seats {
		if seats[i].State != model.SeatAvailable {
			continue
		}
		if _, ok := held[seats[i].ID]; ok {
			seats[i].State = model.SeatHeld
		}
	}
	return seats
}

// FindSeat returns the seat with the given id from a seat map, or false
// when the id does not exist in the layout.
func FindSeat(seats []model.Seat, id string) (model.Seat, bool) {
	for _, s := range seats {
		if s.ID == id {
			return s, true
		}
	}
	return model.Seat{}, false
}

// CountAvailable reports how many seats in the map are still available.
func CountAvailable(seats []model.Seat) int {
	n := 0
	for _, s := range seats {
		if s.State == model.SeatAvailable {
			n++
		}
	}
	return n
}
