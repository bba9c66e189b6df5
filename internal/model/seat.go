package model

// Tier is the pricing class assigned to a whole row of seats.  Tiers are
// never set per seat; the venue layout maps each row index to exactly one
// tier and price.
type Tier string

// Known tiers, ordered from most to least expensive.
const (
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
	TierStandard Tier = "STANDARD"
)

// SeatState is the display state of a seat at the instant a seat map is
// built.  Every seat is in exactly one state.  OCCUPIED is terminal; a
// seat never leaves it.
type SeatState string

const (
	SeatAvailable SeatState = "AVAILABLE" // free to be held by any session
	SeatHeld      SeatState = "HELD"      // held by the session the map was overlaid for
	SeatOccupied  SeatState = "OCCUPIED"  // durably sold
)

// Seat describes one addressable unit of venue inventory.  Seats are
// uniquely identified by their row label and number within the row; the
// ID is derived from both (e.g. "A7").  Tier and price are a pure
// function of the row index under the layout's tier rules.
//
// Fields:
//  ID         – unique seat identifier, row label + seat number.
//  Row        – row label (e.g. "A").
//  Number     – seat number within the row, 1-based.
//  Tier       – pricing tier of the seat's row.
//  PriceCents – price in cents for this seat.
//  State      – availability at the time the seat map was built.
type Seat struct {
	ID         string    `json:"id"`
	Row        string    `json:"row"`
	Number     uint32    `json:"number"`
	Tier       Tier      `json:"tier"`
	PriceCents uint32    `json:"price_cents"`
	State      SeatState `json:"state"`
}
