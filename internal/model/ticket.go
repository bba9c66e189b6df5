package model

import "time"

// Ticket records a completed purchase.  It is minted only inside a
// successful commit and handed to the caller; the engine does not store
// tickets itself.
//
// Fields:
//  TicketID      – collision-resistant identifier ("RJS-" + 128-bit hex).
//  SeatIDs       – seats purchased, in the order they were selected.
//  SubtotalCents – sum of the held seats' prices.
//  FeeCents      – flat processing fee, applied when at least one seat
//                  is purchased.
//  TotalCents    – SubtotalCents + FeeCents.
//  IssuedAt      – UTC timestamp of the commit that minted the ticket.
type Ticket struct {
	TicketID      string    `json:"ticket_id"`
	SeatIDs       []string  `json:"seat_ids"`
	SubtotalCents uint32    `json:"subtotal_cents"`
	FeeCents      uint32    `json:"fee_cents"`
	TotalCents    uint32    `json:"total_cents"`
	IssuedAt      time.Time `json:"issued_at"`
}
