// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a checkout succeeds.  It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without calling back into the engine.
type TicketIssuedEvent struct {
	TicketID      string   `json:"ticket_id"`
	SessionID     string   `json:"session_id"`
	VenueName     string   `json:"venue_name"`
	SeatIDs       []string `json:"seat_ids"`
	SubtotalCents uint32   `json:"subtotal_cents"`
	FeeCents      uint32   `json:"fee_cents"`
	TotalCents    uint32   `json:"total_cents"`
	IssuedAt      string   `json:"issued_at"`
}
