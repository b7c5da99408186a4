package domain

import "time"

// HistoryEntry is an immutable audit record of one state change. Entries
// are append-only; nothing in this module updates or deletes them.
type HistoryEntry struct {
	ID            int64
	TicketID      int64
	PreviousState TicketState
	NewState      TicketState
	ActorID       int64
	Comment       string
	CreatedAt     time.Time
}
