// Package calendar implements the meeting scheduling engine: validation of
// candidate slots against booking rules, conflict detection against the
// persisted meeting list and the orchestration that ties both to a durable
// Store. Everything here is independent of telephony and language models;
// those layers consume the engine through the Scheduler.
package calendar

import (
	"context"
	"time"
)

// Booking rule constants. Values mirror the business policy the assistant
// announces to callers, all evaluated in the scheduler's reference location.
const (
	// BusinessHoursStart is the first bookable hour of day (inclusive).
	BusinessHoursStart = 9
	// BusinessHoursEnd is the hour of day bookings must stay below (exclusive).
	BusinessHoursEnd = 17
	// MinimumNotice is the shortest allowed lead time for a new meeting.
	MinimumNotice = time.Hour
	// MaximumFutureDays bounds how far ahead a meeting may be booked.
	MaximumFutureDays = 60
	// DefaultDuration applies when a request does not specify one.
	DefaultDuration = 60 * time.Minute
)

// Meeting is a booked slot. Start is inclusive, End exclusive (End > Start).
// The JSON shape is the durable storage contract: a store serializes
// meetings exactly as this struct marshals.
type Meeting struct {
	Summary   string    `json:"summary"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`
}

// Request describes a candidate meeting as supplied by the dialog or HTTP
// layer. When must be ISO-8601; a value without an offset is interpreted in
// the scheduler's reference location. A zero Duration means DefaultDuration.
type Request struct {
	Title     string        `json:"title"`
	When      string        `json:"datetime"`
	Duration  time.Duration `json:"duration,omitempty"`
	Attendees []string      `json:"attendees,omitempty"`
}

// Store persists the ordered, append-only meeting list. Implementations must
// flush every Append before returning (write-through) and preserve insertion
// order across reloads.
type Store interface {
	// List returns a snapshot of all meetings in insertion order.
	List(ctx context.Context) ([]Meeting, error)

	// Append adds a meeting and persists the store.
	Append(ctx context.Context, m Meeting) error
}
