package calendar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/callclerk/callclerk/logging"
)

// naiveLayouts are accepted for datetime input carrying no UTC offset. Such
// input is interpreted in the scheduler's reference location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Location is the reference timezone for business-hour and weekend
	// checks and for formatting spoken confirmations. Defaults to UTC.
	Location *time.Location

	// Now supplies the current time, overridable for tests. Defaults to
	// time.Now.
	Now func() time.Time

	// Logger receives schedule attempt telemetry. Defaults to NoOp.
	Logger logging.Logger
}

// Scheduler orchestrates validation, conflict detection and persistence for
// scheduling requests. The check-then-append sequence runs under an internal
// mutex, so concurrent Schedule calls within one process cannot double-book.
// Cross-process safety depends on the Store implementation.
type Scheduler struct {
	mu     sync.Mutex
	store  Store
	loc    *time.Location
	now    func() time.Time
	logger logging.Logger
}

// NewScheduler creates a Scheduler over the given store.
func NewScheduler(store Store, optFns ...func(o *SchedulerOptions)) *Scheduler {
	opts := SchedulerOptions{
		Location: time.UTC,
		Now:      time.Now,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{store: store, loc: opts.Location, now: opts.Now, logger: opts.Logger}
}

// Location returns the scheduler's reference location.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Schedule books the requested slot. On success the persisted Meeting is
// returned; on failure the error is always a *Error whose Kind tells the
// caller whether the request was invalid (validation, conflict, bad input)
// or the system is unavailable (storage).
//
// Duration defaults to DefaultDuration when zero. Attendees are normalized
// to an empty slice so the persisted JSON stays an array.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (Meeting, error) {
	start, end, err := s.resolveSlot(req)
	if err != nil {
		s.logger.Warn("schedule.rejected", "title", req.Title, "when", req.When, "error", err.Error())
		return Meeting{}, err
	}

	if err := Validate(start, end, s.now(), s.loc); err != nil {
		s.logger.Info("schedule.rejected", "title", req.Title, "start", start, "reason", err.Error())
		return Meeting{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("schedule.store_read_failed", "error", err.Error())
		return Meeting{}, &Error{Kind: KindStorage, Message: "calendar is temporarily unavailable", Err: err}
	}
	if Overlaps(start, end, existing) {
		s.logger.Info("schedule.conflict", "title", req.Title, "start", start)
		return Meeting{}, NewError(KindConflict, "Time slot is not available")
	}

	attendees := req.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	m := Meeting{Summary: req.Title, Start: start, End: end, Attendees: attendees}
	if err := s.store.Append(ctx, m); err != nil {
		s.logger.Error("schedule.store_write_failed", "error", err.Error())
		return Meeting{}, &Error{Kind: KindStorage, Message: "calendar is temporarily unavailable", Err: err}
	}

	s.logger.Info("schedule.booked", "title", req.Title, "start", start, "end", end)
	return m, nil
}

// Meetings returns a read-only snapshot of the store in insertion order.
func (s *Scheduler) Meetings(ctx context.Context) ([]Meeting, error) {
	return s.store.List(ctx)
}

// SuccessMessage renders the spoken confirmation for a booked meeting.
func (s *Scheduler) SuccessMessage(m Meeting) string {
	return fmt.Sprintf("Meeting scheduled successfully for %s", m.Start.In(s.loc).Format("2006-01-02 15:04"))
}

// resolveSlot parses the requested start and computes the interval bounds.
func (s *Scheduler) resolveSlot(req Request) (start, end time.Time, err error) {
	if strings.TrimSpace(req.Title) == "" {
		return time.Time{}, time.Time{}, NewError(KindBadInput, "A meeting title is required")
	}
	start, err = s.parseWhen(req.When)
	if err != nil {
		return time.Time{}, time.Time{}, &Error{
			Kind:    KindBadInput,
			Message: "I could not understand the requested date and time",
			Err:     err,
		}
	}
	duration := req.Duration
	if duration == 0 {
		duration = DefaultDuration
	}
	if duration < 0 {
		return time.Time{}, time.Time{}, NewError(KindBadInput, "Meeting duration must be positive")
	}
	return start, start.Add(duration), nil
}

// parseWhen accepts RFC 3339 input as-is and interprets naive timestamps in
// the reference location.
func (s *Scheduler) parseWhen(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported datetime format %q", value)
}
