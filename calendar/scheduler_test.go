package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is an in-memory Store with failure injection for scheduler tests.
type stubStore struct {
	meetings []Meeting
	listErr  error
	apndErr  error
}

func (s *stubStore) List(context.Context) ([]Meeting, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Meeting, len(s.meetings))
	copy(out, s.meetings)
	return out, nil
}

func (s *stubStore) Append(_ context.Context, m Meeting) error {
	if s.apndErr != nil {
		return s.apndErr
	}
	s.meetings = append(s.meetings, m)
	return nil
}

var _ Store = (*stubStore)(nil)

func newTestScheduler(store Store) *Scheduler {
	return NewScheduler(store, func(o *SchedulerOptions) {
		o.Now = func() time.Time { return testNow }
	})
}

func TestScheduler_SchedulesValidSlot(t *testing.T) {
	store := &stubStore{}
	s := newTestScheduler(store)

	m, err := s.Schedule(context.Background(), Request{
		Title:    "Sync",
		When:     "2024-01-08T10:00:00",
		Duration: 30 * time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sync", m.Summary)
	assert.True(t, m.Start.Equal(time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)))
	assert.True(t, m.End.Equal(time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, []string{}, m.Attendees)
	assert.Len(t, store.meetings, 1)

	assert.Contains(t, s.SuccessMessage(m), "2024-01-08 10:00")
}

func TestScheduler_DefaultsDurationToOneHour(t *testing.T) {
	store := &stubStore{}
	s := newTestScheduler(store)

	m, err := s.Schedule(context.Background(), Request{Title: "Sync", When: "2024-01-08T10:00:00"})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, m.End.Sub(m.Start))
}

func TestScheduler_WeekendRejection(t *testing.T) {
	s := newTestScheduler(&stubStore{})

	_, err := s.Schedule(context.Background(), Request{Title: "Sync", When: "2024-01-13T10:00:00"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindValidation, e.Kind)
	assert.Equal(t, "Meetings cannot be scheduled on weekends", e.Message)
}

func TestScheduler_ConflictAndBoundary(t *testing.T) {
	store := &stubStore{}
	s := newTestScheduler(store)
	ctx := context.Background()

	_, err := s.Schedule(ctx, Request{Title: "First", When: "2024-01-08T10:00:00"})
	require.NoError(t, err)

	// Overlapping slot is rejected.
	_, err = s.Schedule(ctx, Request{Title: "Second", When: "2024-01-08T10:30:00"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, "Time slot is not available", e.Message)
	assert.Len(t, store.meetings, 1)

	// Touching boundary does not conflict.
	_, err = s.Schedule(ctx, Request{Title: "Third", When: "2024-01-08T11:00:00"})
	require.NoError(t, err)
	assert.Len(t, store.meetings, 2)
}

func TestScheduler_BadInput(t *testing.T) {
	s := newTestScheduler(&stubStore{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
	}{
		{"malformed datetime", Request{Title: "Sync", When: "next tuesday-ish"}},
		{"empty datetime", Request{Title: "Sync"}},
		{"empty title", Request{When: "2024-01-08T10:00:00"}},
		{"negative duration", Request{Title: "Sync", When: "2024-01-08T10:00:00", Duration: -time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Schedule(ctx, tt.req)
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindBadInput, e.Kind)
		})
	}
}

func TestScheduler_RFC3339InputKeepsOffset(t *testing.T) {
	store := &stubStore{}
	s := newTestScheduler(store)

	// 12:00+02:00 is 10:00 UTC, inside business hours.
	m, err := s.Schedule(context.Background(), Request{Title: "Sync", When: "2024-01-08T12:00:00+02:00"})
	require.NoError(t, err)
	assert.True(t, m.Start.Equal(time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)))
}

func TestScheduler_StorageFailuresAreDistinguishable(t *testing.T) {
	ctx := context.Background()

	s := newTestScheduler(&stubStore{listErr: fmt.Errorf("disk gone")})
	_, err := s.Schedule(ctx, Request{Title: "Sync", When: "2024-01-08T10:00:00"})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindStorage, e.Kind)

	s = newTestScheduler(&stubStore{apndErr: fmt.Errorf("disk full")})
	_, err = s.Schedule(ctx, Request{Title: "Sync", When: "2024-01-08T10:00:00"})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindStorage, e.Kind)
}

func TestScheduler_StoreUnchangedOnRejection(t *testing.T) {
	store := &stubStore{}
	s := newTestScheduler(store)

	_, err := s.Schedule(context.Background(), Request{Title: "Late", When: "2024-01-08T08:30:00"})
	require.Error(t, err)
	assert.Empty(t, store.meetings)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Time slot is not available",
		UserMessage(NewError(KindConflict, "Time slot is not available")))
	assert.Equal(t, "Failed to schedule meeting: please try again later",
		UserMessage(&Error{Kind: KindStorage, Message: "calendar is temporarily unavailable", Err: fmt.Errorf("disk gone")}))
	assert.Equal(t, "Failed to schedule meeting: please try again later",
		UserMessage(fmt.Errorf("some unrelated error")))
}
