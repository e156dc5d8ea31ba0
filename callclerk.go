// Package callclerk provides a high-level façade over the scheduling engine
// and the conversational services (dialog, sessions, logging) that make up
// the voice assistant. Most applications interact with this package by:
//  1. Creating an Assistant via New() (optionally overriding default in-memory services)
//  2. Feeding it caller speech per telephony turn (HandleTurn)
//  3. Exposing the read-only calendar through Meetings()
//
// The façade delegates scheduling to calendar.Scheduler and conversation to
// dialog.Manager while keeping setup and usage ergonomics concise. All
// defaults are safe for local development and testing; production
// deployments typically supply a durable store, a real model provider and a
// structured logger.
package callclerk

import (
	"context"
	"time"

	"github.com/callclerk/callclerk/calendar"
	"github.com/callclerk/callclerk/calstore"
	"github.com/callclerk/callclerk/dialog"
	"github.com/callclerk/callclerk/logging"
	"github.com/callclerk/callclerk/model"
	"github.com/callclerk/callclerk/session"
)

// Options configures the Assistant.
type Options struct {
	// Model generates replies, classifies intent and extracts details.
	// Defaults to a MockModel (deterministic echoes, no network).
	Model model.Model

	// Store persists booked meetings. Defaults to in-memory.
	Store calendar.Store

	// Sessions tracks per-call conversation state. Defaults to an
	// in-memory store with a 30 minute idle timeout.
	Sessions session.Store

	// Location is the reference timezone for all booking rules.
	// Defaults to UTC.
	Location *time.Location

	// Now supplies the current time, overridable for tests.
	Now func() time.Time

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Assistant is the high-level façade aggregating the scheduling engine and
// conversational services.
type Assistant struct {
	opts      Options
	scheduler *calendar.Scheduler
	dialog    *dialog.Manager
	sessions  session.Store
	logger    logging.Logger
}

// TurnResult is the outcome of one caller utterance.
type TurnResult struct {
	// Reply is what the assistant should say back.
	Reply string
	// Intent is the classified purpose of the utterance.
	Intent dialog.Intent
	// Scheduled is true when this turn booked a meeting.
	Scheduled bool
	// Meeting is the booked meeting when Scheduled is true.
	Meeting *calendar.Meeting
}

// New creates a new Assistant with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Assistant {
	opts := Options{
		Model:    model.NewMockModel("mock", "mock"),
		Store:    calstore.NewMemoryStore(),
		Location: time.UTC,
		Now:      time.Now,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore(func(o *session.InMemoryStoreOptions) {
			o.IdleTimeout = 30 * time.Minute
		})
	}

	scheduler := calendar.NewScheduler(opts.Store, func(o *calendar.SchedulerOptions) {
		o.Location = opts.Location
		o.Now = opts.Now
		o.Logger = opts.Logger
	})

	return &Assistant{
		opts:      opts,
		scheduler: scheduler,
		dialog:    dialog.NewManager(opts.Model, func(o *dialog.ManagerOptions) { o.Logger = opts.Logger }),
		sessions:  opts.Sessions,
		logger:    opts.Logger,
	}
}

// HandleTurn processes one caller utterance for the given call id: records
// it, classifies intent, and produces the spoken reply. When the caller is
// scheduling and the utterance carries parseable details, the reply is the
// scheduling outcome message; otherwise it is the conversational response,
// which for scheduling intent asks for the missing details.
//
// HandleTurn never propagates scheduling failures as errors; they become
// spoken messages. The returned error covers only model or session failures
// the telephony layer should turn into a generic apology.
func (a *Assistant) HandleTurn(ctx context.Context, callID, speech string) (TurnResult, error) {
	if err := a.sessions.Append(callID, session.NewTurn("user", speech)); err != nil {
		return TurnResult{}, err
	}

	intent, err := a.dialog.Classify(ctx, speech)
	if err != nil {
		return TurnResult{}, err
	}

	history, err := a.sessions.History(callID)
	if err != nil {
		return TurnResult{}, err
	}
	reply, err := a.dialog.Respond(ctx, history, intent)
	if err != nil {
		return TurnResult{}, err
	}

	result := TurnResult{Reply: reply, Intent: intent}
	if intent == dialog.IntentScheduling {
		if details, err := a.dialog.Extract(ctx, speech); err == nil {
			req := details.ToRequest()
			if m, err := a.scheduler.Schedule(ctx, req); err == nil {
				result.Reply = a.scheduler.SuccessMessage(m)
				result.Scheduled = true
				result.Meeting = &m
			} else {
				result.Reply = calendar.UserMessage(err)
			}
		} else {
			a.logger.Debug("turn.extract_failed", "call_id", callID, "error", err.Error())
		}
	}

	if err := a.sessions.Append(callID, session.NewTurn("assistant", result.Reply)); err != nil {
		return TurnResult{}, err
	}
	return result, nil
}

// Schedule books a meeting directly, bypassing the dialog layer. It returns
// the (success, message) pair the voice and HTTP layers render to users.
func (a *Assistant) Schedule(ctx context.Context, req calendar.Request) (bool, string) {
	m, err := a.scheduler.Schedule(ctx, req)
	if err != nil {
		return false, calendar.UserMessage(err)
	}
	return true, a.scheduler.SuccessMessage(m)
}

// Meetings returns a read-only snapshot of the booked calendar.
func (a *Assistant) Meetings(ctx context.Context) ([]calendar.Meeting, error) {
	return a.scheduler.Meetings(ctx)
}

// Sessions exposes the session store for the read-only HTTP surface.
func (a *Assistant) Sessions() session.Store { return a.sessions }
