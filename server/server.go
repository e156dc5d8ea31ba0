// Package server exposes the assistant over HTTP: Twilio-style voice
// webhooks that speak TwiML, and a small read-only JSON API over the
// calendar and live call sessions. Speech capture and audio playback stay on
// the telephony provider's side of the webhook contract.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/callclerk/callclerk"
	"github.com/callclerk/callclerk/logging"
	"github.com/callclerk/callclerk/session"
)

// DefaultGreeting opens every call unless overridden.
const DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

// Options configure the HTTP server.
type Options struct {
	// Greeting is spoken when a call connects.
	Greeting string

	// SpeechTimeout is the seconds of silence Twilio waits for before
	// posting the gathered speech.
	SpeechTimeout string

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Server routes webhook and API traffic to an Assistant.
type Server struct {
	assistant     *callclerk.Assistant
	greeting      string
	speechTimeout string
	logger        logging.Logger
}

// New creates a Server for the given assistant.
func New(assistant *callclerk.Assistant, optFns ...func(o *Options)) *Server {
	opts := Options{
		Greeting:      DefaultGreeting,
		SpeechTimeout: "3",
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{
		assistant:     assistant,
		greeting:      opts.Greeting,
		speechTimeout: opts.SpeechTimeout,
		logger:        opts.Logger,
	}
}

// Handler builds the chi router with the full route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/voice", s.handleVoice)
	r.Post("/process_speech", s.handleProcessSpeech)

	r.Route("/api", func(r chi.Router) {
		r.Get("/meetings", s.handleListMeetings)
		r.Get("/calls", s.handleListCalls)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})

	return r
}

// handleListMeetings returns the stored meetings exactly as persisted.
func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := s.assistant.Meetings(r.Context())
	if err != nil {
		s.logger.Error("api.meetings_failed", "error", err.Error())
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"error": "calendar unavailable"})
		return
	}
	render.JSON(w, r, meetings)
}

// sessionLister is satisfied by session stores that can enumerate live
// sessions (the in-memory store does).
type sessionLister interface {
	Active() []*session.Session
}

// handleListCalls returns snapshots of the live call sessions. Stores that
// cannot enumerate report an empty list rather than an error.
func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	calls := []*session.Session{}
	if lister, ok := s.assistant.Sessions().(sessionLister); ok {
		calls = lister.Active()
	}
	render.JSON(w, r, calls)
}
