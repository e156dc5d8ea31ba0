// Package dialog implements the conversational brain of the assistant:
// classifying caller intent, generating spoken replies and extracting
// structured meeting details from free-form speech. It drives a model.Model
// and knows nothing about telephony or persistence.
package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/callclerk/callclerk/calendar"
	"github.com/callclerk/callclerk/logging"
	"github.com/callclerk/callclerk/model"
	"github.com/callclerk/callclerk/session"
)

// Intent is the classified purpose of a caller utterance.
type Intent string

const (
	// IntentScheduling means the caller wants to book a meeting.
	IntentScheduling Intent = "scheduling"
	// IntentConversation means the caller is just talking.
	IntentConversation Intent = "conversation"
)

const (
	classifyInstruction = "Analyze if the user wants to schedule a meeting or just have a conversation. " +
		"Respond with either 'scheduling' or 'conversation'."

	schedulingInstruction = "You are a voice assistant that helps schedule meetings. " +
		"Keep responses concise and clear. Ask for specific details needed for scheduling."

	conversationInstruction = "You are a friendly voice assistant. " +
		"Engage in natural conversation while remembering you can help schedule meetings if needed."

	extractInstruction = "Extract meeting details in JSON format with keys: title, datetime, duration, attendees. " +
		"datetime must be ISO-8601, duration is in minutes. Respond with JSON only."
)

// Details are the structured meeting fields extracted from speech. Duration
// is in minutes, matching the JSON contract the model is asked to produce.
type Details struct {
	Title     string   `json:"title"`
	Datetime  string   `json:"datetime"`
	Duration  int      `json:"duration"`
	Attendees []string `json:"attendees"`
}

// ToRequest converts extracted details into a scheduling request.
func (d *Details) ToRequest() calendar.Request {
	return calendar.Request{
		Title:     d.Title,
		When:      d.Datetime,
		Duration:  time.Duration(d.Duration) * time.Minute,
		Attendees: d.Attendees,
	}
}

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	// Logger receives model call telemetry. Defaults to NoOp.
	Logger logging.Logger
}

// Manager runs the three model-backed dialog operations for a call turn.
// It is stateless between calls; conversation history is supplied by the
// caller from the session store.
type Manager struct {
	model  model.Model
	logger logging.Logger
}

// NewManager creates a dialog manager driving the given model.
func NewManager(m model.Model, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{model: m, logger: opts.Logger}
}

// Classify determines whether the caller wants to schedule a meeting.
// Ambiguous model output falls back to IntentConversation so the assistant
// never books on a guess.
func (d *Manager) Classify(ctx context.Context, text string) (Intent, error) {
	resp, err := d.model.Complete(ctx, model.Request{
		Instructions: classifyInstruction,
		Messages:     []model.Message{{Role: "user", Text: text}},
	})
	if err != nil {
		return IntentConversation, fmt.Errorf("classify intent: %w", err)
	}
	verdict := strings.ToLower(strings.TrimSpace(resp.Text))
	d.logger.Debug("dialog.classified", "verdict", verdict)
	if strings.Contains(verdict, "scheduling") {
		return IntentScheduling, nil
	}
	return IntentConversation, nil
}

// Respond generates the assistant's spoken reply for the conversation so
// far, with an intent-dependent instruction.
func (d *Manager) Respond(ctx context.Context, history []session.Turn, intent Intent) (string, error) {
	instruction := conversationInstruction
	if intent == IntentScheduling {
		instruction = schedulingInstruction
	}

	messages := make([]model.Message, 0, len(history))
	for _, turn := range history {
		messages = append(messages, model.Message{Role: turn.Role, Text: turn.Text})
	}

	resp, err := d.model.Complete(ctx, model.Request{
		Instructions: instruction,
		Messages:     messages,
	})
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Extract pulls structured meeting details out of a scheduling utterance.
// A reply that is not valid JSON, or that lacks a title or datetime, yields
// an error; the caller falls back to the conversational reply in that case.
func (d *Manager) Extract(ctx context.Context, text string) (*Details, error) {
	resp, err := d.model.Complete(ctx, model.Request{
		Instructions: extractInstruction,
		Messages:     []model.Message{{Role: "user", Text: text}},
	})
	if err != nil {
		return nil, fmt.Errorf("extract details: %w", err)
	}

	raw := stripCodeFence(resp.Text)
	var details Details
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("decode meeting details: %w", err)
	}
	if strings.TrimSpace(details.Title) == "" || strings.TrimSpace(details.Datetime) == "" {
		return nil, fmt.Errorf("incomplete meeting details")
	}
	return &details, nil
}

// stripCodeFence unwraps a ```json ... ``` block if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
