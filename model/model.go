package model

import (
	"context"
	"fmt"
)

// Message is one conversational message in a completion request.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request captures the normalized model input produced by the dialog layer.
// Instructions carry the system prompt; Messages carry the conversation in
// order.
type Request struct {
	Instructions string    `json:"instructions"`
	Messages     []Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output for a single voice turn.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface the dialog layer needs to drive generation.
// A voice exchange is strictly turn based, so Complete is synchronous: one
// request in, one finished utterance out.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed on the text of the last message; unmatched input gets
// a deterministic fallback.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs an empty MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Complete implements Model.
func (m *MockModel) Complete(_ context.Context, req Request) (Response, error) {
	if len(req.Messages) == 0 {
		return Response{}, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1]
	full := m.responses[last.Text]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", last.Text)
	}
	return Response{Text: full, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
