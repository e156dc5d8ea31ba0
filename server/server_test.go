package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callclerk/callclerk"
	"github.com/callclerk/callclerk/calendar"
	"github.com/callclerk/callclerk/model"
)

// scriptedModel routes on the system instruction so classify, respond and
// extract each get their own canned output.
type scriptedModel struct {
	verdict    string
	reply      string
	extraction string
}

func (m *scriptedModel) Complete(_ context.Context, req model.Request) (model.Response, error) {
	var text string
	switch {
	case strings.Contains(req.Instructions, "schedule a meeting or just have a conversation"):
		text = m.verdict
	case strings.Contains(req.Instructions, "JSON format"):
		text = m.extraction
	default:
		text = m.reply
	}
	return model.Response{Text: text, FinishReason: "stop"}, nil
}

func (m *scriptedModel) Info() model.Info { return model.Info{Name: "scripted", Provider: "mock"} }

func testServer(m model.Model) *Server {
	assistant := callclerk.New(func(o *callclerk.Options) {
		if m != nil {
			o.Model = m
		}
		o.Now = func() time.Time {
			return time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
		}
	})
	return New(assistant)
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleVoice(t *testing.T) {
	h := testServer(nil).Handler()

	rec := postForm(t, h, "/voice", url.Values{"CallSid": {"CA123"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<Gather")
	assert.Contains(t, body, `input="speech"`)
	assert.Contains(t, body, `action="/process_speech"`)
	assert.Contains(t, body, "How can I help you today?")
}

func TestHandleVoice_CustomGreeting(t *testing.T) {
	assistant := callclerk.New()
	srv := New(assistant, func(o *Options) { o.Greeting = "Welcome to the front desk." })

	rec := postForm(t, srv.Handler(), "/voice", url.Values{})
	assert.Contains(t, rec.Body.String(), "Welcome to the front desk.")
}

func TestHandleProcessSpeech_EmptySpeechReprompts(t *testing.T) {
	h := testServer(nil).Handler()

	rec := postForm(t, h, "/process_speech", url.Values{"CallSid": {"CA123"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catch that. Could you say it again?")
}

func TestHandleProcessSpeech_SpeaksReplyAndGathersAgain(t *testing.T) {
	m := &scriptedModel{verdict: "conversation", reply: "Happy to chat!"}
	h := testServer(m).Handler()

	rec := postForm(t, h, "/process_speech", url.Values{
		"CallSid":      {"CA123"},
		"SpeechResult": {"hello"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Happy to chat!")
	assert.Contains(t, body, "<Gather")
}

func TestHandleProcessSpeech_SchedulingReply(t *testing.T) {
	m := &scriptedModel{
		verdict:    "scheduling",
		reply:      "What time?",
		extraction: `{"title":"Sync","datetime":"2024-01-08T10:00:00","duration":30}`,
	}
	srv := testServer(m)

	rec := postForm(t, srv.Handler(), "/process_speech", url.Values{
		"CallSid":      {"CA123"},
		"SpeechResult": {"book a sync at ten"},
	})

	assert.Contains(t, rec.Body.String(), "Meeting scheduled successfully for 2024-01-08 10:00")
}

func TestListMeetings(t *testing.T) {
	assistant := callclerk.New(func(o *callclerk.Options) {
		o.Now = func() time.Time {
			return time.Date(2024, time.January, 8, 8, 0, 0, 0, time.UTC)
		}
	})
	ok, _ := assistant.Schedule(context.Background(), calendar.Request{
		Title: "Sync",
		When:  "2024-01-08T10:00:00",
	})
	require.True(t, ok)

	h := New(assistant).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var meetings []calendar.Meeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meetings))
	require.Len(t, meetings, 1)
	assert.Equal(t, "Sync", meetings[0].Summary)
}

func TestListCalls(t *testing.T) {
	m := &scriptedModel{verdict: "conversation", reply: "Hi!"}
	srv := testServer(m)
	_, err := srv.assistant.HandleTurn(context.Background(), "CA123", "hello")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var calls []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &calls))
	require.Len(t, calls, 1)
	assert.Equal(t, "CA123", calls[0]["id"])
}

func TestHealth(t *testing.T) {
	h := testServer(nil).Handler()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
