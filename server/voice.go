package server

import (
	"net/http"

	"github.com/twilio/twilio-go/twiml"
)

// handleVoice answers an inbound call: greet the caller and gather speech.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	s.writeTwiML(w, []twiml.Element{s.gather(s.greeting)})
}

// handleProcessSpeech runs one assistant turn over the transcribed speech
// and speaks the reply before gathering again. Failures become a spoken
// apology; the call never hears an HTTP error.
func (s *Server) handleProcessSpeech(w http.ResponseWriter, r *http.Request) {
	callID := r.FormValue("CallSid")
	speech := r.FormValue("SpeechResult")

	if speech == "" {
		s.writeTwiML(w, []twiml.Element{s.gather("Sorry, I didn't catch that. Could you say it again?")})
		return
	}

	result, err := s.assistant.HandleTurn(r.Context(), callID, speech)
	reply := result.Reply
	if err != nil {
		s.logger.Error("voice.turn_failed", "call_id", callID, "error", err.Error())
		reply = "I'm sorry, I'm having trouble right now. Please try again."
	}

	s.writeTwiML(w, []twiml.Element{
		&twiml.VoiceSay{Message: reply},
		s.gather(""),
	})
}

// gather builds a speech Gather verb, optionally speaking a prompt inside it.
func (s *Server) gather(prompt string) *twiml.VoiceGather {
	g := &twiml.VoiceGather{
		Input:   "speech",
		Timeout: s.speechTimeout,
		Action:  "/process_speech",
	}
	if prompt != "" {
		g.InnerElements = []twiml.Element{&twiml.VoiceSay{Message: prompt}}
	}
	return g
}

func (s *Server) writeTwiML(w http.ResponseWriter, verbs []twiml.Element) {
	doc, err := twiml.Voice(verbs)
	if err != nil {
		s.logger.Error("voice.twiml_failed", "error", err.Error())
		http.Error(w, "twiml generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(doc))
}
