package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/docbrief/internal/assemble"
	"github.com/dgallion1/docbrief/internal/prompt"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxRequestBody = 1 << 20

type promptResponse struct {
	*prompt.Result
	ChatURL string `json:"chat_url"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	link, err := prompt.ChatURL(s.cfg.ChatURL, res.Prompt, s.cfg.ChatPromptChars)
	if err != nil {
		s.log.Warn("chat link", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, promptResponse{Result: res, ChatURL: link})
}

func (s *Server) handlePromptDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := s.generate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(res.FileName)))
	io.WriteString(w, res.Prompt)
}

// generate decodes the request for the {kind} route and builds the prompt.
// On failure it writes the error response and returns ok=false.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*prompt.Result, bool) {
	kind := chi.URLParam(r, "kind")
	if kind != prompt.KindMeeting && kind != prompt.KindPanel {
		jsonError(w, "unknown prompt kind: "+kind, http.StatusNotFound)
		return nil, false
	}

	docs, err := s.docs.Get()
	if err != nil {
		jsonError(w, "failed to load documents: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	caps := assemble.Options{PerDocCap: s.cfg.PerDocCap, GlobalCap: s.cfg.ContextCap}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	start := time.Now()

	var res *prompt.Result
	switch kind {
	case prompt.KindMeeting:
		var req prompt.MeetingRequest
		if err := dec.Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return nil, false
		}
		res, err = prompt.BuildMeeting(docs, req, caps)
	case prompt.KindPanel:
		var req prompt.PanelRequest
		if err := dec.Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return nil, false
		}
		res, err = prompt.BuildPanel(docs, req, caps)
	}

	switch {
	case errors.Is(err, prompt.ErrMissingField), errors.Is(err, prompt.ErrInvalidOption):
		s.metrics.PromptFailures.WithLabelValues(kind, "validation").Inc()
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	case errors.Is(err, prompt.ErrNoDocuments):
		s.metrics.PromptFailures.WithLabelValues(kind, "no_documents").Inc()
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": err.Error(),
			"hint":  s.emptyHint(),
		})
		return nil, false
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	s.metrics.ObservePrompt(kind, res.ContextChars, time.Since(start))
	s.log.Info("prompt generated",
		zap.String("kind", kind),
		zap.Int("documents", res.Documents),
		zap.Int("context_chars", res.ContextChars),
		zap.Int("approx_tokens", res.ApproxTokens),
	)
	return res, true
}
