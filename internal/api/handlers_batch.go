package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleBatchRun chunks the large-documents folder synchronously.
func (s *Server) handleBatchRun(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.history.Execute(r.Context(), s.runner)
	if !ok {
		jsonError(w, "a batch run is already in progress", http.StatusConflict)
		return
	}
	s.metrics.BatchRuns.WithLabelValues(string(snap.Status)).Inc()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	run := s.history.Get(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}
