package api

import "net/http"

func (s *Server) handlePromptStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  s.cfg.StatsWindow.String(),
		"stats":   s.metrics.PromptLatency.Snapshot(),
		"by_kind": s.metrics.PromptLatency.ByKind(),
	})
}
