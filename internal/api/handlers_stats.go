package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.client == nil || s.client.Stats() == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	stats := s.client.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"model": s.client.Model(),
		"stats": stats.Snapshot(),
		"by_op": stats.SnapshotByOp(),
	})
}
