package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleJobResult returns the outline list or ranking output of a finished
// job. Running jobs answer 409 with their status.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	result, ok := job.Result()
	switch {
	case ok:
		writeJSON(w, http.StatusOK, map[string]any{
			"job_id": snap.ID,
			"kind":   snap.Kind,
			"status": snap.Status,
			"errors": snap.Progress.Errors,
			"result": result,
		})
	case snap.Status.Done():
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"job_id": snap.ID,
			"status": snap.Status,
			"errors": snap.Progress.Errors,
		})
	default:
		writeJSON(w, http.StatusConflict, map[string]any{
			"job_id": snap.ID,
			"status": snap.Status,
			"phase":  snap.Phase,
		})
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": s.orchestrator.ListJobs()})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if !s.orchestrator.DeleteJob(chi.URLParam(r, "jobID")) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
