package api

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docsift/internal/parser"
	"github.com/dgallion1/docsift/internal/pipeline"
)

// maxUploadFiles caps the number of documents in one request.
const maxUploadFiles = 50

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	files, ok := s.readUploads(w, r, "file", "files")
	if !ok {
		return
	}
	s.submit(w, pipeline.NewJob(pipeline.KindOutline, files))
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	files, ok := s.readUploads(w, r, "files", "files[]", "file")
	if !ok {
		return
	}

	params := pipeline.RankParams{
		Persona: strings.TrimSpace(r.FormValue("persona")),
		Task:    strings.TrimSpace(r.FormValue("job")),
	}
	if params.Persona == "" || params.Task == "" {
		jsonError(w, "persona and job are required", http.StatusBadRequest)
		return
	}
	if v := r.FormValue("top_n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "top_n must be a positive integer", http.StatusBadRequest)
			return
		}
		params.TopN = n
	}
	if v := r.FormValue("lambda"); v != "" {
		l, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(l) || l < 0 || l > 1 {
			jsonError(w, "lambda must be a number in [0,1]", http.StatusBadRequest)
			return
		}
		params.Lambda = &l
	}

	job := pipeline.NewJob(pipeline.KindRank, files)
	job.Rank = params
	s.submit(w, job)
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":    job.ID,
		"kind":      job.Kind,
		"status":    job.Snapshot().Status,
		"filenames": job.Filenames,
		"poll_url":  fmt.Sprintf("/api/jobs/%s/status", job.ID),
	})
}

// readUploads parses the multipart form and reads every file posted under
// any of fields. It writes the error response itself and returns ok=false
// on failure.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request, fields ...string) ([]pipeline.File, bool) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	var headers []*multipart.FileHeader
	for _, f := range fields {
		headers = append(headers, r.MultipartForm.File[f]...)
	}
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return nil, false
	}
	if len(headers) > maxUploadFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", maxUploadFiles), http.StatusBadRequest)
		return nil, false
	}

	files := make([]pipeline.File, 0, len(headers))
	var total int64
	for _, fh := range headers {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file", http.StatusInternalServerError)
			return nil, false
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return nil, false
		}
		total += int64(len(data))
		if total > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		files = append(files, pipeline.File{Name: filename, Data: data})
	}
	return files, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
