// Package server serves rendered workflows over HTTP for previewing.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/bgricker/workflowgen/internal/provider"
	githubprovider "github.com/bgricker/workflowgen/internal/provider/github"
	"github.com/bgricker/workflowgen/pkg/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server renders workflows on every request so edits to the templates show
// up after a rebuild without writing files.
type Server struct {
	workflows []workflow.Workflow
	logger    *slog.Logger
}

// New creates a Server for workflows. A nil logger discards logs.
func New(workflows []workflow.Workflow, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{workflows: workflows, logger: logger}
}

// Handler returns the HTTP routes:
//
//	GET /workflows         JSON summary of every workflow
//	GET /workflows/{file}  rendered YAML for one workflow file
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/workflows", s.handleList)
	r.Get("/workflows/{file}", s.handleWorkflow)
	return r
}

type listResponse struct {
	Workflows []provider.Workflow `json:"workflows"`
	Warnings  []provider.Warning  `json:"warnings,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resp := listResponse{Workflows: make([]provider.Workflow, 0, len(s.workflows))}
	for _, wf := range s.workflows {
		data, err := workflow.Marshal(wf)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		parsed, warnings, err := githubprovider.Decode(bytes.NewReader(data), workflow.FileName(wf.Name))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Workflows = append(resp.Workflows, parsed)
		resp.Warnings = append(resp.Warnings, warnings...)
	}
	resp.Warnings = append(resp.Warnings, githubprovider.CheckActionVersions(resp.Workflows)...)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	for _, wf := range s.workflows {
		if workflow.FileName(wf.Name) != file {
			continue
		}
		data, err := workflow.Marshal(wf)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		if _, err := w.Write(data); err != nil {
			s.logger.Warn("write response", "err", err)
		}
		return
	}
	http.Error(w, "workflow "+file+" not found", http.StatusNotFound)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("render workflow", "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
