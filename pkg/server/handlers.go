package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tatweel/pkg/buildinfo"
	"github.com/matzehuels/tatweel/pkg/errors"
	tio "github.com/matzehuels/tatweel/pkg/io"
	"github.com/matzehuels/tatweel/pkg/observability"
	"github.com/matzehuels/tatweel/pkg/pipeline"
	"github.com/matzehuels/tatweel/pkg/store"
)

// errorResponse is the body of every non-2xx response that carries no job.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleJustify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := s.defaults.Clone()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	opts.FontPath = s.defaults.FontPath
	opts.Logger = s.logger

	job := store.NewJob(store.Request{
		Text:     opts.Text,
		Goal:     opts.Goal,
		Cost:     opts.Cost,
		Selector: opts.Selector,
		Formats:  opts.Formats,
	})

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		observability.HTTP().OnError(ctx, r.Method, r.URL.Path, err)
		job.Fail(string(errors.GetCode(err)), errors.UserMessage(err))
		if perr := s.store.Put(ctx, job); perr != nil {
			s.logger.Warn("store failed job", "id", job.ID, "err", perr)
		}
		writeJSON(w, errors.HTTPStatus(err), job)
		return
	}

	artifacts := make(map[string][]byte, len(result.Artifacts))
	var document []byte
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON {
			document = data
			continue
		}
		artifacts[format] = data
	}
	if document == nil {
		if document, err = tio.Marshal(result.Document); err != nil {
			s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
			return
		}
	}
	job.Request.Goal = result.Document.Goal
	job.Finish(document, result.PageHash, artifacts)

	if err := s.store.Put(ctx, job); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store job"))
		return
	}
	s.logger.Info("justified",
		"job", job.ID,
		"lines", result.Stats.Lines,
		"kashidas", result.Stats.Kashidas,
		"cached", result.CacheInfo.JustifyHit)
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = min(n, maxListLimit)
	}

	jobs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list jobs"))
		return
	}
	// Listings omit the heavy payloads.
	for _, j := range jobs {
		j.Document = nil
		j.Artifacts = nil
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookup(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")

	data := job.Artifacts[format]
	if format == pipeline.FormatJSON {
		data = job.Document
	}
	if data == nil {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "job %s has no %s artifact", job.ID, format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "job %s not found", id))
		return nil, false
	}
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "get job %s", id))
		return nil, false
	}
	return job, true
}

// fail writes err as an errorResponse with the status its code maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
