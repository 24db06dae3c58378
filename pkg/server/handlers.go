package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/pipeline"
	"github.com/uniknow/c4puml/pkg/render/plantuml"
)

// ExportResponse is the body of a /v1/export response.
type ExportResponse struct {
	RequestID string              `json:"request_id"`
	Diagrams  []*plantuml.Diagram `json:"diagrams"`
	Errors    []ErrorBody         `json:"errors"`
}

// ErrorBody describes one failure. View is set for per-view failures.
type ErrorBody struct {
	View    string `json:"view,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := RequestID(r.Context())

	opts, err := s.exportOptions(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("workspace exceeds %d bytes", MaxBodyBytes))
			return
		}
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	result, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	resp := ExportResponse{RequestID: id, Diagrams: result.Diagrams, Errors: []ErrorBody{}}
	if resp.Diagrams == nil {
		resp.Diagrams = []*plantuml.Diagram{}
	}
	for _, ve := range result.ViewErrors {
		resp.Errors = append(resp.Errors, ErrorBody{
			View:    ve.Key,
			Code:    string(c4errors.GetCode(ve.Err)),
			Message: ve.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// exportOptions layers the query parameters over the server defaults.
func (s *Server) exportOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = []string{pipeline.FormatPlantUML}
	opts.Logger = nil
	q := r.URL.Query()

	for name, dst := range map[string]*bool{"legend": &opts.Legend, "sequence": &opts.Sequence, "refresh": &opts.Refresh} {
		if !q.Has(name) {
			continue
		}
		v, err := strconv.ParseBool(q.Get(name))
		if err != nil {
			return opts, c4errors.New(c4errors.ErrCodeInvalidInput, "%s: expected a boolean, got %q", name, q.Get(name))
		}
		*dst = v
	}
	if views := q["view"]; len(views) > 0 {
		opts.Views = views
	}
	for _, u := range q["include"] {
		opts.Includes = append(opts.Includes, pipeline.Include{URL: u})
	}
	return opts, nil
}

func statusFor(err error) int {
	switch c4errors.GetCode(err) {
	case c4errors.ErrCodeViewNotFound:
		return http.StatusNotFound
	case c4errors.ErrCodeInvalidWorkspace, c4errors.ErrCodeInvalidInput,
		c4errors.ErrCodeInvalidInclude, c4errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("export failed", "request_id", id, "err", err)
	} else {
		s.logger.Debug("rejected request", "request_id", id, "status", status, "err", err)
	}
	writeJSON(w, status, ExportResponse{
		RequestID: id,
		Diagrams:  []*plantuml.Diagram{},
		Errors:    []ErrorBody{{Code: string(c4errors.GetCode(err)), Message: err.Error()}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
