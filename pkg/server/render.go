package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/compose"
	cerrors "github.com/vango-dev/compose/internal/errors"
	"github.com/vango-dev/compose/pkg/component"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	names, err := s.config.Names()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"components": names})
}

// handleRender renders one component. GET takes params from the query
// string; POST takes a JSON body. ?raw=1 keeps binding attributes and
// ?pretty=1 indents the output.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !component.ValidName(name) {
		s.writeError(w, http.StatusBadRequest, cerrors.New("E201").WithDetailf("invalid component name %q", name))
		return
	}

	params, err := requestParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var opts []compose.RenderOption
	query := r.URL.Query()
	if query.Get("raw") == "1" {
		opts = append(opts, compose.Raw())
	}
	if query.Get("pretty") == "1" {
		opts = append(opts, compose.Pretty())
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RenderTimeout)
	defer cancel()

	html, err := s.engine.Render(ctx, name, params, opts...)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// requestParams reads component params from the request.
func requestParams(r *http.Request) (map[string]any, error) {
	params := make(map[string]any)
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode params: %w", err)
		}
		return params, nil
	}
	for key, values := range r.URL.Query() {
		if key == "raw" || key == "pretty" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}
	return params, nil
}

// statusFor maps a render error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case hasCode(err, "E210"):
		return http.StatusBadGateway
	case errors.Is(err, component.ErrUnknownComponent):
		return http.StatusNotFound
	case errors.Is(err, component.ErrNoComponentName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// hasCode reports whether any structured error in err's chain has code.
func hasCode(err error, code string) bool {
	for err != nil {
		var ce *cerrors.ComposeError
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Code == code {
			return true
		}
		err = ce.Unwrap()
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "status", status, "error", err)
	}
	body := errorBody{Message: err.Error()}
	var ce *cerrors.ComposeError
	if errors.As(err, &ce) {
		body.Code = ce.Code
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
