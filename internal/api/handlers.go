package api

import (
	"context"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"HashRevealer/hash"
	"HashRevealer/internal/coordinator"
	"HashRevealer/internal/errors"
	"HashRevealer/internal/logger"
	"HashRevealer/internal/metrics"
)

// Error codes carried in the "error" field of failed responses.
const (
	codeValidation = "validation"
	codeHashLength = "hash_length"
	codeMembership = "membership"
	codeOrdering   = "ordering"
	codeTimeout    = "timeout"
	codeNotFound   = "not_found"
	codeInternal   = "internal"
)

// handleCommit handles POST /{algorithm}: publish the caller's input and
// respond once every member of its group has done the same.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.handleNotFound(w, r)
		return
	}

	svc, ok := s.services[r.PathValue("algorithm")]
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	log := logger.With("request", requestID(r.Context()), "algorithm", svc.Algorithm().Name())
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, codeValidation, "body too large")
			return
		}
		writeError(w, http.StatusBadRequest, codeValidation, "failed to read body")
		return
	}

	req, err := coordinator.ParseRequest(body)
	if err != nil {
		log.Debug("rejected request", "error", err)
		writeCommitError(w, err)
		return
	}

	values, err := svc.Commit(r.Context(), req)
	if err != nil {
		switch coordinator.Outcome(err) {
		case metrics.OutcomeInvalid:
			log.Debug("rejected commit", "error", err, "size", len(req.HashGroup))
		case metrics.OutcomeCanceled:
			// The caller went away; there is nobody to answer.
			log.Debug("commit abandoned by caller", logger.Timed(start))
			return
		default:
			log.Warn("commit failed", "error", err, logger.Timed(start))
		}

		writeCommitError(w, err)
		return
	}

	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = hash.Encode(v)
	}

	log.Debug("commit resolved", "size", len(values), logger.Timed(start))

	writeJSON(w, http.StatusOK, encoded)
}

// writeCommitError maps a coordinator error onto a status code and body.
// Validation messages are returned verbatim; internal details are not.
func writeCommitError(w http.ResponseWriter, err error) {
	status, code := classify(err)

	body := errorBody{Error: code, Message: err.Error()}
	if status >= http.StatusInternalServerError && code != codeTimeout {
		body.Message = "internal error"
	}
	if hints := errors.FlattenHints(err); hints != "" {
		body.Hint = hints
	}

	writeJSON(w, status, body)
}

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrHashLength):
		return http.StatusBadRequest, codeHashLength
	case errors.Is(err, errors.ErrMembership):
		return http.StatusBadRequest, codeMembership
	case errors.Is(err, errors.ErrOrdering):
		return http.StatusBadRequest, codeOrdering
	case errors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, errors.ErrTimeout):
		return http.StatusGatewayTimeout, codeTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// handleRoot redirects to the project documentation.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.DocsURL, http.StatusFound)
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"algorithms": slices.Sorted(maps.Keys(s.services)),
	})
}

// handleNotFound answers every unrouted method and path.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "not found")
}

// allowedHeaders lists request headers browsers may send cross-origin.
var allowedHeaders = strings.Join([]string{"Content-Type", "Accept-Encoding"}, ", ")
