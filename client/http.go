package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"HashRevealer/hash"
	"HashRevealer/internal/errors"
)

const (
	// maxResponseSize bounds the response body read from the coordinator.
	maxResponseSize = 64 << 20
)

// Errors returned by Resolve and ResolvedSet. Match them with errors.Is.
var (
	ErrValidation = errors.ErrValidation
	ErrHashLength = errors.ErrHashLength
	ErrMembership = errors.ErrMembership
	ErrOrdering   = errors.ErrOrdering
	ErrTimeout    = errors.ErrTimeout
	ErrNotFound   = errors.ErrNotFound
	ErrSchema     = errors.ErrSchema

	// ErrServer is any other non-success response.
	ErrServer = errors.New("server error")
)

// postJSON POSTs body as JSON and returns the status and response bytes.
func postJSON(ctx context.Context, c *http.Client, url string, body any) (int, []byte, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "marshal body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBytes))
	if err != nil {
		return 0, nil, errors.Wrapf(err, "POST %s", url)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "POST %s", url)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, errors.Wrapf(err, "read response from %s", url)
	}

	return resp.StatusCode, data, nil
}

// decodePreimages parses a JSON array of base64url strings.
func decodePreimages(body []byte) ([][]byte, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrapf(ErrSchema, "expected array of strings: %v", err)
	}
	if raw == nil {
		return nil, errors.Wrap(ErrSchema, "expected array of strings, got null")
	}

	out := make([][]byte, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, errors.Wrapf(ErrSchema, "element %d: expected string, got %T", i, v)
		}

		b, err := hash.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(ErrSchema, "element %d: %v", i, err)
		}
		out[i] = b
	}

	return out, nil
}

// serverError maps an error response onto the sentinel for its code.
func serverError(status int, body []byte) error {
	var eb struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &eb)

	base := ErrServer
	switch eb.Error {
	case "validation":
		base = ErrValidation
	case "hash_length":
		base = ErrHashLength
	case "membership":
		base = ErrMembership
	case "ordering":
		base = ErrOrdering
	case "timeout":
		base = ErrTimeout
	}

	if eb.Message == "" {
		eb.Message = http.StatusText(status)
	}

	return errors.Wrapf(base, "status %d: %s", status, eb.Message)
}
