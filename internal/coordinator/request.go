package coordinator

import (
	"encoding/json"

	"HashRevealer/internal/errors"
)

// Request is a commit-and-wait call: the caller's canonical group of
// base64url commitments and its own base64url-encoded secret.
type Request struct {
	HashGroup []string `json:"hashGroup"`
	Input     string   `json:"input"`
}

// ParseRequest decodes a JSON body and checks its shape: hashGroup must be
// an array of strings and input a string. Unknown fields are ignored.
func ParseRequest(body []byte) (Request, error) {
	if len(body) == 0 {
		return Request{}, errors.Wrap(errors.ErrValidation, "missing body")
	}

	var raw struct {
		HashGroup *[]*string `json:"hashGroup"`
		Input     *string    `json:"input"`
	}

	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, errors.Wrapf(errors.ErrValidation, "malformed body: %v", err)
	}

	if raw.HashGroup == nil {
		return Request{}, errors.Wrap(errors.ErrValidation, "hashGroup: expected array of strings")
	}

	if raw.Input == nil {
		return Request{}, errors.Wrap(errors.ErrValidation, "input: expected string")
	}

	req := Request{
		HashGroup: make([]string, len(*raw.HashGroup)),
		Input:     *raw.Input,
	}

	for i, s := range *raw.HashGroup {
		if s == nil {
			return Request{}, errors.Wrapf(errors.ErrValidation, "hashGroup[%d]: expected string", i)
		}
		req.HashGroup[i] = *s
	}

	return req, nil
}
