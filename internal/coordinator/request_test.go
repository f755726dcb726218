package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HashRevealer/internal/errors"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"hashGroup":["a","b"],"input":"c","extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, Request{HashGroup: []string{"a", "b"}, Input: "c"}, req)
}

func TestParseRequestRejectsBadShapes(t *testing.T) {
	for name, body := range map[string]string{
		"empty":            ``,
		"not json":         `{`,
		"array body":       `[]`,
		"missing group":    `{"input":"c"}`,
		"missing input":    `{"hashGroup":[]}`,
		"group not array":  `{"hashGroup":"a","input":"c"}`,
		"group of numbers": `{"hashGroup":[1],"input":"c"}`,
		"null member":      `{"hashGroup":[null],"input":"c"}`,
		"input not string": `{"hashGroup":[],"input":5}`,
		"null input":       `{"hashGroup":[],"input":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRequest([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation), "got %v", err)
		})
	}
}
