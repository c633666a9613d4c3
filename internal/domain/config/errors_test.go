package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *UserError
		expected string
	}{
		{
			name:     "simple message",
			err:      &UserError{Code: ErrCodeConfigNotFound, Message: "config file not found"},
			expected: "config file not found",
		},
		{
			name: "message with context",
			err: &UserError{
				Code:       ErrCodeConfigNotFound,
				Message:    "config file not found",
				Context:    "plugwire.yaml",
				Suggestion: "check the path",
			},
			expected: "config file not found (at plugwire.yaml)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUserError_Format(t *testing.T) {
	t.Parallel()

	err := NewConfigNotFoundError("missing.yaml")

	formatted := err.Format()
	assert.Contains(t, formatted, "[CONFIG_NOT_FOUND]")
	assert.Contains(t, formatted, "Location: missing.yaml")
	assert.Contains(t, formatted, "Suggestion:")
}

func TestUserError_IsAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("yaml: line 1")
	err := NewConfigParseError("plugwire.yaml", cause)

	assert.ErrorIs(t, err, &UserError{Code: ErrCodeConfigParse})
	assert.NotErrorIs(t, err, &UserError{Code: ErrCodeConfigInvalid})
	assert.ErrorIs(t, err, cause)
}

func TestUserErrorHelpers(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("other"), NewConfigNotFoundError("x.yaml"))

	assert.True(t, IsUserError(wrapped))
	assert.Equal(t, ErrCodeConfigNotFound, GetUserError(wrapped).Code)
	assert.False(t, IsUserError(errors.New("plain")))
	assert.Nil(t, GetUserError(errors.New("plain")))
}

func TestErrorList(t *testing.T) {
	t.Parallel()

	var list ErrorList
	assert.NoError(t, list.AsError())

	list.AddValidation("system", "bad", "fix it")
	assert.Equal(t, "system: bad (at system)", list.AsError().Error())

	list.AddValidation("log.level", "unknown", "")
	err := list.AsError()
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "1. system: bad")
	assert.Contains(t, err.Error(), "2. log.level: unknown")
	assert.Len(t, list.Errors(), 2)
}
