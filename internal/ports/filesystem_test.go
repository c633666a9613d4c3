package ports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/plugwire_plugins", filepath.Join(home, "plugwire_plugins")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"/path/with~tilde", "/path/with~tilde"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpandPath(tt.input), "ExpandPath(%q)", tt.input)
	}
}
