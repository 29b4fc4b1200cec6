package errutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))

	err := Wrap(ErrCommandFailed, "failed to clone addon")
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "failed to clone addon: command failed", err.Error())

	err = Wrapf(ErrAddonDirty, "addon %s", "chicken")
	assert.ErrorIs(t, err, ErrAddonDirty)
	assert.Equal(t, "addon chicken: addon has local changes", err.Error())
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"addon not found", ErrAddonNotFoundWithName("duck"), ErrAddonNotFound, "duck"},
		{"duplicate addon", ErrDuplicateAddonWithName("chicken"), ErrDuplicateAddon, "'chicken'"},
		{"empty url", ErrEmptyAddonURLWithName("egg"), ErrEmptyAddonURL, "'egg'"},
		{"invalid name", ErrInvalidAddonNameWithDetails("a/b", "name contains a path separator"), ErrInvalidAddonName, "path separator"},
		{"invalid log level", ErrInvalidLogLevelWithDetails("loud"), ErrInvalidLogLevel, "'loud'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}
