// Package errutils defines the error values shared across chicken.
//
// Errors are plain sentinels wrapped with context as they propagate, so
// callers can always classify a failure with errors.Is regardless of how
// much context has been added on the way up.
package errutils

import (
	"fmt"
)

// Common error types used throughout the application.
var (
	// ErrValidation is returned when an input value fails validation.
	ErrValidation = fmt.Errorf("validation failed")

	// ErrCommandFailed is returned when an external command run in strict mode
	// exits with a nonzero status or cannot be started.
	ErrCommandFailed = fmt.Errorf("command failed")

	// ErrAddonDirty is returned when an installed addon has uncommitted changes
	// and an operation would destroy them.
	ErrAddonDirty = fmt.Errorf("addon has local changes")

	// ErrAddonNotFound is returned when an addon name is not declared in the manifest.
	ErrAddonNotFound = fmt.Errorf("addon not found")

	// ErrDuplicateAddon is returned when two addons share the same name.
	ErrDuplicateAddon = fmt.Errorf("duplicate addon")

	// ErrDuplicateCacheURL is reported when two cache entries point at the same remote.
	ErrDuplicateCacheURL = fmt.Errorf("duplicate cache entry for remote")

	// Manifest errors are related to loading and saving the addons manifest.

	ErrEmptyManifestPath = fmt.Errorf(
		"manifest file path cannot be empty") // When manifest path is empty

	ErrManifestNotFound = fmt.Errorf(
		"manifest file not found") // When the manifest does not exist

	ErrManifestParse = fmt.Errorf(
		"failed to parse manifest") // When the manifest cannot be decoded

	// ErrManifestValidation is returned when manifest values fail validation.
	ErrManifestValidation = fmt.Errorf("invalid manifest")

	// ErrManifestEncode is returned when the manifest cannot be encoded.
	ErrManifestEncode = fmt.Errorf("failed to encode manifest")

	// ErrManifestExists is returned when attempting to create a manifest that already exists.
	ErrManifestExists = fmt.Errorf("manifest already exists (use --force to overwrite)")

	// ErrEmptyAddonURL is returned when an addon entry is missing its remote URL.
	ErrEmptyAddonURL = fmt.Errorf("addon url cannot be empty")

	// ErrInvalidAddonName is returned when an addon name cannot be used as a directory name.
	ErrInvalidAddonName = fmt.Errorf("invalid addon name")

	// ErrInvalidLogLevel is returned when an invalid log level is specified.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")

	// ErrConcurrencyInvalid is returned when concurrency is set below 1.
	ErrConcurrencyInvalid = fmt.Errorf("concurrency must be at least 1")

	// ErrSamePaths is returned when the cache and addons directories coincide
	// or one lies inside the other.
	ErrSamePaths = fmt.Errorf("cache and addons paths must be separate directories")
)

// Wrap wraps an error with additional context.
// If the error is nil, Wrap returns nil.
//
// Example:
//
//	if err := someOperation(); err != nil {
//	    return errutils.Wrap(err, "failed to perform operation")
//	}
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
// If the error is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrAddonNotFoundWithName creates an error for an addon missing from the manifest.
func ErrAddonNotFoundWithName(name string) error {
	return fmt.Errorf("%w: %s", ErrAddonNotFound, name)
}

// ErrDuplicateAddonWithName creates an error for an addon declared twice.
func ErrDuplicateAddonWithName(name string) error {
	return fmt.Errorf("addon '%s': %w", name, ErrDuplicateAddon)
}

// ErrEmptyAddonURLWithName is a helper to create a wrapped error with the addon name.
func ErrEmptyAddonURLWithName(name string) error {
	return fmt.Errorf("addon '%s': %w", name, ErrEmptyAddonURL)
}

// ErrInvalidAddonNameWithDetails creates an error describing why a name was rejected.
func ErrInvalidAddonNameWithDetails(name, reason string) error {
	return fmt.Errorf("%w '%s': %s", ErrInvalidAddonName, name, reason)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: error, warn, info, debug", ErrInvalidLogLevel, level)
}
