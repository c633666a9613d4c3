package loader

import (
	"errors"
	"fmt"
)

// ManifestSizeError indicates a manifest exceeds the size limit.
type ManifestSizeError struct {
	Size  int64
	Limit int64
}

func (e *ManifestSizeError) Error() string {
	return fmt.Sprintf("manifest size %d bytes exceeds limit of %d bytes", e.Size, e.Limit)
}

// IsManifestSizeError returns true if the error is a ManifestSizeError.
func IsManifestSizeError(err error) bool {
	var e *ManifestSizeError
	return errors.As(err, &e)
}

// UnknownEntrypointError indicates a manifest names an entrypoint that is
// not in the catalog.
type UnknownEntrypointError struct {
	Entrypoint string
}

func (e *UnknownEntrypointError) Error() string {
	return fmt.Sprintf("unknown entrypoint %q", e.Entrypoint)
}

// IsUnknownEntrypoint returns true if the error is an UnknownEntrypointError.
func IsUnknownEntrypoint(err error) bool {
	var e *UnknownEntrypointError
	return errors.As(err, &e)
}

// InvalidVersionError indicates a manifest version that is not a semantic
// version.
type InvalidVersionError struct {
	Version string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: must be a semantic version such as v1.2.3", e.Version)
}

// IsInvalidVersion returns true if the error is an InvalidVersionError.
func IsInvalidVersion(err error) bool {
	var e *InvalidVersionError
	return errors.As(err, &e)
}
