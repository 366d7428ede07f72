package utils

import (
	"errors"
	"fmt"
)

// NotFoundError indicates the requested user has no profile or feature
// snapshot. Surfaced to clients as a 404, never retried.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundErrorf creates a NotFoundError with a formatted message.
func NewNotFoundErrorf(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ArtifactLoadError indicates the classifier artifact or its encoding map is
// missing or corrupt. This is a startup-class failure: every scoring request
// fails until the artifact is corrected.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("failed to load model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// NewArtifactLoadError wraps an artifact load failure with its path.
func NewArtifactLoadError(path string, err error) error {
	return &ArtifactLoadError{Path: path, Err: err}
}

// ScoringError indicates an unexpected classifier failure, such as a feature
// schema mismatch. Deterministic, so never retried.
type ScoringError struct {
	Message string
}

func (e *ScoringError) Error() string {
	return e.Message
}

// NewScoringErrorf creates a ScoringError with a formatted message.
func NewScoringErrorf(format string, args ...interface{}) error {
	return &ScoringError{Message: fmt.Sprintf(format, args...)}
}
