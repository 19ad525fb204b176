package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrMissingCredentials    = errors.New("publisher credentials are not configured")
	ErrPendingMintResolved   = errors.New("pending mint is already resolved")
	ErrPendingMintAbandoned  = errors.New("pending mint was abandoned")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrInvalidPendingStatus  = errors.New("invalid pending mint status")
	ErrReconciliationStorage = errors.New("pending mint registry is not configured")
)

// DecodeError means the submitted bytes could not be parsed as the declared type.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s document: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ExtractionError means the inference provider failed or returned an unusable report.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("structured extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// PublishError means the metadata could not be pinned. Wraps ErrMissingCredentials
// when the publisher was never called.
type PublishError struct {
	Provider string
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s publish failed: %v", e.Provider, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// MintInvocationError means the minting executable exited non-zero or could not run.
type MintInvocationError struct {
	ExitCode int
	Detail   string
	Err      error
}

func (e *MintInvocationError) Error() string {
	return fmt.Sprintf("minting script failed with exit code %d: %s", e.ExitCode, e.Detail)
}

func (e *MintInvocationError) Unwrap() error { return e.Err }

// MintOutputError means the minting executable exited cleanly but printed no usable JSON result.
type MintOutputError struct {
	Output string
	Err    error
}

func (e *MintOutputError) Error() string {
	return fmt.Sprintf("invalid response from minting script: %v", e.Err)
}

func (e *MintOutputError) Unwrap() error { return e.Err }

// MintResultError means the minting executable reported a business-level rejection.
type MintResultError struct {
	Detail string
}

func (e *MintResultError) Error() string {
	return fmt.Sprintf("minting rejected: %s", e.Detail)
}

// StageError is the terminal Failed(stage, reason) state of a pipeline run.
// Artifact is set when the failure happened after the metadata was published.
type StageError struct {
	Stage    Stage
	Err      error
	Artifact *PublishedArtifact
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
