package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrFileNotFound indicates the source or target file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformedSlide indicates a source slide without a content tree
	// under the reject policy.
	ErrMalformedSlide = errors.New("malformed slide")

	// ErrInputModified indicates the source or target changed on disk while
	// the merge was running.
	ErrInputModified = errors.New("input modified during merge")
)
