package domain

import (
	"errors"
	"fmt"
)

// ErrContentNotFound is returned when the source content does not exist or
// is missing fields required for narration.
var ErrContentNotFound = errors.New("content not found")

// ErrGenerationBusy is returned when another request holds the generation
// lease for the same content and no result appeared within the wait budget.
var ErrGenerationBusy = errors.New("narration generation already in progress")

// InvalidInputError rejects text before any paid synthesis work happens.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid narration input: " + e.Reason
}

type SynthesisErrorCode string

const (
	SynthesisMissingConfig      SynthesisErrorCode = "MISSING_CONFIG"
	SynthesisInvalidCredentials SynthesisErrorCode = "INVALID_CREDENTIALS"
	SynthesisAPIError           SynthesisErrorCode = "API_ERROR"
	SynthesisEmptyText          SynthesisErrorCode = "EMPTY_TEXT"
)

// SynthesisError covers provider and provider-configuration failures. The
// code is stable and machine-readable; callers branch on it.
type SynthesisError struct {
	Code    SynthesisErrorCode
	Message string
	Err     error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthesis failed (%s): %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("synthesis failed (%s): %s", e.Code, e.Message)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// StorageError is any object-store failure other than a clean "not found".
// The distinction matters: the cache coordinator treats "not found" as an
// expected branch, never as an error.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MetadataError is a record-store read or write failure.
type MetadataError struct {
	Op  string
	Err error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata %s: %v", e.Op, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }
