package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrRunNotFound     = errors.New("generation run not found")
	ErrRunInProgress   = errors.New("a generation run is already in progress")
	ErrNoApprovedRows  = errors.New("no approved rows to export")
	ErrMissingIDColumn = errors.New("input sheet has no item id column")
	ErrInvalidItemIDs  = errors.New("item ids must not be empty")
	ErrUploadFailed    = errors.New("export upload to storage failed")
)

// MalformedResponseError indicates a model response did not match the expected
// labeled-section structure. Raw holds the response text verbatim.
type MalformedResponseError struct {
	Kind   string
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %s\nResponse: %s", e.Kind, e.Reason, e.Raw)
}

// NewMalformedResponseError creates a MalformedResponseError for the given response kind.
func NewMalformedResponseError(kind, reason, raw string) *MalformedResponseError {
	return &MalformedResponseError{Kind: kind, Reason: reason, Raw: raw}
}

// BlockedContentError indicates the model refused to answer or returned no content.
type BlockedContentError struct {
	Provider string
	Reason   string
}

func (e *BlockedContentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s returned blocked or empty content", e.Provider)
	}
	return fmt.Sprintf("%s returned blocked or empty content: %s", e.Provider, e.Reason)
}

// NewBlockedContentError creates a BlockedContentError.
func NewBlockedContentError(provider, reason string) *BlockedContentError {
	return &BlockedContentError{Provider: provider, Reason: reason}
}
