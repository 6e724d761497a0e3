package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimitError indicates a model provider returned HTTP 429 or an equivalent quota signal.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// TransientError wraps a provider failure that is worth retrying, such as a 5xx
// response or a dropped connection.
type TransientError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s transient failure: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s transient failure (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError creates a TransientError.
func NewTransientError(provider string, statusCode int, err error) *TransientError {
	return &TransientError{Provider: provider, StatusCode: statusCode, Err: err}
}

// ClientError wraps a provider rejection that repeating the same request cannot fix,
// such as an invalid API key or a malformed request.
type ClientError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s rejected request (status %d): %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a ClientError.
func NewClientError(provider string, statusCode int, err error) *ClientError {
	return &ClientError{Provider: provider, StatusCode: statusCode, Err: err}
}

// IsClientError reports whether err is a non-retryable provider rejection.
func IsClientError(err error) bool {
	var cErr *ClientError
	return errors.As(err, &cErr)
}

// StatusError classifies a non-200 provider response. 429 becomes a RateLimitError,
// 5xx and 408 become a TransientError, other 4xx a ClientError.
func StatusError(provider string, resp *http.Response, body []byte) error {
	baseErr := fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, truncate(string(body), 500))
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusRequestTimeout:
		return NewTransientError(provider, resp.StatusCode, baseErr)
	case resp.StatusCode >= 400:
		return NewClientError(provider, resp.StatusCode, baseErr)
	default:
		return baseErr
	}
}

// IsRateLimited reports whether err carries a rate-limit signal.
func IsRateLimited(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
