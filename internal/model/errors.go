package model

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedScores is returned by a Scorer whose collaborator answered with
// something that does not decode into Scores.
var ErrMalformedScores = errors.New("malformed scores")

// HTTPError carries a non-2xx status from a provider or the scoring
// collaborator so the retry layer can tell transient failures from permanent
// ones.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

// NewHTTPError builds an HTTPError from resp, reading its Retry-After hint.
func NewHTTPError(resp *http.Response, err error) *HTTPError {
	return &HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
		Err:        err,
	}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Transient reports whether the status is worth retrying (429 or 5xx).
func (e *HTTPError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ParseRetryAfter reads a Retry-After value in either delta-seconds or
// HTTP-date form. Absent, unparseable or past values yield zero.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
