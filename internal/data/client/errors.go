package client

import (
	"errors"
	"fmt"
)

// ErrNetwork matches every fetch that was rejected or answered with a non-2xx status.
var ErrNetwork = errors.New("network error")

// ErrDataShape matches payloads that cannot be decoded or lack a field that cannot be defaulted.
var ErrDataShape = errors.New("unexpected response shape")

// FetchError describes a failed request. StatusCode is 0 when no response was received.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	RequestID  string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrNetwork }

// DataShapeError is returned when a 2xx response carries an unusable body.
type DataShapeError struct {
	URL    string
	Reason string
	Err    error
}

func (e *DataShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.URL, e.Reason)
}

func (e *DataShapeError) Unwrap() error { return e.Err }

func (e *DataShapeError) Is(target error) bool { return target == ErrDataShape }

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
