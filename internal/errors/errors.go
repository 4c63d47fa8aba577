// Package errors classifies failures from the backend endpoints so views
// can decide between inline error strings and canned fallback messages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind is a coarse classification of an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindTimeout
	KindNotFound
	KindServer
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a context message and a Kind.
type Error struct {
	Msg  string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap wraps err with a context message, classifying it on the way.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Msg: msg, Kind: Classify(err), Err: err}
}

// WrapKind wraps err with an explicit kind.
func WrapKind(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Msg: msg, Kind: kind, Err: err}
}

// StatusError represents a non-2xx HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Classify inspects an error chain and returns its Kind.
func Classify(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusNotFound:
			return KindNotFound
		case statusErr.Code >= 500:
			return KindServer
		}
	}

	return KindUnknown
}

// IsTimeout reports whether err classifies as a timeout.
func IsTimeout(err error) bool { return Classify(err) == KindTimeout }

// IsNotFound reports whether err classifies as a missing resource.
func IsNotFound(err error) bool { return Classify(err) == KindNotFound }

// IsNetwork reports whether err classifies as a transport failure.
func IsNetwork(err error) bool { return Classify(err) == KindNetwork }
