package core

import (
	"context"
	"errors"

	"github.com/chatstory/storymcp/internal/storyapi"
)

// CodedError is implemented by domain errors that carry a machine-readable code.
type CodedError interface {
	error
	ErrorCode() string
}

// ErrorInfo is the caller-facing description of a failed tool call.
// UpstreamStatus is 0 when no upstream response was involved.
type ErrorInfo struct {
	Code           string
	Message        string
	Operation      string
	UpstreamStatus int
}

func MapError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: "internal_error", Message: "internal error"}
	}

	var te *storyapi.TransportError
	if errors.As(err, &te) {
		return ErrorInfo{
			Code:           te.ErrorCode(),
			Message:        err.Error(),
			Operation:      te.Op,
			UpstreamStatus: te.Status,
		}
	}

	var coded CodedError
	if errors.As(err, &coded) {
		return ErrorInfo{Code: coded.ErrorCode(), Message: err.Error()}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return ErrorInfo{Code: "canceled", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorInfo{Code: "upstream_timeout", Message: err.Error()}
	default:
		return ErrorInfo{Code: "internal_error", Message: err.Error()}
	}
}
