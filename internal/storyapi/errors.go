package storyapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind classifies why an upstream call failed.
type Kind string

const (
	// KindStatus means a response arrived with a non-2xx status.
	KindStatus Kind = "status"
	// KindNoResponse means the request was sent but nothing came back.
	KindNoResponse Kind = "no_response"
	// KindRequest means the request could not be built locally.
	KindRequest Kind = "request"
	// KindDecode means a 2xx response body was not the expected JSON.
	KindDecode Kind = "decode"
)

// TransportError is the single failure type returned by every Client call.
type TransportError struct {
	Op         string
	Kind       Kind
	Status     int
	StatusText string
	Message    string
	Body       []byte
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s: HTTP %d %s: %s", e.Op, e.Status, e.StatusText, e.Message)
		}
		return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.Status, e.StatusText)
	case KindNoResponse:
		if e.Timeout {
			return fmt.Sprintf("%s: upstream timed out: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("%s: no response from upstream: %v", e.Op, e.Err)
	case KindDecode:
		return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: build request: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorCode maps the failure to a stable machine-readable code.
func (e *TransportError) ErrorCode() string {
	switch e.Kind {
	case KindStatus:
		return statusCode(e.Status)
	case KindNoResponse:
		if e.Timeout {
			return "upstream_timeout"
		}
		return "upstream_unreachable"
	case KindDecode:
		return "upstream_invalid_response"
	default:
		return "request_invalid"
	}
}

func statusCode(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "upstream_bad_request"
	case status == http.StatusUnauthorized:
		return "upstream_auth_failed"
	case status == http.StatusForbidden:
		return "upstream_permission_denied"
	case status == http.StatusNotFound:
		return "upstream_not_found"
	case status == http.StatusConflict:
		return "upstream_conflict"
	case status == http.StatusUnprocessableEntity:
		return "upstream_validation_failed"
	case status == http.StatusTooManyRequests:
		return "upstream_rate_limited"
	case status >= 500:
		return "upstream_unavailable"
	default:
		return "upstream_error"
	}
}

// IsStatus reports whether err is an upstream response with the given status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == KindStatus && te.Status == status
}

func statusError(op string, resp *http.Response, body []byte) *TransportError {
	return &TransportError{
		Op:         op,
		Kind:       KindStatus,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Message:    upstreamMessage(body),
		Body:       body,
	}
}

func noResponseError(op string, err error) *TransportError {
	return &TransportError{Op: op, Kind: KindNoResponse, Timeout: isTimeout(err), Err: err}
}

func requestError(op string, err error) *TransportError {
	return &TransportError{Op: op, Kind: KindRequest, Err: err}
}

func decodeError(op string, body []byte, err error) *TransportError {
	return &TransportError{Op: op, Kind: KindDecode, Body: body, Err: err}
}

// upstreamMessage pulls a human-readable message out of an error body.
func upstreamMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range []string{"error", "message", "error.message", "detail"} {
			if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
				return r.String()
			}
		}
		return ""
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
