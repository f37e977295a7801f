package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sony/gobreaker"
)

var (
	// ErrNoData is returned when an upstream responded successfully but
	// carried no usable records for the requested window.
	ErrNoData = errors.New("no upstream data")

	// ErrBadPayload is returned when a response body is neither valid JSON
	// nor the data portal's XML service envelope.
	ErrBadPayload = errors.New("unrecognized upstream payload")
)

// Error is a provider-protocol failure: the transport succeeded (usually a
// 200) but the payload carried a non-success result code.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream error %s: %s", e.Code, e.Message)
}

// statusByCode maps the Korean data portal's result codes onto HTTP statuses.
// Codes not listed map to 502: the upstream misbehaved, not the caller.
var statusByCode = map[string]int{
	"01": http.StatusBadGateway,         // application error
	"04": http.StatusServiceUnavailable, // HTTP routing error
	"05": http.StatusServiceUnavailable, // service timeout
	"10": http.StatusBadRequest,         // invalid request parameter
	"11": http.StatusBadRequest,         // missing required parameter
	"12": http.StatusServiceUnavailable, // service closed or not found
	"20": http.StatusForbidden,          // access denied
	"21": http.StatusForbidden,          // temporarily disabled key
	"22": http.StatusTooManyRequests,    // request quota exceeded
	"30": http.StatusUnauthorized,       // unregistered service key
	"31": http.StatusUnauthorized,       // expired service key
	"32": http.StatusUnauthorized,       // unregistered client IP
	"99": http.StatusBadGateway,         // unknown
}

// NewError builds a typed provider failure from a result code and message.
func NewError(code, message string) *Error {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusBadGateway
	}
	return &Error{Code: code, Message: message, Status: status}
}

// StatusFromError resolves the HTTP status a failure should surface as.
func StatusFromError(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	if errors.Is(err, ErrNoData) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadPayload) {
		return http.StatusBadGateway
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
