package tablestore

import (
	"fmt"

	"github.com/pkg/errors"
)

// ClientError is returned for validation failures, PB serialisation
// failures, MD5/checksum mismatches, no available connection, malformed
// endpoints, and any transport failure that happened before an HTTP
// status was received. It carries no request-id and reports HTTP
// status -1.
type ClientError struct {
	Message string
	TraceID string
	cause   error
}

func (e *ClientError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("tablestore: client error: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("tablestore: client error: %s", e.Message)
}

func (e *ClientError) Unwrap() error { return e.cause }

// HTTPStatus always reports -1 for a ClientError: the request never
// reached the point of receiving one.
func (e *ClientError) HTTPStatus() int { return -1 }

func newClientError(traceID, format string, args ...interface{}) *ClientError {
	return &ClientError{Message: fmt.Sprintf(format, args...), TraceID: traceID}
}

func wrapClientError(traceID string, cause error, context string) *ClientError {
	return &ClientError{Message: context, TraceID: traceID, cause: errors.WithStack(cause)}
}

// ServerError is returned when the server returned a parseable error
// body, or a non-2xx HTTP status whose body was a protobuf Error
// message.
type ServerError struct {
	Code       string
	Message    string
	RequestID  string
	TraceID    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("tablestore: server error: %s: %s (request-id=%s, status=%d)", e.Code, e.Message, e.RequestID, e.StatusCode)
}

func (e *ServerError) HTTPStatus() int { return e.StatusCode }

// IsServerError reports whether err is a *ServerError with the given code.
func IsServerError(err error, code string) bool {
	se, ok := err.(*ServerError)
	return ok && se.Code == code
}
