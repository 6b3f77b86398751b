package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/strapi-go/internal/auth"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrURLRequired       = errors.New("API URL is required")
	ErrTransportRequired = errors.New("transport is required")
	ErrNoSession         = errors.New("no active session")
	ErrSessionExpired    = errors.New("session expired")

	// ErrSessionNotFound is returned by credential stores for a missing key.
	ErrSessionNotFound = auth.ErrSessionNotFound
)

// System codes reported for requests that never got a response.
const (
	CodeNotFound     = "ENOTFOUND"
	CodeConnRefused  = "ECONNREFUSED"
	CodeConnReset    = "ECONNRESET"
	CodeTimedOut     = "ETIMEDOUT"
	CodeAborted      = "ECONNABORTED"
	SyscallResolve   = "getaddrinfo"
	SyscallConnect   = "connect"
	connectivityText = "the given url %s is incorrect or invalid"
)

// APIError is the uniform error shape of every envelope.
//
// For backend and HTTP errors Status is the HTTP status code. For failures
// where no response was received Status is zero and Code holds the system
// error code (ENOTFOUND, ECONNREFUSED, ...), with Name naming the failing call.
type APIError struct {
	Status  int            `json:"status"            yaml:"status"`
	Code    string         `json:"code,omitempty"    yaml:"code,omitempty"`
	Name    string         `json:"name"              yaml:"name"`
	Message string         `json:"message"           yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Name, e.Message, e.Code)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Name, e.Message, e.Status)
}

// HTTPError is returned by a Transport for a non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, statusText(e.StatusCode, e.Status))
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}

	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == status
	}

	return false
}

// NormalizeError maps a transport failure to an APIError.
//
//   - An HTTPError whose body carries {"error": {...}} yields that object unchanged.
//   - Any other HTTPError yields the status code, the status text as message and
//     the raw body as name.
//   - A failure with no response yields the system code and a message naming baseURL.
func NormalizeError(err error, baseURL string) *APIError {
	if err == nil {
		return nil
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr
	}

	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		backend := parseBackendError(httpErr.Body)
		if backend != nil {
			return backend
		}

		return &APIError{
			Status:  httpErr.StatusCode,
			Message: statusText(httpErr.StatusCode, httpErr.Status),
			Name:    string(httpErr.Body),
		}
	}

	code, call, ok := systemError(err)
	if !ok {
		return &APIError{Name: "RequestError", Message: err.Error()}
	}

	return &APIError{
		Code:    code,
		Name:    call,
		Message: fmt.Sprintf(connectivityText, baseURL),
	}
}

func parseBackendError(body []byte) *APIError {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.Error == nil {
		return nil
	}

	return envelope.Error
}

// systemError classifies errors that occur before a response is received.
func systemError(err error) (string, string, bool) {
	dnsErr := &net.DNSError{}
	if errors.As(err, &dnsErr) {
		return CodeNotFound, SyscallResolve, true
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeConnRefused, opName(err, SyscallConnect), true
	case errors.Is(err, syscall.ECONNRESET):
		return CodeConnReset, opName(err, "read"), true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return CodeTimedOut, opName(err, SyscallConnect), true
	case errors.Is(err, context.Canceled):
		return CodeAborted, opName(err, "request"), true
	}

	opErr := &net.OpError{}
	if errors.As(err, &opErr) {
		return strings.ToUpper("E" + opErr.Op), opErr.Op, true
	}

	return "", "", false
}

func opName(err error, fallback string) string {
	opErr := &net.OpError{}
	if errors.As(err, &opErr) && opErr.Op != "" {
		if opErr.Op == "dial" {
			return SyscallConnect
		}

		return opErr.Op
	}

	return fallback
}

// statusText strips the numeric prefix from an HTTP status line such as
// "404 Not Found", falling back to the standard text for the code.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text != "" {
		return text
	}

	return http.StatusText(code)
}

func errorResponse[T any](err *APIError) *APIResponse[T] {
	return &APIResponse[T]{Error: err}
}
