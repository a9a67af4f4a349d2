package zoom

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned by NewClient when neither an access
// token nor a refresh token is supplied. It is the only Go error a Client
// produces; every other failure is reported as a Result.
//
// The text is part of the tool output contract and is shown to MCP clients
// as is, so it keeps its leading capital.
var ErrMissingCredentials = errors.New("Either access_token or refresh_token must be provided")

// ErrorKind classifies a failed Result.
type ErrorKind string

const (
	// KindNoRefreshToken: a refresh was requested without a refresh token.
	KindNoRefreshToken ErrorKind = "no_refresh_token"
	// KindUnauthorized: Zoom answered 401.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindUpstream: Zoom answered with another non-200 status.
	KindUpstream ErrorKind = "upstream"
	// KindRefreshFailed: the token endpoint rejected the refresh.
	KindRefreshFailed ErrorKind = "refresh_failed"
	// KindTransport: no usable response (network, timeout, cancelled, undecodable body).
	KindTransport ErrorKind = "transport"
	// KindEmptyResult: the recording has no transcript files.
	KindEmptyResult ErrorKind = "empty_result"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	msgUnauthorized     = "Unauthorized. Token might be expired. Try refreshing your token."
	msgTransport        = "Request to Zoom API failed"
	msgNoRefreshToken   = "No refresh token provided"
	msgNoTranscripts    = "No transcript files found for this meeting"
	msgRefreshRejected  = "Failed to refresh token. Status code: %d"
	msgRetrieveRejected = "Failed to retrieve %s. Status code: %d"
)

// APIError is the failure branch of a Result.
type APIError struct {
	Kind    ErrorKind
	Message string
	// StatusCode is the upstream HTTP status, 0 when there was none.
	StatusCode int
	// Details carries the upstream body or the underlying error text.
	Details string
	// RawResponse repeats the token endpoint body for refresh failures.
	RawResponse string

	hasDetails bool
}

// NewAPIError builds an APIError without details.
func NewAPIError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

// WithDetails attaches details to the error and returns it.
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	e.hasDetails = true
	return e
}

// WithStatus records the upstream status code and returns the error.
func (e *APIError) WithStatus(code int) *APIError {
	e.StatusCode = code
	return e
}

func (e *APIError) Error() string {
	if e.hasDetails && e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// MarshalJSON renders the error payload: error, optional details and
// raw_response, and status "error".
func (e *APIError) MarshalJSON() ([]byte, error) {
	payload := struct {
		Error       string  `json:"error"`
		Details     *string `json:"details,omitempty"`
		RawResponse *string `json:"raw_response,omitempty"`
		Status      string  `json:"status"`
	}{
		Error:  e.Message,
		Status: statusError,
	}

	if e.hasDetails {
		details := e.Details
		payload.Details = &details
	}
	if e.Kind == KindRefreshFailed {
		raw := e.RawResponse
		payload.RawResponse = &raw
	}

	return json.Marshal(payload)
}

func unauthorized(body []byte) *APIError {
	return NewAPIError(KindUnauthorized, msgUnauthorized).
		WithStatus(401).
		WithDetails(string(body))
}

func retrieveFailed(resource string, code int, body []byte) *APIError {
	return NewAPIError(KindUpstream, fmt.Sprintf(msgRetrieveRejected, resource, code)).
		WithStatus(code).
		WithDetails(string(body))
}

func transportFailed(err error) *APIError {
	return NewAPIError(KindTransport, msgTransport).WithDetails(err.Error())
}

func refreshRejected(code int, body []byte) *APIError {
	e := NewAPIError(KindRefreshFailed, fmt.Sprintf(msgRefreshRejected, code)).
		WithStatus(code).
		WithDetails(string(body))
	e.RawResponse = string(body)
	return e
}
