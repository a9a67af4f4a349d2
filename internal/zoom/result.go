package zoom

import (
	"encoding/json"
)

// Result is the outcome of a Client operation: either a success payload or
// an *APIError. It is serialized to JSON only at the tool boundary.
type Result struct {
	raw   json.RawMessage
	value any
	err   *APIError
}

// PassThrough wraps an upstream JSON body that is returned unmodified.
func PassThrough(body []byte) Result {
	return Result{raw: json.RawMessage(body)}
}

// Success wraps a typed success payload.
func Success(v any) Result {
	return Result{value: v}
}

// Failure wraps an error payload.
func Failure(err *APIError) Result {
	return Result{err: err}
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.err == nil
}

// Err returns the error branch, or nil on success.
func (r Result) Err() *APIError {
	return r.err
}

// Payload returns the typed success payload, the raw upstream body as
// json.RawMessage, or nil for failures.
func (r Result) Payload() any {
	switch {
	case r.err != nil:
		return nil
	case r.raw != nil:
		return r.raw
	default:
		return r.value
	}
}

// JSON serializes the result.
func (r Result) JSON() ([]byte, error) {
	switch {
	case r.err != nil:
		return json.Marshal(r.err)
	case r.raw != nil:
		return r.raw, nil
	default:
		return json.Marshal(r.value)
	}
}

// String returns the serialized result. Serialization failures are themselves
// rendered as an error payload.
func (r Result) String() string {
	data, err := r.JSON()
	if err != nil {
		data, _ = json.Marshal(NewAPIError(KindTransport, "failed to encode result").WithDetails(err.Error()))
	}
	return string(data)
}
