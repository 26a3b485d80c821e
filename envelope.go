package yoomoney

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RemoteError is an application-level error string reported by the server
// inside a 2xx reply.
type RemoteError struct {
	Message string
}

func (e RemoteError) Error() string {
	return "yoomoney error: " + e.Message
}

// DecodeError means the reply body matched neither the error envelope nor the
// expected payload shape.
type DecodeError struct {
	Body string
	Err  error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decoding response %q: %v", e.Body, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

// resolveBody disambiguates the outer reply envelope. The wire format carries
// no discriminant: failures are `{"error": "..."}` and successes are the bare
// payload, so the only option is an ordered structural decode, error shape
// first. DisallowUnknownFields keeps payloads that merely contain an `error`
// field among others from being misread as the error envelope; a payload
// consisting of exactly one string field named `error` would still be
// misclassified, but no modeled endpoint has such a shape.
func resolveBody[T any](body string) (T, error) {
	var zero T

	var envelope struct {
		Error string `json:"error"`
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&envelope); err == nil && envelope.Error != "" {
		return zero, RemoteError{Message: envelope.Error}
	}

	var payload T
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return zero, DecodeError{Body: body, Err: err}
	}
	return payload, nil
}
