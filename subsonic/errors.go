package subsonic

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errMissingField marks a required wire field that the server left out.
var errMissingField = errors.New("required field missing")

// DecodeError reports a server payload that does not match the expected
// entity shape, including numeric-string identifiers that fail to parse.
// It is always fatal to the call that produced it; no partial entity is
// ever returned alongside one.
type DecodeError struct {
	Entity string // which entity was being decoded, e.g. "album"
	Field  string // offending wire field, empty when the whole value is bad
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("decode %s: field %q: %v", e.Entity, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeErr wraps a raw unmarshal failure, lifting the field name out of
// json type errors where one is available.
func decodeErr(entity string, err error) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &DecodeError{Entity: entity, Field: typeErr.Field, Err: err}
	}
	return &DecodeError{Entity: entity, Err: err}
}

// APIError is the error object a Subsonic server puts in a failed
// response envelope. The client surfaces it unchanged; interpreting or
// retrying is the caller's business.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}
