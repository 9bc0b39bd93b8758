package service

import (
	"context"
	"errors"
	"fmt"

	"legallyai-backend/schema"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = errors.New("not found")
	ErrToolRoundsExceeded = errors.New("model kept requesting tools past the round limit")
	ErrNoJSON             = errors.New("model response contains no JSON object")
	ErrUngroundedLawyer   = errors.New("recommended lawyer was not returned by the directory")
	ErrUngroundedNoMatch  = errors.New("no-match answer is not backed by a directory lookup")
)

// ErrorKind classifies a flow failure
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindToolExecution ErrorKind = "tool_execution"
	KindGeneration    ErrorKind = "generation"
	KindTimeout       ErrorKind = "timeout"
)

// FlowError is returned by every AI flow. Flows never return partial results
// alongside one
type FlowError struct {
	Flow string
	Kind ErrorKind
	Err  error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Flow, e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// flowErr builds a FlowError, promoting deadline failures to KindTimeout
func flowErr(flow string, kind ErrorKind, err error) *FlowError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &FlowError{Flow: flow, Kind: kind, Err: err}
}

// invalid wraps a validation failure
func invalid(flow string, err error) *FlowError {
	return &FlowError{Flow: flow, Kind: KindValidation, Err: err}
}

// IsValidation reports whether err is a validation failure from a flow or
// from request validation
func IsValidation(err error) bool {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind == KindValidation
	}
	var ve *schema.ValidationError
	return errors.As(err, &ve)
}
