package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers as {kind, message}.
const (
	KindFetch      = "fetch"
	KindParse      = "parse"
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindInternal   = "internal"
)

// FetchErrorKind classifies why an upstream fetch failed.
type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchHTTPStatus FetchErrorKind = "http_status"
	FetchNetwork    FetchErrorKind = "network"
)

type FetchError struct {
	URL    string
	Kind   FetchErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means the expected structure was absent from fetched content.
type ParseError struct {
	Source Source
	What   string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parsing %s: %s", e.Source, e.What)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	What string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Key)
}

// KindOf reports which taxonomy bucket err belongs to.
func KindOf(err error) string {
	var (
		fe *FetchError
		pe *ParseError
		ve *ValidationError
		ne *NotFoundError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return KindFetch
	case errors.As(err, &pe):
		return KindParse
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ne):
		return KindNotFound
	default:
		return KindInternal
	}
}
