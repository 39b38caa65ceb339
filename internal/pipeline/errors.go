// Package pipeline defines the shared error taxonomy for the extraction
// and synthesis pipelines. Every pipeline failure carries a machine-readable
// kind plus a human-readable detail so the HTTP boundary can map it to a
// status code without string matching.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind identifies a pipeline failure class.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindEmptyContent      ErrorKind = "empty_content"
	KindEmptyInput        ErrorKind = "empty_input"
	KindFormatParse       ErrorKind = "format_parse_error"
	KindTranscription     ErrorKind = "transcription_error"
	KindUpstreamFormat    ErrorKind = "upstream_format_error"
	KindSchemaValidation  ErrorKind = "schema_validation_error"
	KindTimeout           ErrorKind = "timeout_exceeded"
	KindDownload          ErrorKind = "download_error"
	KindInternal          ErrorKind = "internal_error"
)

// Error is a terminal pipeline failure. Errors are never retried in-core;
// a caller that wants retry must resubmit the request.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a pipeline error with no underlying cause.
func E(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap builds a pipeline error wrapping an underlying cause.
func Wrap(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the error kind, mapping context deadline expiry to
// KindTimeout. Unknown errors report KindInternal.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Kind == KindInternal && errors.Is(err, context.DeadlineExceeded) {
			return KindTimeout
		}
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// Detail returns the human-readable detail for the boundary response.
func Detail(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Detail
	}
	return err.Error()
}

// HTTPStatus maps an error kind to the status surfaced at the boundary.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindUnsupportedFormat, KindEmptyContent, KindEmptyInput:
		return http.StatusBadRequest
	case KindFormatParse:
		return http.StatusUnprocessableEntity
	case KindDownload:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindTranscription, KindUpstreamFormat, KindSchemaValidation, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
