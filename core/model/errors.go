package model

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is wrapped by configuration errors caused by a missing credential.
	ErrAuth = errors.New("missing credential")
	// ErrUnknownZone is wrapped when a zone or zone pair has no mapping.
	ErrUnknownZone = errors.New("unknown zone")
)

// ParserError is the common shape of every collector failure.
type ParserError struct {
	Parser string
	Zone   string
	Msg    string
	Err    error
}

func (e *ParserError) Error() string {
	zone := ""
	if e.Zone != "" {
		zone = fmt.Sprintf(" (%s)", e.Zone)
	}
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("%s Parser%s: %s", e.Parser, zone, msg)
}

func (e *ParserError) Unwrap() error { return e.Err }

// ConfigError reports an unknown zone, unknown pair or missing credential.
// It is never retried.
type ConfigError struct{ ParserError }

// UpstreamQueryError reports a hard failure of the upstream source.
type UpstreamQueryError struct{ ParserError }

// FormatError reports an unparseable resolution, timestamp or number.
type FormatError struct{ ParserError }

// UnsupportedRequestError reports a capability the source does not offer,
// such as historical data from a snapshot-only feed.
type UnsupportedRequestError struct{ ParserError }

// NewConfigError builds a ConfigError.
func NewConfigError(parser, zone string, err error, format string, args ...any) *ConfigError {
	return &ConfigError{ParserError{Parser: parser, Zone: zone, Msg: fmt.Sprintf(format, args...), Err: err}}
}

// NewUpstreamQueryError builds an UpstreamQueryError.
func NewUpstreamQueryError(parser, zone string, format string, args ...any) *UpstreamQueryError {
	return &UpstreamQueryError{ParserError{Parser: parser, Zone: zone, Msg: fmt.Sprintf(format, args...)}}
}

// NewFormatError builds a FormatError wrapping the parse failure.
func NewFormatError(parser, zone string, err error) *FormatError {
	return &FormatError{ParserError{Parser: parser, Zone: zone, Err: err}}
}

// NewUnsupportedRequestError builds an UnsupportedRequestError.
func NewUnsupportedRequestError(parser, zone string, format string, args ...any) *UnsupportedRequestError {
	return &UnsupportedRequestError{ParserError{Parser: parser, Zone: zone, Msg: fmt.Sprintf(format, args...)}}
}

// ErrHistoricalUnsupported is the message used by snapshot-only sources.
const ErrHistoricalUnsupported = "this parser is not yet able to parse past dates"
