package wire

import "errors"

var (
	// ErrFramingIncomplete indicates no complete record is available yet.
	// It is a normal condition and never reported as a failure.
	ErrFramingIncomplete = errors.New("incomplete record")
	// ErrUnknownControlCode indicates the control code is missing or not recognized.
	ErrUnknownControlCode = errors.New("unknown control code")
	// ErrMalformedArity indicates a known control code came with too few fields.
	ErrMalformedArity = errors.New("too few fields")
)
