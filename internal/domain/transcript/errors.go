package transcript

import (
	"errors"
	"fmt"
)

// ValidationError rejects input before any side effect happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConversionError is returned when the external transcoder fails.
type ConversionError struct {
	Diagnostic string // transcoder stderr
	Err        error
}

func (e *ConversionError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("converting media: %v", e.Err)
	}
	return fmt.Sprintf("converting media: %v\n%s", e.Err, e.Diagnostic)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// TranscriptionError is returned when the speech-to-text engine fails.
type TranscriptionError struct {
	Engine string
	Err    error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribing with %s: %v", e.Engine, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// PersistenceError reports an unreadable or unwritable artifact path.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MalformedArtifactError describes one unparseable line of a legacy artifact.
// It is reported alongside a load result, never returned as the load error.
type MalformedArtifactError struct {
	File string
	Line int
	Err  error
}

func (e *MalformedArtifactError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.File, e.Line, e.Err)
}

func (e *MalformedArtifactError) Unwrap() error { return e.Err }

// PaymentRequiredError is returned when transcription needs a paid session.
type PaymentRequiredError struct {
	SessionID string
}

func (e *PaymentRequiredError) Error() string {
	if e.SessionID == "" {
		return "payment required: no checkout session given"
	}
	return fmt.Sprintf("payment required: session %s is not paid", e.SessionID)
}

// UserMessage returns text that is safe to show to an end user.
// Conversion and transcription details stay in the logs.
func UserMessage(err error) string {
	var (
		conv *ConversionError
		tr   *TranscriptionError
	)
	switch {
	case errors.As(err, &conv):
		return "An error occurred while processing the audio file."
	case errors.As(err, &tr):
		return "An error occurred during transcription."
	default:
		return err.Error()
	}
}
