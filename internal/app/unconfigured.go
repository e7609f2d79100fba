package app

import (
	"context"
	"os"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// unconfiguredEngine stands in for the transcription engine when it could
// not be built, and reports why on every call.
type unconfiguredEngine struct {
	err error
}

func (unconfiguredEngine) Name() string { return "unconfigured" }

func (u unconfiguredEngine) Transcribe(context.Context, *os.File) ([]transcript.Segment, *transcript.CombinedTranscript, error) {
	return nil, nil, u.err
}
