package usecases

//go:generate mockgen -destination=../../../mocks/mocks.go -package=mocks github.com/aeronjl/auricle/internal/domain/transcript/usecases Converter,Engine,PaymentGateway

import (
	"context"
	"os"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// Converter decodes a media file into canonical WAV.
type Converter interface {
	// Profile identifies the target encoding for cache keys.
	Profile() string
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// Engine is the external speech-to-text service. It returns the raw
// per-chunk segments and the combined transcript built from them.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, audio *os.File) ([]transcript.Segment, *transcript.CombinedTranscript, error)
}

// PaymentGateway creates checkout sessions and reports whether they were paid.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, quote transcript.PriceQuote) (*transcript.Checkout, error)
	IsPaid(ctx context.Context, sessionID string) (bool, error)
}
