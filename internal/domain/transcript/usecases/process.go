package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/store"
)

// Process runs an upload through the whole pipeline.
type Process struct {
	Normalize      *Normalize
	Transcribe     *Transcribe
	Quote          *Quote
	Store          *store.Store
	Payments       PaymentGateway // nil disables checkout
	RequirePayment bool
	Logger         *log.Logger
}

// ProcessOptions holds per-request options.
type ProcessOptions struct {
	SessionID string // paid checkout session, when payment is required
}

// ProcessResult is what a successful run produced.
type ProcessResult struct {
	Quote        transcript.PriceQuote
	Transcript   *transcript.CombinedTranscript
	ArtifactPath string
}

// QuoteResult is a price for an upload and, optionally, a checkout for it.
type QuoteResult struct {
	Quote    transcript.PriceQuote
	Checkout *transcript.Checkout
}

// Execute normalizes media, prices it from the canonical duration, checks
// payment when required, transcribes and saves the artifact.
func (p *Process) Execute(ctx context.Context, media transcript.UploadedMedia, opts ProcessOptions) (*ProcessResult, error) {
	audio, err := p.Normalize.Execute(ctx, media)
	if err != nil {
		return nil, err
	}

	quote, err := p.Quote.Execute(audio.Duration)
	if err != nil {
		return nil, err
	}

	if p.RequirePayment {
		if err := p.checkPaid(ctx, opts.SessionID); err != nil {
			return nil, err
		}
	}

	combined, err := p.Transcribe.Execute(ctx, audio)
	if err != nil {
		return nil, err
	}

	path, err := p.Store.Save(media.Name, combined)
	if err != nil {
		return nil, err
	}
	if p.Logger != nil {
		p.Logger.Printf("saved transcript of %q (%s, %d segments) to %s", media.Name, audio.Duration, len(combined.Segments), path)
	}

	return &ProcessResult{Quote: quote, Transcript: combined, ArtifactPath: path}, nil
}

// QuoteMedia normalizes media and prices it. With checkout set, a payment
// session is created for the quoted amount.
func (p *Process) QuoteMedia(ctx context.Context, media transcript.UploadedMedia, checkout bool) (*QuoteResult, error) {
	audio, err := p.Normalize.Execute(ctx, media)
	if err != nil {
		return nil, err
	}
	quote, err := p.Quote.Execute(audio.Duration)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{Quote: quote}
	if !checkout {
		return result, nil
	}
	if p.Payments == nil {
		return nil, errors.New("payments are not configured: set AURICLE_STRIPE_SECRET_KEY or add stripe_secret_key to config")
	}
	result.Checkout, err = p.Payments.CreateCheckout(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}
	return result, nil
}

// PaymentStatus reports whether a checkout session was paid.
func (p *Process) PaymentStatus(ctx context.Context, sessionID string) (bool, error) {
	if p.Payments == nil {
		return false, errors.New("payments are not configured")
	}
	if sessionID == "" {
		return false, &transcript.ValidationError{Field: "session id", Reason: "must not be empty"}
	}
	return p.Payments.IsPaid(ctx, sessionID)
}

func (p *Process) checkPaid(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return &transcript.PaymentRequiredError{}
	}
	if p.Payments == nil {
		return errors.New("payment is required but payments are not configured")
	}
	paid, err := p.Payments.IsPaid(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("verifying payment: %w", err)
	}
	if !paid {
		return &transcript.PaymentRequiredError{SessionID: sessionID}
	}
	return nil
}
