package app

import (
	"log"

	"github.com/aeronjl/auricle/config"
	"github.com/aeronjl/auricle/internal/audio"
	"github.com/aeronjl/auricle/internal/cache"
	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/domain/transcript/usecases"
	"github.com/aeronjl/auricle/internal/engine"
	"github.com/aeronjl/auricle/internal/payment"
	"github.com/aeronjl/auricle/internal/store"
)

type App struct {
	Converter  *audio.Converter
	Store      *store.Store
	Normalize  *usecases.Normalize
	Transcribe *usecases.Transcribe
	Quote      *usecases.Quote
	Process    *usecases.Process
}

// New wires the use cases from cfg. A missing OpenAI key is not fatal here so
// that commands which never transcribe (list, show, doctor) still work; the
// error surfaces when a transcription is attempted.
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	converter := audio.NewConverter(cfg.FFmpegPath)

	audioCache, err := cache.New[transcript.CanonicalAudio](cfg.CacheEntries)
	if err != nil {
		return nil, err
	}
	transcriptCache, err := cache.New[*transcript.CombinedTranscript](cfg.CacheEntries)
	if err != nil {
		return nil, err
	}

	var eng usecases.Engine
	openAI, err := engine.NewOpenAI(engine.OpenAIOptions{
		APIKey:   cfg.OpenAIAPIKey,
		BaseURL:  cfg.OpenAIBaseURL,
		Model:    cfg.TranscriptionModel,
		Language: cfg.Language,
	})
	if err != nil {
		eng = unconfiguredEngine{err: err}
	} else {
		eng = openAI
	}

	var payments usecases.PaymentGateway
	if cfg.StripeSecretKey != "" {
		s, err := payment.NewStripe(payment.StripeOptions{
			SecretKey:  cfg.StripeSecretKey,
			SuccessURL: cfg.SuccessURL,
			CancelURL:  cfg.CancelURL,
		})
		if err != nil {
			return nil, err
		}
		payments = s
	}

	normalize := &usecases.Normalize{
		Converter: converter,
		Cache:     audioCache,
		TempDir:   cfg.TempDir,
		Timeout:   cfg.ConvertTimeout,
		Logger:    logger,
	}

	transcribe := &usecases.Transcribe{
		Engine:  eng,
		Cache:   transcriptCache,
		TempDir: cfg.TempDir,
		Timeout: cfg.TranscribeTimeout,
		Logger:  logger,
	}

	quote := &usecases.Quote{
		RatePerMinute: cfg.RatePerMinute,
		Currency:      cfg.Currency,
	}

	st := store.New(cfg.ArtifactsDir)

	return &App{
		Converter:  converter,
		Store:      st,
		Normalize:  normalize,
		Transcribe: transcribe,
		Quote:      quote,
		Process: &usecases.Process{
			Normalize:      normalize,
			Transcribe:     transcribe,
			Quote:          quote,
			Store:          st,
			Payments:       payments,
			RequirePayment: cfg.RequirePayment,
			Logger:         logger,
		},
	}, nil
}
