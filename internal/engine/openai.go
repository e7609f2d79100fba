package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// OpenAI transcribes audio through the OpenAI audio API, or any server that
// speaks the same protocol.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
}

type OpenAIOptions struct {
	APIKey   string
	BaseURL  string // optional, e.g. a LocalAI endpoint
	Model    string // defaults to whisper-1
	Language string // optional ISO-639-1 hint
}

func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai API key not set: set AURICLE_OPENAI_API_KEY or add openai_api_key to config")
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	model := opts.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAI{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: opts.Language,
	}, nil
}

// Name identifies the engine and model; it is part of transcription cache keys.
func (o *OpenAI) Name() string {
	return "openai/" + o.model
}

// Transcribe sends the file and returns both the raw segments and the
// combined transcript built from them.
func (o *OpenAI) Transcribe(ctx context.Context, audio *os.File) ([]transcript.Segment, *transcript.CombinedTranscript, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: filepath.Base(audio.Name()),
		Reader:   audio,
		Language: o.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("calling transcription API: %w", err)
	}

	segments := make([]transcript.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, transcript.Segment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	combined := Combine(segments)
	combined.Language = resp.Language
	if resp.Duration > 0 {
		combined.Duration = resp.Duration
	}
	if combined.Text == "" {
		combined.Text = strings.TrimSpace(resp.Text)
	}
	return segments, combined, nil
}

// Combine orders segments by start time and joins their text.
func Combine(segments []transcript.Segment) *transcript.CombinedTranscript {
	ordered := make([]transcript.Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var (
		texts []string
		end   float64
	)
	for _, s := range ordered {
		if s.Text != "" {
			texts = append(texts, s.Text)
		}
		if s.End > end {
			end = s.End
		}
	}
	return &transcript.CombinedTranscript{
		Text:     strings.Join(texts, " "),
		Duration: end,
		Segments: ordered,
	}
}
