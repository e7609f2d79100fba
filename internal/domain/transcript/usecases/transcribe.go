package usecases

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/aeronjl/auricle/internal/cache"
	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/tempfile"
)

// Transcribe runs the speech-to-text engine over canonical audio.
type Transcribe struct {
	Engine  Engine
	Cache   *cache.Cache[*transcript.CombinedTranscript]
	TempDir string
	Timeout time.Duration // zero means no limit
	Logger  *log.Logger
}

// Execute returns the combined transcript for audio. The engine is called at
// most once per distinct audio content while it stays in the cache; on any
// failure nothing is returned and nothing is cached.
func (t *Transcribe) Execute(ctx context.Context, audio transcript.CanonicalAudio) (*transcript.CombinedTranscript, error) {
	if len(audio.Data) == 0 {
		return nil, &transcript.ValidationError{Field: "audio", Reason: "is empty"}
	}

	key := cache.Key([]byte(t.Engine.Name()), audio.Data)
	if cached, ok := t.Cache.Get(key); ok {
		return cached, nil
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	var combined *transcript.CombinedTranscript
	err := tempfile.WithData(t.TempDir, ".wav", audio.Data, func(path string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, result, err := t.Engine.Transcribe(ctx, f)
		if err != nil {
			return err
		}
		if result == nil {
			return errors.New("engine returned no transcript")
		}
		combined = result
		return nil
	})
	if err != nil {
		trErr := &transcript.TranscriptionError{Engine: t.Engine.Name(), Err: err}
		if t.Logger != nil {
			t.Logger.Printf("transcription failed (%d bytes of audio, %s): %v", len(audio.Data), audio.Duration, trErr)
		}
		return nil, trErr
	}

	t.Cache.Add(key, combined)
	return combined, nil
}

