package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aeronjl/auricle/internal/audio"
	"github.com/aeronjl/auricle/internal/cache"
	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/tempfile"
)

// Normalize converts uploaded media to canonical audio.
type Normalize struct {
	Converter Converter
	Cache     *cache.Cache[transcript.CanonicalAudio]
	TempDir   string
	Timeout   time.Duration // zero means no limit
	Logger    *log.Logger
}

// Execute validates media, then returns its canonical audio. Identical
// content is converted at most once while it stays in the cache.
func (n *Normalize) Execute(ctx context.Context, media transcript.UploadedMedia) (transcript.CanonicalAudio, error) {
	if err := transcript.ValidateMedia(media); err != nil {
		return transcript.CanonicalAudio{}, err
	}

	key := cache.Key([]byte(n.Converter.Profile()), media.Data)
	if cached, ok := n.Cache.Get(key); ok {
		return cached, nil
	}

	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	var out []byte
	err := tempfile.WithData(n.TempDir, "", media.Data, func(inputPath string) error {
		return tempfile.With(n.TempDir, ".wav", func(outputPath string) error {
			if err := n.Converter.Convert(ctx, inputPath, outputPath); err != nil {
				return err
			}
			data, err := os.ReadFile(outputPath)
			if err != nil {
				return &transcript.ConversionError{Err: fmt.Errorf("reading converted audio: %w", err)}
			}
			out = data
			return nil
		})
	})
	if err != nil {
		var convErr *transcript.ConversionError
		if !errors.As(err, &convErr) {
			err = &transcript.ConversionError{Err: err}
		}
		n.logf("converting %q (%s): %v", media.Name, media.Type, err)
		return transcript.CanonicalAudio{}, err
	}

	info, err := audio.Probe(out)
	if err == nil {
		err = audio.CheckCanonical(info)
	}
	if err != nil {
		convErr := &transcript.ConversionError{Err: err}
		n.logf("converting %q (%s): %v", media.Name, media.Type, convErr)
		return transcript.CanonicalAudio{}, convErr
	}

	result := transcript.CanonicalAudio{Data: out, Duration: info.Duration}
	n.Cache.Add(key, result)
	return result, nil
}

func (n *Normalize) logf(format string, args ...any) {
	if n.Logger != nil {
		n.Logger.Printf(format, args...)
	}
}
