package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// Converter turns an arbitrary media file into canonical WAV.
type Converter struct {
	// Binary is the ffmpeg executable; "ffmpeg" when empty.
	Binary string
}

func NewConverter(binary string) *Converter {
	return &Converter{Binary: binary}
}

func (c *Converter) binary() string {
	if c.Binary == "" {
		return "ffmpeg"
	}
	return c.Binary
}

func (c *Converter) CheckFFmpeg() error {
	if _, err := exec.LookPath(c.binary()); err != nil {
		return fmt.Errorf("ffmpeg not found. Install with: brew install ffmpeg")
	}
	return nil
}

// Profile identifies the output encoding. It is part of conversion cache keys.
func (c *Converter) Profile() string {
	return fmt.Sprintf("%s/%d/%d", transcript.Codec, transcript.Channels, transcript.SampleRate)
}

// Convert decodes inputPath and writes mono 16 kHz signed 16-bit PCM WAV to
// outputPath, overwriting it. On failure the ffmpeg stderr is returned in a
// *transcript.ConversionError.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, c.binary(),
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", transcript.Codec,
		"-ac", strconv.Itoa(transcript.Channels),
		"-ar", strconv.Itoa(transcript.SampleRate),
		"-f", "wav",
		outputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return &transcript.ConversionError{
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        fmt.Errorf("ffmpeg: %w", err),
		}
	}
	return nil
}
