package audio

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-audio/wav"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// Info describes a decoded WAV header.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	PCMBytes   int64
	Duration   time.Duration
}

// Probe reads the header of an in-memory WAV file and measures its duration
// from the length of the PCM data chunk.
func Probe(data []byte) (Info, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return Info{}, fmt.Errorf("not a valid PCM WAV file")
	}
	if err := d.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("locating PCM data: %w", err)
	}

	info := Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		PCMBytes:   d.PCMLen(),
	}
	byteRate := int64(info.SampleRate) * int64(info.Channels) * int64(info.BitDepth/8)
	if byteRate > 0 {
		info.Duration = time.Duration(float64(info.PCMBytes) / float64(byteRate) * float64(time.Second))
	}
	return info, nil
}

// CheckCanonical verifies that info matches the canonical profile.
func CheckCanonical(info Info) error {
	if info.SampleRate != transcript.SampleRate || info.Channels != transcript.Channels || info.BitDepth != transcript.BitDepth {
		return fmt.Errorf("unexpected WAV profile %d Hz, %d channel(s), %d-bit",
			info.SampleRate, info.Channels, info.BitDepth)
	}
	return nil
}
