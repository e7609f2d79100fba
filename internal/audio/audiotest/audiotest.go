// Package audiotest builds small WAV files for tests.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// WAV returns a PCM WAV file of the given shape containing a quiet sine tone.
func WAV(sampleRate, channels, bitDepth int, d time.Duration) []byte {
	bytesPerSample := bitDepth / 8
	frames := int(int64(sampleRate) * int64(d) / int64(time.Second))
	dataLen := frames * channels * bytesPerSample

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*bytesPerSample))
	binary.Write(&b, binary.LittleEndian, uint16(channels*bytesPerSample))
	binary.Write(&b, binary.LittleEndian, uint16(bitDepth))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < frames; i++ {
		v := math.Sin(2 * math.Pi * 440 * float64(i) / float64(sampleRate))
		for c := 0; c < channels; c++ {
			switch bytesPerSample {
			case 1:
				b.WriteByte(byte(128 + int(v*32)))
			default:
				binary.Write(&b, binary.LittleEndian, int16(v*1000))
				for pad := 2; pad < bytesPerSample; pad++ {
					b.WriteByte(0)
				}
			}
		}
	}
	return b.Bytes()
}

// Canonical returns mono 16 kHz 16-bit WAV of duration d.
func Canonical(d time.Duration) []byte {
	return WAV(16000, 1, 16, d)
}
