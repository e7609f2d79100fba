package transcript

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical audio profile. Every normalized file is encoded this way.
const (
	SampleRate = 16000
	Channels   = 1
	BitDepth   = 16
	Codec      = "pcm_s16le"
)

// ArtifactSuffix marks persisted transcript files.
const ArtifactSuffix = "_final_output.json"

// UploadedMedia is a file received from a user, before any conversion.
type UploadedMedia struct {
	Name string // display name, used to name the artifact
	Type string // declared MIME type
	Data []byte
}

// CanonicalAudio is mono 16-bit 16 kHz PCM WAV.
type CanonicalAudio struct {
	Data     []byte
	Duration time.Duration
}

// Segment is one time-bounded unit of recognized speech.
type Segment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// CombinedTranscript is the ordered aggregation of all segments for one input.
type CombinedTranscript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments"`
}

// PriceQuote is the cost of transcribing a given duration. Not persisted.
type PriceQuote struct {
	Duration      time.Duration
	RatePerMinute decimal.Decimal
	Amount        decimal.Decimal // rounded to two decimal places
	Currency      string
}

// Cents returns Amount in the currency's minor unit.
func (q PriceQuote) Cents() int64 {
	return q.Amount.Shift(2).Round(0).IntPart()
}

// Checkout is a payment session created for a quote.
type Checkout struct {
	SessionID string
	URL       string
}
