package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Uploaded(name, mimeType string) {
	fmt.Fprintf(f.w, "📤 File accepted: %s (%s)\n", name, mimeType)
}

func (f *Formatter) Converting() {
	fmt.Fprintf(f.w, "🎚️  Preparing audio...\n")
}

func (f *Formatter) Transcribing() {
	fmt.Fprintf(f.w, "📝 Transcribing audio...\n")
}

func (f *Formatter) TranscriptSaved(path string) {
	fmt.Fprintf(f.w, "✅ Transcript saved: %s\n", path)
}

func (f *Formatter) PriceQuote(q transcript.PriceQuote) {
	fmt.Fprintf(f.w, "💵 %s of audio, the transcription will cost %s %s\n",
		formatDuration(q.Duration), q.Amount.StringFixed(2), strings.ToUpper(q.Currency))
}

func (f *Formatter) CheckoutCreated(c *transcript.Checkout) {
	fmt.Fprintf(f.w, "🔗 Pay here to start the transcription: %s\n", c.URL)
	fmt.Fprintf(f.w, "   Session: %s\n", c.SessionID)
}

func (f *Formatter) PaymentStatus(sessionID string, paid bool) {
	if paid {
		fmt.Fprintf(f.w, "✅ Payment %s received\n", sessionID)
	} else {
		fmt.Fprintf(f.w, "❌ Payment %s not completed\n", sessionID)
	}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) TranscriptListHeader() {
	fmt.Fprintf(f.w, "📁 Transcripts:\n\n")
}

func (f *Formatter) TranscriptListItem(name string) {
	fmt.Fprintf(f.w, "  %s\n", name)
}

// JSON pretty-prints raw JSON. Invalid input is written unchanged.
func (f *Formatter) JSON(raw json.RawMessage) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Fprintf(f.w, "%s\n", raw)
		return
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(f.w, "%s\n", raw)
		return
	}
	fmt.Fprintf(f.w, "%s\n", out)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
