package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

const verboseResponse = `{
  "task": "transcribe",
  "language": "english",
  "duration": 4.5,
  "text": "Hello there. General Kenobi.",
  "segments": [
    {"id": 1, "seek": 0, "start": 2.0, "end": 4.5, "text": " General Kenobi."},
    {"id": 0, "seek": 0, "start": 0.0, "end": 2.0, "text": " Hello there."}
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func openAudio(t *testing.T) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOpenAITranscribe(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, verboseResponse)
	})

	e, err := NewOpenAI(OpenAIOptions{APIKey: "sk-test", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatal(err)
	}
	if e.Name() != "openai/whisper-1" {
		t.Errorf("Name = %q", e.Name())
	}

	segments, combined, err := e.Transcribe(context.Background(), openAudio(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments", len(segments))
	}
	if combined.Segments[0].Text != "Hello there." || combined.Segments[1].Text != "General Kenobi." {
		t.Errorf("segments not ordered by start: %+v", combined.Segments)
	}
	if combined.Text != "Hello there. General Kenobi." {
		t.Errorf("Text = %q", combined.Text)
	}
	if combined.Language != "english" || combined.Duration != 4.5 {
		t.Errorf("metadata = %q %v", combined.Language, combined.Duration)
	}
}

func TestOpenAITranscribeAPIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	})

	e, err := NewOpenAI(OpenAIOptions{APIKey: "sk-bad", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	_, combined, err := e.Transcribe(context.Background(), openAudio(t))
	if err == nil {
		t.Fatal("expected an error")
	}
	if combined != nil {
		t.Error("partial transcript returned with error")
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Errorf("error lost API detail: %v", err)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(OpenAIOptions{}); err == nil {
		t.Error("expected an error without an API key")
	}
}

func TestCombineWithoutSegments(t *testing.T) {
	c := Combine(nil)
	if c.Text != "" || len(c.Segments) != 0 || c.Duration != 0 {
		t.Errorf("unexpected %+v", c)
	}
	c = Combine([]transcript.Segment{{Start: 1, End: 3, Text: "b"}, {Start: 0, End: 1, Text: "a"}})
	if c.Text != "a b" || c.Duration != 3 {
		t.Errorf("unexpected %+v", c)
	}
}
