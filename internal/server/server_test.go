package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/aeronjl/auricle/internal/audio/audiotest"
	"github.com/aeronjl/auricle/internal/cache"
	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/domain/transcript/usecases"
	"github.com/aeronjl/auricle/internal/mocks"
	"github.com/aeronjl/auricle/internal/store"
)

type testServer struct {
	*Server
	converter *mocks.MockConverter
	engine    *mocks.MockEngine
	payments  *mocks.MockPaymentGateway
	dir       string
}

func newTestServer(t *testing.T, requirePayment bool) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	audioCache, err := cache.New[transcript.CanonicalAudio](8)
	if err != nil {
		t.Fatal(err)
	}
	transcriptCache, err := cache.New[*transcript.CombinedTranscript](8)
	if err != nil {
		t.Fatal(err)
	}

	ts := &testServer{
		converter: mocks.NewMockConverter(ctrl),
		engine:    mocks.NewMockEngine(ctrl),
		payments:  mocks.NewMockPaymentGateway(ctrl),
		dir:       filepath.Join(t.TempDir(), "files"),
	}
	ts.converter.EXPECT().Profile().Return("pcm_s16le/1/16000").AnyTimes()
	ts.engine.EXPECT().Name().Return("mock").AnyTimes()

	logger := log.New(io.Discard, "", 0)
	tempDir := t.TempDir()
	normalize := &usecases.Normalize{Converter: ts.converter, Cache: audioCache, TempDir: tempDir, Logger: logger}
	transcribe := &usecases.Transcribe{Engine: ts.engine, Cache: transcriptCache, TempDir: tempDir, Logger: logger}
	st := store.New(ts.dir)

	process := &usecases.Process{
		Normalize:      normalize,
		Transcribe:     transcribe,
		Quote:          &usecases.Quote{RatePerMinute: 0.5, Currency: "usd"},
		Store:          st,
		Payments:       ts.payments,
		RequirePayment: requirePayment,
		Logger:         logger,
	}
	ts.Server = New(process, st, Options{MaxUploadMB: 1, Logger: logger})
	return ts
}

func (ts *testServer) convertsTo(wav []byte) {
	ts.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, out string) error {
			return os.WriteFile(out, wav, 0o600)
		})
}

func uploadRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(t *testing.T, ts *testServer, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := ts.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d, body %s", resp.StatusCode, wantStatus, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decoding %s: %v", body, err)
		}
	}
}

func sample() *transcript.CombinedTranscript {
	return &transcript.CombinedTranscript{
		Text:     "hello world",
		Duration: 2,
		Segments: []transcript.Segment{
			{ID: 0, Start: 0, End: 1, Text: "hello"},
			{ID: 1, Start: 1, End: 2, Text: "world"},
		},
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, false)
	var got map[string]string
	do(t, ts, httptest.NewRequest(http.MethodGet, "/healthz", nil), http.StatusOK, &got)
	if got["status"] != "ok" {
		t.Errorf("healthz = %v", got)
	}
}

func TestListEmptyStore(t *testing.T) {
	ts := newTestServer(t, false)
	var got struct {
		Transcripts []string `json:"transcripts"`
	}
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/transcripts", nil), http.StatusOK, &got)
	if got.Transcripts == nil || len(got.Transcripts) != 0 {
		t.Errorf("transcripts = %#v, want empty array", got.Transcripts)
	}
}

func TestQuote(t *testing.T) {
	ts := newTestServer(t, false)
	ts.convertsTo(audiotest.Canonical(90 * time.Second))

	var got quoteResponse
	req := uploadRequest(t, "/api/quotes", "talk.mp3", []byte("mp3 bytes"), nil)
	do(t, ts, req, http.StatusOK, &got)

	if got.DurationSeconds != 90 || got.Amount != "0.75" || got.Currency != "usd" {
		t.Errorf("quote = %+v", got)
	}
	if got.CheckoutURL != "" {
		t.Errorf("unexpected checkout %q", got.CheckoutURL)
	}
}

func TestQuoteWithCheckout(t *testing.T) {
	ts := newTestServer(t, false)
	ts.convertsTo(audiotest.Canonical(60 * time.Second))
	ts.payments.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q transcript.PriceQuote) (*transcript.Checkout, error) {
			if q.Cents() != 50 {
				t.Errorf("checkout for %d cents, want 50", q.Cents())
			}
			return &transcript.Checkout{SessionID: "cs_1", URL: "https://pay.example/cs_1"}, nil
		})

	var got quoteResponse
	req := uploadRequest(t, "/api/quotes", "talk.wav", []byte("wav bytes"), map[string]string{"checkout": "true"})
	do(t, ts, req, http.StatusOK, &got)
	if got.SessionID != "cs_1" || got.CheckoutURL != "https://pay.example/cs_1" {
		t.Errorf("checkout = %+v", got)
	}
}

func TestUploadValidation(t *testing.T) {
	ts := newTestServer(t, false)

	var got map[string]string
	do(t, ts, uploadRequest(t, "/api/quotes", "", nil, nil), http.StatusBadRequest, &got)
	if got["error"] == "" {
		t.Error("missing error message")
	}

	do(t, ts, uploadRequest(t, "/api/transcriptions", "notes.txt", []byte("text"), nil), http.StatusBadRequest, nil)
	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.mp3", []byte("x"), map[string]string{"type": "image/png"}), http.StatusBadRequest, nil)
}

func TestTranscriptionSavesAndServesArtifact(t *testing.T) {
	ts := newTestServer(t, false)
	ts.convertsTo(audiotest.Canonical(2 * time.Second))
	ts.engine.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(sample().Segments, sample(), nil)

	var created transcriptionResponse
	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.m4a", []byte("m4a bytes"), nil), http.StatusCreated, &created)
	if created.Artifact != "talk.m4a_final_output.json" {
		t.Errorf("artifact = %q", created.Artifact)
	}
	if created.Transcript == nil || created.Transcript.Text != "hello world" {
		t.Errorf("transcript = %+v", created.Transcript)
	}

	var list struct {
		Transcripts []string `json:"transcripts"`
	}
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/transcripts", nil), http.StatusOK, &list)
	if len(list.Transcripts) != 1 || list.Transcripts[0] != created.Artifact {
		t.Errorf("transcripts = %v", list.Transcripts)
	}

	var loaded artifactResponse
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/transcripts/"+created.Artifact, nil), http.StatusOK, &loaded)
	if loaded.Layout != store.LayoutDocument || len(loaded.Malformed) != 0 {
		t.Errorf("loaded = %+v", loaded)
	}
	var doc transcript.CombinedTranscript
	if err := json.Unmarshal(loaded.Transcript, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Segments) != 2 || doc.Segments[1].Text != "world" {
		t.Errorf("segments = %+v", doc.Segments)
	}
}

func TestLegacyArtifactReportsMalformedLines(t *testing.T) {
	ts := newTestServer(t, false)
	if err := os.MkdirAll(ts.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	legacy := "{\"text\":\"a\"}\nnot json\n{\"text\":\"b\"}\n"
	if err := os.WriteFile(filepath.Join(ts.dir, "old.mp3_final_output.json"), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	var loaded artifactResponse
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/transcripts/old.mp3_final_output.json", nil), http.StatusOK, &loaded)
	if loaded.Layout != store.LayoutLines || len(loaded.Lines) != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Malformed) != 1 || loaded.Malformed[0].Line != 2 {
		t.Errorf("malformed = %+v", loaded.Malformed)
	}
}

func TestMissingArtifact(t *testing.T) {
	ts := newTestServer(t, false)
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/transcripts/nope.json", nil), http.StatusNotFound, nil)
}

func TestConversionFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t, false)
	ts.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&transcript.ConversionError{Diagnostic: "moov atom not found", Err: errors.New("exit status 1")})

	var got map[string]string
	do(t, ts, uploadRequest(t, "/api/transcriptions", "broken.mp4", []byte("junk"), nil), http.StatusBadGateway, &got)
	if got["error"] != "An error occurred while processing the audio file." {
		t.Errorf("error = %q", got["error"])
	}
}

func TestTranscriptionFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t, false)
	ts.convertsTo(audiotest.Canonical(time.Second))
	ts.engine.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("401 invalid api key sk-secret"))

	var got map[string]string
	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.wav", []byte("wav"), nil), http.StatusBadGateway, &got)
	if got["error"] != "An error occurred during transcription." {
		t.Errorf("error = %q", got["error"])
	}
	entries, _ := os.ReadDir(ts.dir)
	if len(entries) != 0 {
		t.Errorf("artifact written after failure: %v", entries)
	}
}

func TestPaymentRequired(t *testing.T) {
	ts := newTestServer(t, true)
	ts.convertsTo(audiotest.Canonical(time.Second))

	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.wav", []byte("wav"), nil), http.StatusPaymentRequired, nil)

	// The canonical audio is cached, so the converter is not called again.
	ts.payments.EXPECT().IsPaid(gomock.Any(), "cs_unpaid").Return(false, nil)
	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.wav", []byte("wav"), map[string]string{"session_id": "cs_unpaid"}), http.StatusPaymentRequired, nil)
}

func TestPaidTranscription(t *testing.T) {
	ts := newTestServer(t, true)
	ts.convertsTo(audiotest.Canonical(time.Second))
	ts.payments.EXPECT().IsPaid(gomock.Any(), "cs_paid").Return(true, nil)
	ts.engine.EXPECT().Transcribe(gomock.Any(), gomock.Any()).Return(sample().Segments, sample(), nil)

	do(t, ts, uploadRequest(t, "/api/transcriptions", "talk.wav", []byte("wav"), map[string]string{"session_id": "cs_paid"}), http.StatusCreated, nil)
}

func TestCheckoutStatus(t *testing.T) {
	ts := newTestServer(t, false)
	ts.payments.EXPECT().IsPaid(gomock.Any(), "cs_42").Return(true, nil)

	var got struct {
		SessionID string `json:"session_id"`
		Paid      bool   `json:"paid"`
	}
	do(t, ts, httptest.NewRequest(http.MethodGet, "/api/checkout/cs_42", nil), http.StatusOK, &got)
	if got.SessionID != "cs_42" || !got.Paid {
		t.Errorf("status = %+v", got)
	}
}
