package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/aeronjl/auricle/internal/domain/transcript"
	"github.com/aeronjl/auricle/internal/domain/transcript/usecases"
	"github.com/aeronjl/auricle/internal/store"
)

const DefaultMaxUploadMB = 512

type Options struct {
	MaxUploadMB int
	Logger      *log.Logger
}

// Server exposes the transcription pipeline over HTTP.
type Server struct {
	app     *fiber.App
	process *usecases.Process
	store   *store.Store
	logger  *log.Logger
}

type quoteResponse struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	CheckoutURL     string  `json:"checkout_url,omitempty"`
	SessionID       string  `json:"session_id,omitempty"`
}

type transcriptionResponse struct {
	Artifact        string                         `json:"artifact"`
	DurationSeconds float64                        `json:"duration_seconds"`
	Amount          string                         `json:"amount"`
	Currency        string                         `json:"currency"`
	Transcript      *transcript.CombinedTranscript `json:"transcript"`
}

type malformedLine struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type artifactResponse struct {
	Name       string            `json:"name"`
	Layout     store.Layout      `json:"layout"`
	Transcript json.RawMessage   `json:"transcript,omitempty"`
	Lines      []json.RawMessage `json:"lines,omitempty"`
	Malformed  []malformedLine   `json:"malformed"`
}

func New(process *usecases.Process, st *store.Store, opts Options) *Server {
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = DefaultMaxUploadMB
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	s := &Server{process: process, store: st, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:               "auricle",
		BodyLimit:             opts.MaxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Post("/quotes", s.createQuote)
	api.Post("/transcriptions", s.createTranscription)
	api.Get("/transcripts", s.listTranscripts)
	api.Get("/transcripts/:name", s.getTranscript)
	api.Get("/checkout/:id", s.getCheckout)

	return s
}

// App returns the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) createQuote(c *fiber.Ctx) error {
	media, err := mediaFromForm(c)
	if err != nil {
		return err
	}

	result, err := s.process.QuoteMedia(c.UserContext(), media, c.FormValue("checkout") == "true")
	if err != nil {
		return err
	}

	resp := quoteResponse{
		DurationSeconds: result.Quote.Duration.Seconds(),
		Amount:          result.Quote.Amount.StringFixed(2),
		Currency:        result.Quote.Currency,
	}
	if result.Checkout != nil {
		resp.CheckoutURL = result.Checkout.URL
		resp.SessionID = result.Checkout.SessionID
	}
	return c.JSON(resp)
}

func (s *Server) createTranscription(c *fiber.Ctx) error {
	media, err := mediaFromForm(c)
	if err != nil {
		return err
	}

	result, err := s.process.Execute(c.UserContext(), media, usecases.ProcessOptions{
		SessionID: c.FormValue("session_id"),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(transcriptionResponse{
		Artifact:        store.ArtifactName(media.Name),
		DurationSeconds: result.Quote.Duration.Seconds(),
		Amount:          result.Quote.Amount.StringFixed(2),
		Currency:        result.Quote.Currency,
		Transcript:      result.Transcript,
	})
}

func (s *Server) listTranscripts(c *fiber.Ctx) error {
	names, err := s.store.List()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transcripts": names})
}

func (s *Server) getTranscript(c *fiber.Ctx) error {
	artifact, err := s.store.Load(c.Params("name"))
	if err != nil {
		return err
	}

	resp := artifactResponse{
		Name:      artifact.Name,
		Layout:    artifact.Layout,
		Malformed: make([]malformedLine, 0, len(artifact.Malformed)),
	}
	switch artifact.Layout {
	case store.LayoutDocument:
		resp.Transcript = artifact.Document
	case store.LayoutLines:
		resp.Lines = artifact.Lines
		if resp.Lines == nil {
			resp.Lines = []json.RawMessage{}
		}
	}
	for _, m := range artifact.Malformed {
		resp.Malformed = append(resp.Malformed, malformedLine{Line: m.Line, Error: m.Err.Error()})
	}
	return c.JSON(resp)
}

func (s *Server) getCheckout(c *fiber.Ctx) error {
	id := c.Params("id")
	paid, err := s.process.PaymentStatus(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"session_id": id, "paid": paid})
}

// mediaFromForm reads the multipart "file" field. The declared type comes
// from the "type" field, then the part header, then the file extension.
func mediaFromForm(c *fiber.Ctx) (transcript.UploadedMedia, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return transcript.UploadedMedia{}, &transcript.ValidationError{Field: "file", Reason: "a multipart file field named \"file\" is required"}
	}

	f, err := fh.Open()
	if err != nil {
		return transcript.UploadedMedia{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return transcript.UploadedMedia{}, err
	}

	mimeType := c.FormValue("type")
	if mimeType == "" {
		mimeType = fh.Header.Get("Content-Type")
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = transcript.TypeFromName(fh.Filename)
	}

	return transcript.UploadedMedia{Name: fh.Filename, Type: mimeType, Data: data}, nil
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		fErr     *fiber.Error
		vErr     *transcript.ValidationError
		payErr   *transcript.PaymentRequiredError
		convErr  *transcript.ConversionError
		transErr *transcript.TranscriptionError
	)

	status := fiber.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.As(err, &fErr):
		status, msg = fErr.Code, fErr.Message
	case errors.As(err, &vErr):
		status, msg = fiber.StatusBadRequest, vErr.Error()
	case errors.As(err, &payErr):
		status, msg = fiber.StatusPaymentRequired, payErr.Error()
	case errors.As(err, &convErr), errors.As(err, &transErr):
		status, msg = fiber.StatusBadGateway, transcript.UserMessage(err)
	case errors.Is(err, fs.ErrNotExist):
		status, msg = fiber.StatusNotFound, "transcript not found"
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
