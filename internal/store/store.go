package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/aeronjl/auricle/internal/domain/transcript"
)

// Layout tells how an artifact file was written.
type Layout string

const (
	LayoutDocument Layout = "document" // one JSON document
	LayoutLines    Layout = "lines"    // legacy: one JSON value per line
)

// Artifact is a loaded transcript file.
type Artifact struct {
	Name      string
	Layout    Layout
	Document  json.RawMessage   // set for LayoutDocument
	Lines     []json.RawMessage // set for LayoutLines, in file order
	Malformed []*transcript.MalformedArtifactError
}

// Store keeps transcripts as flat JSON files in one directory.
type Store struct {
	Dir string
}

func New(dir string) *Store {
	return &Store{Dir: dir}
}

// ArtifactName derives the artifact filename for an uploaded file name.
func ArtifactName(name string) string {
	return filepath.Base(name) + transcript.ArtifactSuffix
}

// Save writes t as <name>_final_output.json, replacing any earlier version
// atomically. It returns the written path.
func (s *Store) Save(name string, t *transcript.CombinedTranscript) (string, error) {
	if strings.TrimSpace(name) == "" || filepath.Base(name) == "." || filepath.Base(name) == string(filepath.Separator) {
		return "", &transcript.ValidationError{Field: "artifact name", Reason: "must not be empty"}
	}
	if t == nil {
		return "", &transcript.ValidationError{Field: "transcript", Reason: "must not be nil"}
	}

	path := filepath.Join(s.Dir, ArtifactName(name))
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling transcript: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", &transcript.PersistenceError{Op: "create", Path: s.Dir, Err: err}
	}
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", &transcript.PersistenceError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// List returns artifact filenames in directory order. A missing directory
// means nothing has been saved yet and yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &transcript.PersistenceError{Op: "list", Path: s.Dir, Err: err}
	}

	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), transcript.ArtifactSuffix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Load reads an artifact. Files holding a single JSON document are returned
// as such; anything else is read line by line, keeping every line that
// parses and recording the ones that do not in Artifact.Malformed.
func (s *Store) Load(filename string) (*Artifact, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return nil, &transcript.ValidationError{Field: "artifact name", Reason: fmt.Sprintf("%q is not a file name", filename)}
	}
	path := filepath.Join(s.Dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &transcript.PersistenceError{Op: "read", Path: path, Err: err}
	}

	if json.Valid(data) {
		return &Artifact{Name: name, Layout: LayoutDocument, Document: json.RawMessage(bytes.TrimSpace(data))}, nil
	}
	return parseLines(name, data), nil
}

func parseLines(name string, data []byte) *Artifact {
	a := &Artifact{Name: name, Layout: LayoutLines, Lines: []json.RawMessage{}}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var probe json.RawMessage
		if err := json.Unmarshal(line, &probe); err != nil {
			a.Malformed = append(a.Malformed, &transcript.MalformedArtifactError{File: name, Line: n, Err: err})
			continue
		}
		a.Lines = append(a.Lines, append(json.RawMessage(nil), line...))
	}
	return a
}

// Transcript decodes the artifact into a CombinedTranscript. Legacy files are
// read as one segment per line.
func (a *Artifact) Transcript() (*transcript.CombinedTranscript, error) {
	if a.Layout == LayoutDocument {
		var t transcript.CombinedTranscript
		if err := json.Unmarshal(a.Document, &t); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", a.Name, err)
		}
		return &t, nil
	}

	t := &transcript.CombinedTranscript{Segments: make([]transcript.Segment, 0, len(a.Lines))}
	var texts []string
	for i, line := range a.Lines {
		var seg transcript.Segment
		if err := json.Unmarshal(line, &seg); err != nil {
			return nil, fmt.Errorf("decoding %s entry %d: %w", a.Name, i+1, err)
		}
		t.Segments = append(t.Segments, seg)
		if seg.Text != "" {
			texts = append(texts, seg.Text)
		}
		if seg.End > t.Duration {
			t.Duration = seg.End
		}
	}
	t.Text = strings.Join(texts, " ")
	return t, nil
}

// Value returns the artifact content as one JSON value: the document itself,
// or an array of the legacy lines.
func (a *Artifact) Value() json.RawMessage {
	if a.Layout == LayoutDocument {
		return a.Document
	}
	out, _ := json.Marshal(a.Lines)
	return out
}
