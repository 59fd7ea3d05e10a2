package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/transport-telemetry/simtelemetry/snapshot"
)

// Sink receives every written document, successful or fallback.
// Implementations must not retain encoded between calls.
type Sink interface {
	Write(doc *snapshot.Document, encoded []byte) error
}

// FileSink writes the document to a single file, replaced atomically
// so the watcher process on the other side never reads a half-written
// payload.
type FileSink struct {
	Path string
}

// NewFileSink creates a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

func (s *FileSink) Write(_ *snapshot.Document, encoded []byte) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".telemetry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}
