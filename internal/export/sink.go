package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives finished export artifacts. The MIME type is part of
// the contract for sinks that care (a browser-style download, an HTTP
// response); the file sink ignores it.
type Sink interface {
	SaveText(name, mime, content string) error
	SaveBlob(name, mime string, data []byte) error
}

// DirSink writes artifacts into a directory.
type DirSink struct {
	Dir string
}

func (d DirSink) SaveText(name, mime, content string) error {
	return d.SaveBlob(name, mime, []byte(content))
}

func (d DirSink) SaveBlob(name, _ string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
