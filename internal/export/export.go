package export

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"chatgpt-export/internal/conversation"
)

// ArchiveName is the fixed filename of batch export archives.
const ArchiveName = "chatgpt-export.zip"

// Fetcher is the slice of the API client the exporter needs.
type Fetcher interface {
	FetchConversation(ctx context.Context, id string) (*conversation.Raw, error)
	FetchAvatar(ctx context.Context) (string, error)
}

// Exporter drives single and batch conversation exports. Notify
// reports user-facing precondition failures; it never receives
// transport errors, those propagate to the caller.
type Exporter struct {
	Client   Fetcher
	Renderer *Renderer
	Sink     Sink
	Notify   func(msg string)
}

func (e *Exporter) notify(msg string) {
	if e.Notify != nil {
		e.Notify(msg)
	}
}

// ExportConversation exports one conversation as a standalone HTML
// file. An empty chat id means no conversation is active: the user is
// notified and the call reports failure without an error.
func (e *Exporter) ExportConversation(ctx context.Context, chatID, format string, metaList []ExportMeta) (bool, error) {
	if chatID == "" {
		e.notify("Please start a conversation first")
		return false, nil
	}

	avatar, err := e.Client.FetchAvatar(ctx)
	if err != nil {
		avatar = "" // missing avatar degrades to the placeholder
	}

	raw, err := e.Client.FetchConversation(ctx, chatID)
	if err != nil {
		return false, err
	}
	conv := conversation.Process(raw)

	html, err := e.Renderer.HTML(conv, avatar, metaList)
	if err != nil {
		return false, err
	}

	name := FileName(format, "html", FileInfo{
		Title:      conv.Title,
		ChatID:     chatID,
		CreateTime: conv.CreateTime,
		UpdateTime: conv.UpdateTime,
	})
	if err := e.Sink.SaveText(name, "text/html", html); err != nil {
		return false, err
	}
	return true, nil
}

// ExportAll renders every given raw conversation and packages the
// results into a single zip archive. The avatar is fetched once and
// shared. Entries keep input order; filename collisions get a " (N)"
// suffix before the extension.
func (e *Exporter) ExportAll(ctx context.Context, raws []*conversation.Raw, format string, metaList []ExportMeta) (bool, error) {
	avatar, err := e.Client.FetchAvatar(ctx)
	if err != nil {
		avatar = ""
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	seen := make(map[string]int)
	for _, raw := range raws {
		conv := conversation.Process(raw)

		name := FileName(format, "html", FileInfo{
			Title:      conv.Title,
			ChatID:     conv.ID,
			CreateTime: conv.CreateTime,
			UpdateTime: conv.UpdateTime,
		})
		name = resolveCollision(name, seen)

		html, err := e.Renderer.HTML(conv, avatar, metaList)
		if err != nil {
			return false, fmt.Errorf("render %s: %w", conv.ID, err)
		}

		w, err := zw.Create(name)
		if err != nil {
			return false, fmt.Errorf("add %s to archive: %w", name, err)
		}
		if _, err := w.Write([]byte(html)); err != nil {
			return false, fmt.Errorf("add %s to archive: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return false, fmt.Errorf("finalize archive: %w", err)
	}
	if err := e.Sink.SaveBlob(ArchiveName, "application/zip", buf.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// resolveCollision records name in seen and, on repeat names, inserts
// " (N)" before the extension. The first duplicate gets (1).
func resolveCollision(name string, seen map[string]int) string {
	count, ok := seen[name]
	if !ok {
		seen[name] = 1
		return name
	}
	seen[name] = count + 1
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), count, ext)
}
