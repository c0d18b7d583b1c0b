package export

import (
	"strings"

	"chatgpt-export/internal/textutil"
)

// FileInfo carries the values available to a filename pattern.
type FileInfo struct {
	Title      string
	ChatID     string
	CreateTime float64
	UpdateTime float64
}

// unsafe characters stripped from filenames, plus the path separators.
const unsafeFilenameChars = `\/:*?"<>|`

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			b.WriteRune('-')
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// FileName resolves a filename pattern against one conversation and
// appends the extension. Each token is replaced at its first
// occurrence only, mirroring the metadata-field discipline.
func FileName(format, ext string, info FileInfo) string {
	name := ReplaceFirst(format, []Sub{
		{"{title}", sanitizeFilename(info.Title)},
		{"{chatId}", info.ChatID},
		{"{createTime}", textutil.UnixToISO(info.CreateTime)},
		{"{updateTime}", textutil.UnixToISO(info.UpdateTime)},
	})
	if name == "" {
		name = "ChatGPT conversation"
	}
	return name + "." + ext
}
