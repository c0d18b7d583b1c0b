package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML renders markdown text to an HTML fragment.
func ToHTML(text string) (string, error) {
	var b strings.Builder
	if err := md.Convert([]byte(text), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
