package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	info := FileInfo{
		Title:      "My Chat",
		ChatID:     "abc-123",
		CreateTime: 1700000000,
		UpdateTime: 1700003600,
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"title only", "{title}", "My Chat.html"},
		{"title and id", "{title}-{chatId}", "My Chat-abc-123.html"},
		{"unknown tokens stay literal", "{nope}", "{nope}.html"},
		{"empty format falls back", "", "ChatGPT conversation.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.format, "html", info))
		})
	}
}

func TestFileNameFirstOccurrenceOnly(t *testing.T) {
	got := FileName("{title}-{title}", "html", FileInfo{Title: "x"})
	assert.Equal(t, "x-{title}.html", got)
}

func TestFileNameSanitizesTitle(t *testing.T) {
	got := FileName("{title}", "html", FileInfo{Title: `a/b\c:d?e`})
	assert.Equal(t, "a-b-c-d-e.html", got)
}

func TestFileNameTimes(t *testing.T) {
	got := FileName("{createTime}", "html", FileInfo{CreateTime: 1700000000})
	assert.Equal(t, "2023-11-14T22:13:20Z.html", got)
}
