package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatgpt-export/internal/conversation"
	"chatgpt-export/internal/settings"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
}

func testRenderer(vals settings.Values) *Renderer {
	return &Renderer{
		Settings: vals,
		BaseURL:  "https://chat.openai.com",
		Lang:     "en",
		Theme:    "light",
		Now:      fixedNow,
	}
}

func userMessage(text string) *conversation.Message {
	return &conversation.Message{
		Author:  conversation.Author{Role: "user"},
		Content: &conversation.Content{ContentType: "text", Parts: []conversation.FlexString{conversation.FlexString(text)}},
	}
}

func assistantMessage(text string) *conversation.Message {
	return &conversation.Message{
		Author:   conversation.Author{Role: "assistant"},
		Content:  &conversation.Content{ContentType: "text", Parts: []conversation.FlexString{conversation.FlexString(text)}},
		Metadata: &conversation.Metadata{ModelSlug: "gpt-4"},
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, `&lt;a&gt;&amp;&quot;&#039;`, EscapeHTML(`<a>&"'`))

	// escaping is a single pass, not idempotent: a second application
	// double-escapes the ampersands introduced by the first
	assert.Equal(t, "&amp;amp;", EscapeHTML(EscapeHTML("&")))
}

func TestTransformAuthor(t *testing.T) {
	tests := []struct {
		name   string
		author conversation.Author
		want   string
	}{
		{"assistant", conversation.Author{Role: "assistant"}, "ChatGPT"},
		{"user", conversation.Author{Role: "user"}, "You"},
		{"tool unnamed", conversation.Author{Role: "tool"}, "Plugin"},
		{"tool named", conversation.Author{Role: "tool", Name: "browser"}, "Plugin (browser)"},
		{"unknown passes through", conversation.Author{Role: "critic"}, "critic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformAuthor(tt.author))
		})
	}
}

func TestTransformContent(t *testing.T) {
	tests := []struct {
		name     string
		content  *conversation.Content
		metadata *conversation.Metadata
		want     string
	}{
		{
			name:    "text joins parts",
			content: &conversation.Content{ContentType: "text", Parts: []conversation.FlexString{"a", "b"}},
			want:    "a\nb",
		},
		{
			name:    "text without parts",
			content: &conversation.Content{ContentType: "text"},
			want:    "",
		},
		{
			name:    "code verbatim",
			content: &conversation.Content{ContentType: "code", Text: "print(1)"},
			want:    "print(1)",
		},
		{
			name:    "tether_quote prefers title",
			content: &conversation.Content{ContentType: "tether_quote", Title: "Doc", Text: "body"},
			want:    "> Doc",
		},
		{
			name:    "tether_quote falls back to text",
			content: &conversation.Content{ContentType: "tether_quote", Text: "body"},
			want:    "> body",
		},
		{
			name:    "tether_browsing_code unimplemented",
			content: &conversation.Content{ContentType: "tether_browsing_code", Text: "x"},
			want:    "",
		},
		{
			name:    "tether_browsing_display renders citations",
			content: &conversation.Content{ContentType: "tether_browsing_display"},
			metadata: &conversation.Metadata{CiteMetadata: &conversation.CiteMetadata{
				MetadataList: []conversation.Citation{
					{Title: "One", URL: "https://one.example"},
					{Title: "Two", URL: "https://two.example"},
				},
			}},
			want: "> [One](https://one.example)\n> [Two](https://two.example)",
		},
		{
			name:    "tether_browsing_display without citations",
			content: &conversation.Content{ContentType: "tether_browsing_display"},
			want:    "",
		},
		{
			name:    "unknown type drops silently",
			content: &conversation.Content{ContentType: "unknown_type", Text: "x"},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransformContent(tt.content, tt.metadata))
		})
	}
}

func TestHTMLSkipsEmptyNodes(t *testing.T) {
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{
			{Message: nil},
			{Message: userMessage("Hi")},
			{Message: &conversation.Message{Author: conversation.Author{Role: "system"}}}, // no content
			{Message: nil},
		},
	}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
	require.NoError(t, err)

	// exactly one fragment, no separators from the filtered nodes
	assert.Equal(t, 1, strings.Count(doc, `class="conversation-item"`))
	assert.Contains(t, doc, "<p>Hi</p>")
}

func TestHTMLFragmentOrder(t *testing.T) {
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{
			{Message: userMessage("first")},
			{Message: assistantMessage("second")},
			{Message: userMessage("third")},
		},
	}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
	require.NoError(t, err)

	i1 := strings.Index(doc, "first")
	i2 := strings.Index(doc, "second")
	i3 := strings.Index(doc, "third")
	require.True(t, i1 >= 0 && i2 >= 0 && i3 >= 0)
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
}

func TestHTMLUserContentEscaped(t *testing.T) {
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{{Message: userMessage(`<b>&</b>`)}},
	}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
	require.NoError(t, err)
	assert.Contains(t, doc, "<p>&lt;b&gt;&amp;&lt;/b&gt;</p>")
}

func TestHTMLAssistantMarkdown(t *testing.T) {
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{{Message: assistantMessage("**bold**")}},
	}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
	require.NoError(t, err)
	assert.Contains(t, doc, "<strong>bold</strong>")
	assert.Contains(t, doc, `class="author GPT-4"`)
}

func TestHTMLMetadataFirstOccurrenceOnly(t *testing.T) {
	conv := &conversation.Result{ID: "abc", Title: "My Chat"}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", []ExportMeta{
		{Name: "heading", Value: "{title} - {title}"},
	})
	require.NoError(t, err)

	// only the first {title} is substituted, the second stays literal
	assert.Contains(t, doc, "My Chat - {title}")
}

func TestHTMLMetadataPanel(t *testing.T) {
	conv := &conversation.Result{ID: "abc", Title: "T", ModelSlug: "gpt-4-browsing"}
	r := testRenderer(settings.Values{})

	t.Run("empty list renders no details block", func(t *testing.T) {
		doc, err := r.HTML(conv, "", nil)
		require.NoError(t, err)
		assert.NotContains(t, doc, "<details>")
	})

	t.Run("fields with empty names are dropped", func(t *testing.T) {
		doc, err := r.HTML(conv, "", []ExportMeta{{Name: "", Value: "x"}})
		require.NoError(t, err)
		assert.NotContains(t, doc, "<details>")
	})

	t.Run("named fields render with substituted tokens", func(t *testing.T) {
		doc, err := r.HTML(conv, "", []ExportMeta{
			{Name: "Exported", Value: "{date}"},
			{Name: "Model", Value: "{mode_name}"},
		})
		require.NoError(t, err)
		assert.Contains(t, doc, "<details>")
		assert.Contains(t, doc, "2024-03-15")
		assert.Contains(t, doc, "gpt-4-browsing")
	})
}

func TestHTMLDocumentSubstitutionIsGlobal(t *testing.T) {
	conv := &conversation.Result{ID: "abc", Title: "Global Title"}

	doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
	require.NoError(t, err)

	// the template carries {{title}} more than once; every occurrence
	// must be replaced
	assert.NotContains(t, doc, "{{title}}")
	assert.GreaterOrEqual(t, strings.Count(doc, "Global Title"), 2)
	assert.NotContains(t, doc, "{{content}}")
	assert.NotContains(t, doc, "{{avatar}}")
	assert.Contains(t, doc, "https://chat.openai.com/c/abc")
}

func TestHTMLTimestamps(t *testing.T) {
	msg := userMessage("Hi")
	msg.CreateTime = 1641032520 // 2022-01-01 10:22:00 UTC
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{{Message: msg}},
	}

	t.Run("disabled by default", func(t *testing.T) {
		doc, err := testRenderer(settings.Values{}).HTML(conv, "", nil)
		require.NoError(t, err)
		assert.NotContains(t, doc, `class="time"`)
	})

	t.Run("enabled renders hover title in UTC", func(t *testing.T) {
		doc, err := testRenderer(settings.Values{
			settings.KeyTimestampEnabled: "true",
		}).HTML(conv, "", nil)
		require.NoError(t, err)
		assert.Contains(t, doc, `class="time"`)
		assert.Contains(t, doc, "2022-01-01 10:22:00 UTC")
	})

	t.Run("missing per-message timestamp renders nothing", func(t *testing.T) {
		noTS := &conversation.Result{
			ID:    "abc",
			Title: "T",
			Nodes: []conversation.Node{{Message: userMessage("Hi")}},
		}
		doc, err := testRenderer(settings.Values{
			settings.KeyTimestampEnabled: "true",
		}).HTML(noTS, "", nil)
		require.NoError(t, err)
		assert.NotContains(t, doc, `class="time"`)
	})
}

func TestHTMLModelLabelClassifier(t *testing.T) {
	conv := &conversation.Result{
		ID:    "abc",
		Title: "T",
		Nodes: []conversation.Node{{Message: assistantMessage("hello")}},
	}

	r := testRenderer(settings.Values{})
	r.ModelLabel = func(slug string) string {
		if slug == "gpt-4" {
			return "GPT-4o-family"
		}
		return "other"
	}

	doc, err := r.HTML(conv, "", nil)
	require.NoError(t, err)
	assert.Contains(t, doc, `class="author GPT-4o-family"`)
}
