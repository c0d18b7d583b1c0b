package export

import (
	"fmt"
	"strings"
	"time"

	"chatgpt-export/internal/conversation"
	"chatgpt-export/internal/markdown"
	"chatgpt-export/internal/settings"
	"chatgpt-export/internal/textutil"
)

// ExportMeta is one user-configured metadata panel field. Value may
// contain the placeholder tokens {title}, {date}, {timestamp},
// {source}, {model}, {mode_name}, {create_time} and {update_time}.
type ExportMeta struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// escapeSubs is applied left to right; & must come first so entities
// introduced by the later substitutions are not escaped again.
var escapeSubs = []Sub{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{`"`, "&quot;"},
	{"'", "&#039;"},
}

// EscapeHTML escapes the five HTML special characters. It is a single
// pass: escaping already-escaped text double-escapes the ampersands.
func EscapeHTML(s string) string {
	return ReplaceEach(s, escapeSubs)
}

// TransformAuthor maps a message author to its display name. Unknown
// roles pass through verbatim.
func TransformAuthor(author conversation.Author) string {
	switch author.Role {
	case "assistant":
		return "ChatGPT"
	case "user":
		return "You"
	case "tool":
		if author.Name != "" {
			return fmt.Sprintf("Plugin (%s)", author.Name)
		}
		return "Plugin"
	default:
		return author.Role
	}
}

// TransformContent converts a message content block to plain or
// markdown text. Unknown content types render as empty, never error.
func TransformContent(content *conversation.Content, metadata *conversation.Metadata) string {
	switch content.ContentType {
	case "text":
		parts := make([]string, len(content.Parts))
		for i, p := range content.Parts {
			parts[i] = string(p)
		}
		return strings.Join(parts, "\n")
	case "code":
		return content.Text
	case "tether_quote":
		if content.Title != "" {
			return "> " + content.Title
		}
		return "> " + content.Text
	case "tether_browsing_code":
		return "" // not implemented upstream either
	case "tether_browsing_display":
		if metadata == nil || metadata.CiteMetadata == nil {
			return ""
		}
		var lines []string
		for _, c := range metadata.CiteMetadata.MetadataList {
			lines = append(lines, fmt.Sprintf("> [%s](%s)", c.Title, c.URL))
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

// Renderer turns a processed conversation into a standalone HTML
// document. Settings is a read-only view of the exporter:* store;
// ModelLabel classifies a model slug into the author-type label.
type Renderer struct {
	Settings   settings.Getter
	BaseURL    string
	Lang       string
	Theme      string
	ModelLabel func(slug string) string
	Now        func() time.Time
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Renderer) modelLabel(slug string) string {
	if r.ModelLabel != nil {
		return r.ModelLabel(slug)
	}
	if strings.HasPrefix(slug, "gpt-4") {
		return "GPT-4"
	}
	return "GPT-3"
}

// HTML renders the full document for one conversation.
func (r *Renderer) HTML(conv *conversation.Result, avatar string, metaList []ExportMeta) (string, error) {
	content, err := r.conversationHTML(conv)
	if err != nil {
		return "", err
	}

	now := r.now()
	date := textutil.DateStr(now)
	source := fmt.Sprintf("%s/c/%s", r.BaseURL, conv.ID)
	lang := r.Lang
	if lang == "" {
		lang = "en"
	}

	model := conv.Model
	if model == "" {
		model = r.modelLabel(conv.ModelSlug)
	}

	var fields [][2]string
	for _, meta := range metaList {
		if meta.Name == "" {
			continue
		}
		val := ReplaceFirst(meta.Value, []Sub{
			{"{title}", conv.Title},
			{"{date}", date},
			{"{timestamp}", textutil.Timestamp(now)},
			{"{source}", source},
			{"{model}", model},
			{"{mode_name}", conv.ModelSlug},
			{"{create_time}", textutil.UnixToISO(conv.CreateTime)},
			{"{update_time}", textutil.UnixToISO(conv.UpdateTime)},
		})
		fields = append(fields, [2]string{meta.Name, val})
	}

	detailsHTML := ""
	if len(fields) > 0 {
		var items []string
		for _, f := range fields {
			items = append(items, fmt.Sprintf(`<div class="metadata_item"><div>%s</div><div>%s</div></div>`, f[0], f[1]))
		}
		detailsHTML = fmt.Sprintf(`<details>
    <summary>Metadata</summary>
    <div class="metadata_container">
        %s
    </div>
</details>`, strings.Join(items, "\n"))
	}

	doc := ReplaceEach(templateHTML, []Sub{
		{"{{title}}", conv.Title},
		{"{{date}}", date},
		{"{{time}}", now.UTC().Format(time.RFC3339)},
		{"{{source}}", source},
		{"{{lang}}", lang},
		{"{{theme}}", r.Theme},
		{"{{avatar}}", avatar},
		{"{{details}}", detailsHTML},
		{"{{content}}", content},
	})

	return textutil.StandardizeLineBreaks(doc), nil
}

// conversationHTML renders each node to a fragment and joins the
// surviving fragments with a blank line, in input order.
func (r *Renderer) conversationHTML(conv *conversation.Result) (string, error) {
	showTimestampPref, err := r.Settings.GetBool(settings.KeyTimestampEnabled)
	if err != nil {
		return "", fmt.Errorf("read timestamp setting: %w", err)
	}
	timestamp24H, err := r.Settings.GetBool(settings.KeyTimestamp24H)
	if err != nil {
		return "", fmt.Errorf("read timestamp setting: %w", err)
	}

	var fragments []string
	for _, node := range conv.Nodes {
		msg := node.Message
		if msg == nil || msg.Content == nil {
			continue
		}

		isUser := msg.Author.Role == "user"
		author := TransformAuthor(msg.Author)
		authorType := "user"
		if !isUser {
			slug := ""
			if msg.Metadata != nil {
				slug = msg.Metadata.ModelSlug
			}
			authorType = r.modelLabel(slug)
		}

		avatarEl := `<svg width="41" height="41"><use xlink:href="#chatgpt" /></svg>`
		if isUser {
			avatarEl = fmt.Sprintf(`<img alt="%s" />`, author)
		}

		content := TransformContent(msg.Content, msg.Metadata)
		if isUser {
			content = "<p>" + EscapeHTML(content) + "</p>"
		} else {
			content, err = markdown.ToHTML(content)
			if err != nil {
				return "", fmt.Errorf("render markdown: %w", err)
			}
		}

		timeEl := ""
		if showTimestampPref && msg.CreateTime != 0 {
			t := time.Unix(int64(msg.CreateTime), 0)
			iso := t.UTC().Format("2006-01-02 15:04:05") + " UTC"
			clock := t.Format("03:04 PM")
			if timestamp24H {
				clock = t.Format("15:04")
			}
			timeEl = fmt.Sprintf(`<div class="time" title="%s">%s</div>`, iso, clock)
		}

		fragments = append(fragments, fmt.Sprintf(`
<div class="conversation-item">
    <div class="author %s">
        %s
    </div>
    <div class="conversation-content-wrapper">
        <div class="conversation-content">
            %s
        </div>
    </div>
    %s
</div>`, authorType, avatarEl, content, timeEl))
	}

	return strings.Join(fragments, "\n\n"), nil
}
