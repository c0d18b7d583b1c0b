package conversation

import "encoding/json"

// Raw is a conversation as returned by the backend API: a graph of
// nodes keyed by id, with the active leaf in CurrentNode.
type Raw struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	CreateTime  float64            `json:"create_time"`
	UpdateTime  float64            `json:"update_time"`
	Mapping     map[string]RawNode `json:"mapping"`
	CurrentNode string             `json:"current_node"`
}

type RawNode struct {
	ID       string   `json:"id"`
	Message  *Message `json:"message"`
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
}

type Message struct {
	ID         string    `json:"id"`
	Author     Author    `json:"author"`
	Content    *Content  `json:"content"`
	Metadata   *Metadata `json:"metadata"`
	CreateTime float64   `json:"create_time"`
}

type Author struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type Content struct {
	ContentType string       `json:"content_type"`
	Parts       []FlexString `json:"parts"`
	Text        string       `json:"text"`
	Title       string       `json:"title"`
}

type Metadata struct {
	ModelSlug    string        `json:"model_slug"`
	CiteMetadata *CiteMetadata `json:"_cite_metadata"`
}

type CiteMetadata struct {
	MetadataList []Citation `json:"metadata_list"`
}

type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FlexString decodes a string part verbatim and swallows the
// non-string parts newer conversations carry (images and the like),
// which render as empty.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	*f = ""
	return nil
}

// Result is the linearized, render-ready form of a conversation.
type Result struct {
	ID         string
	Title      string
	Model      string
	ModelSlug  string
	CreateTime float64
	UpdateTime float64
	Nodes      []Node
}

// Node is one position in the linearized sequence. A nil Message is
// valid and renders nothing.
type Node struct {
	Message *Message
}
