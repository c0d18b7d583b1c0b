package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"chatgpt-export/internal/config"
	"chatgpt-export/internal/conversation"
	"chatgpt-export/internal/export"
)

func previewCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview <chatID>",
		Short: "Render a conversation as markdown in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			raw, err := client.FetchConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			conv := conversation.Process(raw)

			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}

			out, err := r.Render(previewMarkdown(conv))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "Wrap width")

	return cmd
}

// previewMarkdown flattens a conversation into one markdown document,
// one section per message.
func previewMarkdown(conv *conversation.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	for _, node := range conv.Nodes {
		msg := node.Message
		if msg == nil || msg.Content == nil {
			continue
		}
		text := export.TransformContent(msg.Content, msg.Metadata)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", export.TransformAuthor(msg.Author), text)
	}
	return b.String()
}
