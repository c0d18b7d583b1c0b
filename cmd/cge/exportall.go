package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chatgpt-export/internal/api"
	"chatgpt-export/internal/config"
	"chatgpt-export/internal/conversation"
	"chatgpt-export/internal/export"
	"chatgpt-export/internal/settings"
	"chatgpt-export/internal/tui"
)

func exportAllCmd() *cobra.Command {
	var format, outDir string
	var metaFlags []string
	var limit int

	cmd := &cobra.Command{
		Use:   "export-all [chatID...]",
		Short: "Export multiple conversations into a single zip archive",
		Long: `Exports the given conversations (or, with no arguments, conversations
picked interactively from the account listing) as HTML files packed
into ` + export.ArchiveName + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			store, err := settings.Open(cfg.SettingsDB)
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				ids, err = pickConversations(cmd.Context(), client, limit)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					return errors.New("no conversations selected")
				}
			}

			raws, err := fetchRaws(cmd.Context(), client, ids)
			if err != nil {
				return err
			}

			metaList, err := resolveMetaList(store, metaFlags)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}

			ex := &export.Exporter{
				Client:   client,
				Renderer: newRenderer(cfg, store),
				Sink:     export.DirSink{Dir: outDir},
				Notify: func(msg string) {
					fmt.Fprintln(os.Stderr, msg)
				},
			}

			ok, err := ex.ExportAll(cmd.Context(), raws, resolveFormat(store, format), metaList)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("nothing exported")
			}
			fmt.Fprintf(os.Stderr, "Done. %d conversations -> %s\n", len(raws), export.ArchiveName)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Filename pattern ({title}, {chatId}, {createTime}, {updateTime})")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Metadata panel field as name=template (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max conversations fetched from the listing (0 = all)")

	return cmd
}

// pickConversations lists the account's conversations and, when run
// interactively, opens the picker. Piped invocations take the whole
// listing.
func pickConversations(ctx context.Context, client *api.Client, limit int) ([]string, error) {
	fmt.Fprintln(os.Stderr, "Fetching conversation list...")
	items, err := client.FetchAllConversations(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		items, err = tui.Run(items)
		if err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids, nil
}

func fetchRaws(ctx context.Context, client *api.Client, ids []string) ([]*conversation.Raw, error) {
	raws := make([]*conversation.Raw, 0, len(ids))
	for i, id := range ids {
		fmt.Fprintf(os.Stderr, "Fetching %d/%d %s\n", i+1, len(ids), id)
		raw, err := client.FetchConversation(ctx, id)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
