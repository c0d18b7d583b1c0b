package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatgpt-export/internal/config"
	"chatgpt-export/internal/export"
	"chatgpt-export/internal/settings"
)

func exportCmd() *cobra.Command {
	var format, outDir string
	var metaFlags []string

	cmd := &cobra.Command{
		Use:   "export <chatID>",
		Short: "Export one conversation to a standalone HTML file",
		Args:  cobra.MaximumNArgs(1),
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

			chatID := ""
			if len(args) > 0 {
				chatID = args[0]
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

			ok, err := ex.ExportConversation(cmd.Context(), chatID, resolveFormat(store, format), metaList)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("nothing exported")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Filename pattern ({title}, {chatId}, {createTime}, {updateTime})")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringArrayVar(&metaFlags, "meta", nil, "Metadata panel field as name=template (repeatable)")

	return cmd
}
