package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatgpt-export/internal/config"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest first",
		Long:  "Prints one conversation per line as TSV: id, updated, title.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			items, err := client.FetchAllConversations(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			for _, it := range items {
				fmt.Printf("%s\t%s\t%s\n", it.ID, it.UpdateTime, it.Title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
