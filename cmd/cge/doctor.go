package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatgpt-export/internal/config"
	"chatgpt-export/internal/settings"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, origin table, settings store, and API access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Origin ===")
			fmt.Printf("  Origin: %s\n", cfg.Origin)
			base, err := cfg.APIBase(cfg.Origin)
			if err != nil {
				fmt.Printf("  API base: ERROR: %v\n", err)
			} else {
				fmt.Printf("  API base: %s (OK)\n", base)
			}

			fmt.Println("\n=== Token ===")
			token, err := cfg.Token()
			switch {
			case err != nil:
				fmt.Printf("  ERROR: %v\n", err)
			case token == "":
				fmt.Println("  Status: NOT SET (API calls will be unauthorized)")
			default:
				fmt.Println("  Status: set")
			}

			fmt.Println("\n=== Settings ===")
			fmt.Printf("  Path: %s\n", cfg.SettingsDB)
			if _, err := os.Stat(cfg.SettingsDB); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first use)")
			} else {
				store, err := settings.Open(cfg.SettingsDB)
				if err != nil {
					fmt.Printf("  Status: ERROR: %v\n", err)
				} else {
					all, err := store.All()
					store.Close()
					if err != nil {
						fmt.Printf("  Status: ERROR: %v\n", err)
					} else {
						fmt.Printf("  Keys: %d\n", len(all))
					}
				}
			}

			fmt.Println("\n=== API ===")
			if base == "" || token == "" {
				fmt.Println("  Skipped (origin or token not usable)")
				return nil
			}
			client, err := newClient(cfg)
			if err != nil {
				fmt.Printf("  ERROR: %v\n", err)
				return nil
			}
			page, err := client.FetchConversations(cmd.Context(), 0, 1)
			if err != nil {
				fmt.Printf("  Listing: ERROR: %v\n", err)
			} else {
				fmt.Printf("  Listing: OK (%d conversations)\n", page.Total)
			}
			return nil
		},
	}
}
