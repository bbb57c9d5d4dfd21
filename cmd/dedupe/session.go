package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dupesweep/internal/config"
	"dupesweep/internal/model"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored shop access tokens",
	Long: `Store or remove a shop's offline access token in the configured session
storage (SESSION_STORAGE=postgres or redis).`,
}

var sessionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store an offline access token for a shop",
	Long: `Store an offline access token for a shop.

Examples:
  dedupe session add --shop demo.myshopify.com --token shpat_xxx --scope write_products`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		scope, _ := cmd.Flags().GetString("scope")
		if token == "" {
			return fmt.Errorf("--token is required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requirePersistentSessions(a.cfg); err != nil {
			return err
		}

		shop := a.shop(cmd)
		if shop == "" {
			return fmt.Errorf("--shop is required")
		}
		if err := a.sessions.Save(cmd.Context(), model.Session{Shop: shop, AccessToken: token, Scope: scope}); err != nil {
			return err
		}
		fmt.Printf("%s Stored session for %s\n", color.GreenString("✓"), shop)
		return nil
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove <shop>",
	Short: "Remove a shop's stored sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requirePersistentSessions(a.cfg); err != nil {
			return err
		}

		if err := a.sessions.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s Removed sessions of %s\n", color.GreenString("✓"), args[0])
		return nil
	},
}

func requirePersistentSessions(cfg *config.Config) error {
	if cfg.SessionStorage == config.SessionStorageEnv {
		return fmt.Errorf("SESSION_STORAGE=env keeps no sessions; set it to postgres or redis")
	}
	return nil
}

func init() {
	sessionAddCmd.Flags().String("token", "", "offline access token")
	sessionAddCmd.Flags().String("scope", "", "granted scopes, comma separated")
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	rootCmd.AddCommand(sessionCmd)
}
