package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dupesweep/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, report page and webhook endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.ListenAddr
		}

		srv, err := web.NewServer(web.Options{
			Services:       a.factory,
			Sessions:       a.sessions,
			DefaultShop:    a.shop(cmd),
			APISecret:      a.cfg.APISecret,
			AllowedOrigins: a.cfg.AllowedOrigins,
			OnUninstall:    a.factory.Forget,
		})
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (defaults to LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
