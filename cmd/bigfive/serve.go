package main

import (
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/bigfive/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and JSON API",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := loadConfig(false)
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		logger := newLogger(cfg)

		eng, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}
		return api.NewServer(eng, cfg.Server, logger).Start(cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $SERVER_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}
