package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tilab/tilab/internal/pkg/logger"
	"github.com/tilab/tilab/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	srv, err := server.NewServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// blocks until shutdown
	if err := srv.Run(); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}
