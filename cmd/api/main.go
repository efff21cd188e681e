package main

import (
	"os"

	"github.com/tilab/tilab/internal/pkg/logger"
)

// @title TI-LAB Inventory API
// @version 1.0
// @description Inventory, course and loan management for the TI-LAB electronics laboratory.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
