package main

import (
	"github.com/spf13/cobra"
	"github.com/tilab/tilab/internal/bootstrap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tilab",
	Short: "TI-LAB laboratory inventory server",
	Long: `tilab serves the TI-LAB inventory API: components, courses and their
sections, kits and loans, with a change event stream for the web console.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, seedCmd, hashPasswordCmd)
}
