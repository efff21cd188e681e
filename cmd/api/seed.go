package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	appRepos "github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/bootstrap"
	"github.com/tilab/tilab/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo inventory into empty collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		st, err := bootstrap.OpenStore(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := seed.CreateDefaultData(ctx, appRepos.NewRepositories(st), nil, lgr)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d components, %d courses, %d kits\n", res.Components, res.Courses, res.Kits)
		return nil
	},
}
