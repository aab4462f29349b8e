package main

import (
	"github.com/phrazzld/drill-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|reset|status|version",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "reset", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			log := commandLogger(cmd.ErrOrStderr(), cfg)

			db, dialect, err := sqlstore.Open(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return sqlstore.Migrate(ctx, db, dialect, args[0], log)
		},
	}
}
