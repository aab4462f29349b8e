package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newDeckCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Inspect daily deck scheduling",
	}
	cmd.AddCommand(newDeckBuildCmd(root))
	return cmd
}

func newDeckBuildCmd(root *rootOptions) *cobra.Command {
	var (
		userID  string
		persist bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a daily deck for a user and print its question ids",
		Long: "Build runs the deck builder against the configured database and prints one\n" +
			"question id per line in deck order. Without --persist nothing is written.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			app, err := newApplication(ctx, cfg, commandLogger(cmd.ErrOrStderr(), cfg))
			if err != nil {
				return err
			}
			defer app.cleanup()

			out := cmd.OutOrStdout()
			if persist {
				d, err := app.service.CreateDailyDeck(ctx, userID)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "# deck %s\n", d.ID); err != nil {
					return err
				}
				return printIDs(out, d.QuestionIDs())
			}

			ids, err := app.builder.BuildDailyDeck(ctx, userID)
			if err != nil {
				return err
			}
			return printIDs(out, ids)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to build the deck for")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the deck as the service would")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printIDs(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
