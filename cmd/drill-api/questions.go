package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/phrazzld/drill-api/internal/domain"
	"github.com/phrazzld/drill-api/internal/store"
	"github.com/spf13/cobra"
)

func newQuestionsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank",
	}
	cmd.AddCommand(newQuestionsImportCmd(root))
	return cmd
}

func newQuestionsImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load questions from a JSON array of {id, topic_id}",
		Long: "Import inserts every question of the file in one transaction. Questions\n" +
			"that already exist are skipped, so the command can be re-run safely.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			questions, err := readQuestions(args[0])
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			app, err := newApplication(ctx, cfg, commandLogger(cmd.ErrOrStderr(), cfg))
			if err != nil {
				return err
			}
			defer app.cleanup()

			var inserted int
			err = store.RunInTransaction(ctx, app.db, func(ctx context.Context, tx *sql.Tx) error {
				var err error
				inserted, err = app.store.WithTx(tx).ImportQuestions(ctx, questions)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to import questions: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d questions\n", inserted, len(questions))
			return err
		},
	}
}

func readQuestions(path string) ([]domain.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return questions, nil
}
