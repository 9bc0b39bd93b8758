package main

import (
	"fmt"

	"legallyai-backend/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// purgeSessionsCmd deletes expired sessions
var purgeSessionsCmd = &cobra.Command{
	Use:   "purge-sessions",
	Short: "Delete expired login sessions",
	RunE:  runPurgeSessions,
}

func runPurgeSessions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	n, err := repository.NewSessionRepository(pool).DeleteExpired(ctx)
	if err != nil {
		return err
	}

	logger.Info("Purged expired sessions", zap.Int64("count", n))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d expired sessions\n", n)
	return nil
}
