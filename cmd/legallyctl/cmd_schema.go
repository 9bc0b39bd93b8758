package main

import (
	"fmt"

	"legallyai-backend/repository"

	"github.com/spf13/cobra"
)

// createSchemaCmd creates the database schema
var createSchemaCmd = &cobra.Command{
	Use:   "create-schema",
	Short: "Create tables and indexes",
	Long: `Create the users, user_profiles, sessions, lawyers and files tables.

Statements are idempotent and safe to run against an existing database.`,
	RunE: runCreateSchema,
}

func runCreateSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repository.CreateSchema(ctx, pool); err != nil {
		return err
	}

	logger.Info("Schema created")
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Schema created")
	return nil
}
