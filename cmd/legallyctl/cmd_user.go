package main

import (
	"errors"
	"fmt"

	"legallyai-backend/models"
	"legallyai-backend/repository"
	"legallyai-backend/service"

	"github.com/spf13/cobra"
)

var (
	userEmail     string
	userPassword  string
	userFirstName string
	userLastName  string
	userType      string
	userLocation  string
)

// createUserCmd creates an account through the account service
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a business or lawyer account",
	Long: `Create an account with the same validation as the signup endpoint.

Lawyer accounts also get a directory record.`,
	RunE: runCreateUser,
}

func init() {
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Account password, at least 6 characters (required)")
	createUserCmd.Flags().StringVar(&userFirstName, "first-name", "", "First name (required)")
	createUserCmd.Flags().StringVar(&userLastName, "last-name", "", "Last name (required)")
	createUserCmd.Flags().StringVar(&userType, "type", string(models.UserTypeBusiness), "Account type: business or lawyer")
	createUserCmd.Flags().StringVar(&userLocation, "location", "", "Location")
	for _, name := range []string{"email", "password", "first-name", "last-name"} {
		_ = createUserCmd.MarkFlagRequired(name)
	}
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := service.NewAccountService(
		service.AccountWithStore(repository.NewUserRepository(pool)),
		service.AccountWithSessionStore(repository.NewSessionRepository(pool)),
		service.AccountWithLawyerStore(repository.NewLawyerRepository(pool)),
		service.AccountWithSessionTTL(cfg.SessionTTL),
		service.AccountWithLogger(logger),
	)

	result, err := accounts.Signup(ctx, service.SignupRequest{
		FirstName: userFirstName,
		LastName:  userLastName,
		Email:     userEmail,
		Password:  userPassword,
		UserType:  models.UserType(userType),
		Location:  userLocation,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		return fmt.Errorf("user with email %s already exists", userEmail)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created %s user %s (ID: %s)\n", result.User.UserType, result.User.Email, result.User.ID)
	fmt.Fprintf(out, "  Session token: %s\n", result.Session.Token)
	return nil
}
