package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanwk/gondotrack/internal/alert"
	"github.com/tanwk/gondotrack/internal/auth"
	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/mail"
	"github.com/tanwk/gondotrack/internal/models"
)

var (
	configPath string
	cfg        *config.Config
	database   *db.DB
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Gondotrack administration tool",
	Long:  "Administrative tool for managing Gondotrack users and running alert sweeps",
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE:  createUser,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE:  listUsers,
}

var userVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Mark a user account as verified",
	RunE:  verifyUser,
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage certificate-expiry alerts",
}

var alertRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate all subscriptions and send due alerts (cron entry point)",
	RunE:  runAlerts,
}

var (
	email    string
	name     string
	password string
	verified bool
)

func init() {
	// Root flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/gondotrack/config.yaml", "Config file path")

	// User create flags
	userCreateCmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	userCreateCmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	userCreateCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	userCreateCmd.Flags().BoolVar(&verified, "verified", true, "Mark the account as verified")

	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("password")

	// User verify flags
	userVerifyCmd.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	userVerifyCmd.MarkFlagRequired("email")

	// Add commands
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userVerifyCmd)
	alertCmd.AddCommand(alertRunCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(alertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initDB() error {
	// Load configuration
	var err error
	cfg, err = config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Connect to database
	database, err = db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return nil
}

func createUser(cmd *cobra.Command, args []string) error {
	if err := initDB(); err != nil {
		return err
	}
	defer database.Close()

	// Hash password
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Create user
	userRepo := repository.NewUserRepository(database.DB)
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Verified:     verified,
	}

	if err := userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("User ID: %d\n", user.ID)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Name: %s\n", user.Name)
	fmt.Printf("Verified: %t\n", user.Verified)

	return nil
}

func listUsers(cmd *cobra.Command, args []string) error {
	if err := initDB(); err != nil {
		return err
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.DB)
	users, err := userRepo.List()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	fmt.Printf("\nTotal users: %d\n\n", len(users))
	fmt.Printf("%-5s %-30s %-20s %-10s %s\n", "ID", "Email", "Name", "Verified", "Created")
	fmt.Println("--------------------------------------------------------------------------------")

	for _, user := range users {
		verifiedStr := "No"
		if user.Verified {
			verifiedStr = "Yes"
		}
		fmt.Printf("%-5d %-30s %-20s %-10s %s\n",
			user.ID,
			user.Email,
			user.Name,
			verifiedStr,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return nil
}

func verifyUser(cmd *cobra.Command, args []string) error {
	if err := initDB(); err != nil {
		return err
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.DB)
	user, err := userRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := userRepo.SetVerified(user.ID); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	fmt.Printf("User %s marked as verified\n", user.Email)
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	if err := initDB(); err != nil {
		return err
	}
	defer database.Close()

	mailer, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to configure smtp: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	service := alert.NewService(
		repository.NewGondolaRepository(database.DB),
		repository.NewDocumentRepository(database.DB),
		repository.NewSubscriptionRepository(database.DB),
		repository.NewAlertLogRepository(database.DB),
		mailer,
		logger,
	)

	sent, err := service.RunAll(context.Background())
	if err != nil {
		return fmt.Errorf("alert sweep failed: %w", err)
	}

	fmt.Printf("Alert sweep complete: %d alert(s) sent\n", sent)
	return nil
}
