package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"library-console/config"
)

var (
	verbose   bool
	baseURL   string
	statePath string
	assumeYes bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lms",
	Short: "Library management console",
	Long: `lms is a terminal client for the library management REST API.

Run without arguments to start the interactive console. The console starts on
the login page and, once logged in, switches to the admin console or the user
dashboard depending on the account's role.

Every subcommand checks the stored session first and refuses to run on a page
the session may not use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		var err error
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (or set LMS_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "Session state file (or set LMS_STATE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")

	// Account
	signupCmd.Flags().String("username", "", "Account name (prompted when empty)")
	signupCmd.Flags().String("role", "user", "Account role: admin or user")
	loginCmd.Flags().String("username", "", "Account name (prompted when empty)")
	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, whoamiCmd)

	// Admin console
	adminUsersUpdateCmd.Flags().String("username", "", "New username")
	adminUsersUpdateCmd.Flags().Bool("password", false, "Prompt for a new password")
	adminUsersCmd.AddCommand(adminUsersListCmd, adminUsersCreateCmd, adminUsersUpdateCmd, adminUsersDeleteCmd)

	for _, c := range []*cobra.Command{adminBooksCreateCmd, adminBooksUpdateCmd} {
		c.Flags().String("title", "", "Book title")
		c.Flags().String("author", "", "Book author")
		c.Flags().String("isbn", "", "ISBN")
		c.Flags().String("category", "", "Category")
		c.Flags().String("copies", "", "Available copies")
	}
	adminBooksCmd.AddCommand(adminBooksListCmd, adminBooksSearchCmd, adminBooksCreateCmd, adminBooksUpdateCmd, adminBooksDeleteCmd)

	adminBorrowsListCmd.Flags().String("column", "", "Only show rows whose column contains --match")
	adminBorrowsListCmd.Flags().String("match", "", "Text to look for in --column")
	adminBorrowsCmd.AddCommand(adminBorrowsListCmd, adminBorrowsApproveCmd, adminBorrowsRejectCmd, adminBorrowsReturnCmd)

	adminCmd.AddCommand(adminUsersCmd, adminBooksCmd, adminBorrowsCmd)
	rootCmd.AddCommand(adminCmd)

	// User dashboard
	booksSearchCmd.Flags().Bool("remote", false, "Search on the server instead of the local catalogue")
	booksCmd.AddCommand(booksListCmd, booksSearchCmd, booksBorrowCmd)
	borrowsCmd.AddCommand(borrowsMineCmd)
	rootCmd.AddCommand(booksCmd, borrowsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
