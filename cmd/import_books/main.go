package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"library-console/api"
	"library-console/config"
	"library-console/console"
	"library-console/library"
)

// creator is the part of the API the importer needs.
type creator interface {
	CreateBook(ctx context.Context, book api.NewBook) error
	ListBooks(ctx context.Context) ([]library.Book, error)
}

type importResult struct {
	imported int
	failed   int
}

var rootCmd = &cobra.Command{
	Use:   "import_books --file books.csv",
	Short: "Bulk-create books from a CSV file as the logged-in admin",
	Long: `Reads a CSV file whose header names the columns title, author, isbn,
category and available_copies (any order, extra columns ignored) and creates
one book per line through the API, using the session stored by lms login.`,
	SilenceUsage: true,
	RunE:         runImport,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "CSV file to import (required)")
	rootCmd.Flags().String("state", "", "Session state file (or set LMS_STATE_PATH)")
	rootCmd.Flags().String("base-url", "", "API base URL (default: the session's)")
	rootCmd.Flags().Int("workers", 4, "Concurrent create requests")
	rootCmd.Flags().Bool("dry-run", false, "Validate the file without creating anything")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
	_ = rootCmd.MarkFlagRequired("file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	state, _ := flags.GetString("state")
	base, _ := flags.GetString("base-url")
	workers, _ := flags.GetInt("workers")
	dryRun, _ := flags.GetBool("dry-run")
	verbose, _ := flags.GetBool("verbose")

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, bad, err := readBooks(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out := cmd.OutOrStdout()
	for _, e := range bad {
		fmt.Fprintf(out, "Skipping %v\n", e)
	}
	if dryRun {
		fmt.Fprintf(out, "%d valid book(s), %d invalid line(s). Nothing imported (dry run).\n", len(rows), len(bad))
		return nil
	}

	if state == "" {
		state = cfg.StatePath
	}
	sessions, err := library.NewSessionStore(state)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer sessions.Close()
	sess, err := sessions.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if err := library.Require(sess, library.PageAdmin); err != nil {
		return err
	}
	for _, b := range []string{sess.BaseURL, cfg.BaseURL} {
		if base == "" {
			base = b
		}
	}

	client := api.NewClient(base,
		api.WithLogger(logger),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithToken(sess.Token),
	)
	fmt.Fprintf(out, "Importing %d book(s) into %s...\n", len(rows), client.Base())

	res := importBooks(cmd.Context(), client, rows, workers, out, logger)
	res.failed += len(bad)

	fmt.Fprintf(out, "\nImport complete!\n")
	fmt.Fprintf(out, "Successfully imported: %d books\n", res.imported)
	fmt.Fprintf(out, "Errors: %d\n", res.failed)

	if res.imported > 0 {
		books, err := client.ListBooks(cmd.Context())
		if err != nil {
			fmt.Fprintf(out, "Error retrieving books: %v\n", err)
		} else {
			fmt.Fprintln(out)
			fmt.Fprint(out, console.RenderTable(console.BookTable(books), console.PlainStyles()))
		}
	}
	if res.failed > 0 {
		return fmt.Errorf("%d book(s) not imported", res.failed)
	}
	return nil
}

// importBooks creates the rows with at most workers requests in flight. A
// failed row never stops the others; cancelling ctx does.
func importBooks(ctx context.Context, c creator, rows []bookRow, workers int, out io.Writer, logger *zap.Logger) importResult {
	var (
		mu  sync.Mutex
		res importResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, row := range rows {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err := c.CreateBook(ctx, row.Book)

			mu.Lock()
			defer mu.Unlock()
			label := fmt.Sprintf("line %d: %s by %s", row.Line, truncateString(row.Book.Title, 50), truncateString(row.Book.Author, 30))
			if err != nil {
				res.failed++
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					fmt.Fprintf(out, "%s... ERROR - %s\n", label, apiErr.Message(""))
				} else {
					fmt.Fprintf(out, "%s... ERROR - %v\n", label, err)
				}
				logger.Debug("create book failed", zap.Int("line", row.Line), zap.Error(err))
				return nil
			}
			res.imported++
			fmt.Fprintf(out, "%s... SUCCESS\n", label)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("import interrupted", zap.Error(err))
		res.failed += len(rows) - res.imported - res.failed
	}
	return res
}
