package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"yana/cmd/yana/config"
	"yana/internal/api"
	"yana/internal/logging"
	"yana/internal/store"
)

var (
	// Global flags
	verbose  bool
	apiHost  string
	jsonOut  bool
	theme    string
	debug    bool

	// Logger for the non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yana",
	Short: "Yana Studio - workflow generation client for government services",
	Long: `Yana Studio turns a business requirement into a reviewable service
design: candidate workflows, screen definitions, and a rendered flow
diagram, all produced by the Yana backend pipeline.

Run without arguments to start the interactive studio.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive studio has its own UI; zap would fight the
		// terminal, so it logs to files via the logging package instead.
		if cmd.Name() == "yana" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudio()
	},
}

// queryCmd runs a single submission without the studio UI
var queryCmd = &cobra.Command{
	Use:   "query [business requirement]",
	Short: "Submit one business requirement and print the result",
	Long: `Sends the requirement text to the backend and prints a summary of
the proposed service, or the full response as JSON with --json.

Example:
  yana query "оформлення субсидії на комунальні послуги"
  yana query --json "запис дитини до садочка"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

// historyCmd lists earlier submissions from the local store
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submissions",
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiHost, "host", "", "backend host (overrides config)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "color theme: light or dark")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug file logging")

	queryCmd.Flags().BoolVar(&jsonOut, "json", false, "print the raw response JSON")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers the CLI flags over the file and environment config.
func loadConfig() config.Config {
	cfg, _ := config.Load()
	if apiHost != "" {
		cfg.APIHost = apiHost
	}
	if theme != "" {
		cfg.Theme = theme
	}
	if debug {
		cfg.Debug = true
	}
	return cfg
}

// newBackend builds the API client from the resolved config.
func newBackend(cfg config.Config) *api.Client {
	return api.NewClient(api.Config{
		Host:     cfg.APIHost,
		Username: cfg.Username,
		Password: cfg.Password,
	})
}

// openHistory opens the submission store. Failures are non-fatal: the
// studio works fine without history.
func openHistory() *store.History {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	h, err := store.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		logging.Store("history unavailable: %v", err)
		return nil
	}
	return h
}

// runStudio launches the interactive studio.
func runStudio() error {
	cfg := loadConfig()

	if dir, err := config.Dir(); err == nil {
		if err := logging.Initialize(dir, cfg.Debug); err != nil {
			// The TUI owns the terminal from here on; say it once now.
			fmt.Fprintf(os.Stderr, "warning: debug logging unavailable: %v\n", err)
		}
		defer logging.CloseAll()
	}

	history := openHistory()
	if history != nil {
		defer history.Close()
	}

	model := newStudioModel(cfg, newBackend(cfg), history)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("studio failed: %w", err)
	}
	return nil
}

// runQuery performs a one-shot submission.
func runQuery(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	query := strings.Join(args, " ")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("submitting query",
		zap.String("host", cfg.APIHost),
		zap.Int("query_len", len(query)))
	start := time.Now()

	result, err := newBackend(cfg).Submit(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	logger.Info("query complete",
		zap.Duration("took", time.Since(start)),
		zap.Int("flows", len(result.ScreenFlows)),
		zap.Int("screens", len(result.Screens)))

	if history := openHistory(); history != nil {
		if _, err := history.Save(query, result); err != nil {
			logger.Warn("history save failed", zap.Error(err))
		}
		history.Close()
	}

	if jsonOut {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Сервіс: %s\n", result.Service.Name)
	if result.Service.Summary != "" {
		fmt.Printf("  %s\n", result.Service.Summary)
	}
	fmt.Printf("\nВоркфлоу (%d):\n", len(result.ScreenFlows))
	for _, f := range result.ScreenFlows {
		marker := " "
		if result.Evaluation != nil && f.FlowSlug == result.Evaluation.RecommendedWorkflow {
			marker = "★"
		}
		fmt.Printf("  %s %-24s %s (%d екранів)\n", marker, f.FlowSlug, f.Name, len(f.Screens))
	}
	fmt.Printf("\nЕкранів загалом: %d\n", len(result.Screens))
	return nil
}

// runHistory lists recent submissions.
func runHistory(cmd *cobra.Command, args []string) error {
	history := openHistory()
	if history == nil {
		return fmt.Errorf("history store is unavailable")
	}
	defer history.Close()

	entries, err := history.Recent(20)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Історія порожня.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%4d  %s  %-30s  флоу=%d екранів=%d\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"),
			truncateQuery(e.Query, 30), e.FlowCount, e.ScreenCount)
	}
	return nil
}

func truncateQuery(q string, n int) string {
	runes := []rune(q)
	if len(runes) <= n {
		return q
	}
	return string(runes[:n-1]) + "…"
}
