package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/enrollmate/enrollmate/internal/bridge"
	"github.com/enrollmate/enrollmate/internal/config"
	"github.com/enrollmate/enrollmate/internal/extractor"
	"github.com/enrollmate/enrollmate/internal/logger"
	"github.com/enrollmate/enrollmate/internal/shortname"
	"github.com/enrollmate/enrollmate/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1

	// DefaultPageURL is used for saved pages when --url is not given.
	DefaultPageURL = "http://localhost:5174/"
)

var (
	flagConfig     string
	flagDataDir    string
	flagShortNames string
	flagVerbose    bool

	flagInput  string
	flagURL    string
	flagFormat string
	flagSort   string
	flagDryRun bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrollmate",
		Short: "Extract course schedules from an enrollment portal page",
		Long: `A CLI tool to extract course schedules from a saved enrollment portal page.
Courses are stored locally and handed to the EnrollMate timetable app.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for stored courses")
	cmd.PersistentFlags().StringVar(&flagShortNames, "short-names", "", "Short-name table (JSON object of full name to short name)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newExtractCmd(), newShowCmd(), newHandoffCmd())
	return cmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract courses from a saved page and hand them to the app",
		RunE:  runExtract,
	}

	cmd.Flags().StringVar(&flagInput, "input", "", "Saved page HTML, or - for stdin (required)")
	cmd.Flags().StringVar(&flagURL, "url", DefaultPageURL, "URL the page was saved from")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDOM), "Sort order: dom, name, id or credits")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the handoff instead of writing the app state")

	cmd.MarkFlagRequired("input")
	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored courses",
		RunE:  runShow,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDOM), "Sort order: dom, name, id or credits")
	return cmd
}

func newHandoffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Hand the stored courses to the app again",
		RunE:  runHandoff,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the handoff instead of writing the app state")
	return cmd
}

// setup resolves configuration, logging and storage shared by all commands.
func setup(cmd *cobra.Command) (config.Config, *storage.Storage, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("short-names") {
		cfg.ShortNames = flagShortNames
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	if flagVerbose {
		logger.SetDefault(logger.NewConsole(logger.LevelDebug, cmd.ErrOrStderr()))
	} else {
		logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return cfg, store, nil
}

func newBackground(cmd *cobra.Command, cfg config.Config, store *storage.Storage) *bridge.Background {
	var consumer bridge.Consumer = bridge.NewLocalStateConsumer(cfg.ConsumerDir)
	if flagDryRun {
		consumer = bridge.NewDryRunConsumer(cmd.ErrOrStderr())
	}
	return bridge.NewBackground(store, consumer, cfg.ConsumerURL, bridge.NewAllowList(cfg.AllowedHosts...))
}

func shortNames(cfg config.Config) *shortname.Table {
	if cfg.ShortNames != "" {
		return shortname.LoadFile(cfg.ShortNames)
	}
	return shortname.Bundled()
}

func parseOutputOptions() (OutputFormat, SortOrder, error) {
	format, err := ParseFormat(flagFormat)
	if err != nil {
		return "", "", err
	}
	order, err := ParseSortOrder(flagSort)
	if err != nil {
		return "", "", err
	}
	return format, order, nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// runExtract is the main command logic
func runExtract(cmd *cobra.Command, args []string) error {
	format, order, err := parseOutputOptions()
	if err != nil {
		return err
	}
	if strings.TrimSpace(flagInput) == "" {
		return fmt.Errorf("--input is required")
	}

	cfg, store, err := setup(cmd)
	if err != nil {
		return err
	}

	in, err := openInput(cmd, flagInput)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}

	bg := newBackground(cmd, cfg, store)
	page := bridge.NewContent(flagURL, doc.Selection, extractor.New(shortNames(cfg)), store, bg)
	bg.Attach(page)

	resp := bg.Trigger()
	if !resp.Success {
		return fmt.Errorf("extraction failed: %s", resp.Error)
	}
	logger.Info(resp.Message, logger.Fields{"count": resp.Count})

	batch, err := store.LoadCourses()
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}
	return writeBatch(cmd.OutOrStdout(), cfg, batch, format, order)
}

func runShow(cmd *cobra.Command, args []string) error {
	format, order, err := parseOutputOptions()
	if err != nil {
		return err
	}

	cfg, store, err := setup(cmd)
	if err != nil {
		return err
	}

	batch, err := store.LoadCourses()
	if errors.Is(err, storage.ErrEmpty) {
		return fmt.Errorf("no stored courses, run extract first")
	}
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}
	return writeBatch(cmd.OutOrStdout(), cfg, batch, format, order)
}

func runHandoff(cmd *cobra.Command, args []string) error {
	cfg, store, err := setup(cmd)
	if err != nil {
		return err
	}

	batch, err := store.LoadCourses()
	if errors.Is(err, storage.ErrEmpty) {
		return fmt.Errorf("no stored courses, run extract first")
	}
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}

	resp := newBackground(cmd, cfg, store).Handle(bridge.Message{Type: bridge.OpenConsumer, Data: batch.Courses})
	if !resp.Success {
		return fmt.Errorf("handoff failed: %s", resp.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Handed %d courses to %s\n", resp.Count, cfg.ConsumerURL)
	return nil
}

func writeBatch(w io.Writer, cfg config.Config, batch *storage.Batch, format OutputFormat, order SortOrder) error {
	result := &OutputResult{
		StoredAt: batch.Timestamp,
		Count:    len(batch.Courses),
		Courses:  sortRecords(batch.Courses, order),
	}
	if err := WriteOutput(w, result, format, cfg, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
