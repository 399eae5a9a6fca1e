package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wesleywu/simconfig/internal/config"
	"github.com/wesleywu/simconfig/internal/export"
	"github.com/wesleywu/simconfig/internal/logger"
	"github.com/wesleywu/simconfig/internal/params"
	"github.com/wesleywu/simconfig/internal/watch"
	"github.com/wesleywu/simconfig/record"
)

var (
	version = "1.0.0"

	configFile  string
	silentMode  bool
	verboseMode bool

	definitionsFile string
	outputFile      string
	query           string
	tags            []string
	noRename        bool
	defines         []string
	consts          []string
	showFormat      string
	forceInit       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simconfig",
		Short: "Simulation configuration exporter",
		Long:  `Exports the simulation configuration record as constant declarations for C, C++, Rust, Fortran, shell scripts and data formats.`,
		Run:   runOnce,
	}

	renderCmd := &cobra.Command{
		Use:   "render <format>",
		Short: "Render one format",
		Long:  `Render the configuration in a single format and print it, or write it with --output.`,
		Args:  cobra.ExactArgs(1),
		Run:   renderFormat,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configuration record",
		Long:  `Print the built-in configuration record.`,
		Run:   showRecord,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export on definition changes",
		Long:  `Export once, then export again every time the definition file changes.`,
		Run:   runWatch,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show export status",
		Long:  `Show the outputs recorded by the last export.`,
		Run:   showStatus,
	}

	initCmd := &cobra.Command{
		Use:   "init [definitions-file]",
		Short: "Write the default definition file",
		Long:  `Write the built-in parameter definitions to a file, and the default configuration when --config is set.`,
		Args:  cobra.MaximumNArgs(1),
		Run:   initDefinitions,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version, build information and system details.`,
		Run:   showVersion,
	}

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Test configuration and definitions",
		Long:  `Test the configuration file, the parameter definitions and every export format.`,
		Run:   testConfiguration,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Silent mode (no output)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose mode (debug level logging)")
	rootCmd.PersistentFlags().StringVarP(&definitionsFile, "definitions", "d", "", "Parameter definition file (overrides config)")

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write to file instead of stdout")
	renderCmd.Flags().StringVar(&query, "query", "", "Parameter selection, e.g. box.* or box.width")
	renderCmd.Flags().StringSliceVar(&tags, "tag", nil, "Keep only parameters with one of these tags")
	renderCmd.Flags().BoolVar(&noRename, "no-rename", false, "Keep parameter names instead of upper-case identifiers")
	renderCmd.Flags().StringSliceVar(&defines, "define", nil, "Parameters written as #define macros in C and C++ headers")
	renderCmd.Flags().StringSliceVar(&consts, "const", nil, "Parameters declared const instead of constexpr in C++ headers")

	showCmd.Flags().StringVarP(&showFormat, "format", "f", "dip", "Output format")

	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing files")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(testCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if silentMode {
		cfg.SilentMode = true
	}

	if verboseMode {
		cfg.LogLevel = "debug"
	}

	if definitionsFile != "" {
		cfg.DefinitionFile = definitionsFile
	}

	return cfg
}

func newLogger(cfg *config.Config) *logger.Logger {
	if cfg.SilentMode {
		return logger.NewWithWriter(io.Discard, cfg.LogLevel)
	}
	return logger.New(cfg.LogLevel)
}

func definitionSource(cfg *config.Config) string {
	if cfg.DefinitionFile == "" {
		return "embedded"
	}
	return cfg.DefinitionFile
}

// loadTable loads the definitions and applies the configured selection
func loadTable(cfg *config.Config) (*params.Table, error) {
	table, err := config.LoadDefinitionsWithFallback(cfg.DefinitionFile)
	if err != nil {
		return nil, err
	}
	return table.Select(cfg.Query, cfg.Tags), nil
}

// exporter runs batch exports and keeps the export state file current
type exporter struct {
	cfg   *config.Config
	log   *logger.Logger
	state *config.ExportState
	batch *export.Batch
}

func newExporter(cfg *config.Config, log *logger.Logger) (*exporter, error) {
	formats, err := cfg.ExportFormats()
	if err != nil {
		return nil, err
	}

	state, err := config.LoadExportState(cfg.StatePath())
	if err != nil {
		log.Warn("Ignoring unreadable export state", "file", cfg.StatePath(), "error", err)
		state = config.NewExportState()
	}

	batch, err := export.NewBatch(cfg.ExportOptions(), export.BatchOptions{
		OutputDir:        cfg.OutputDir,
		BaseName:         cfg.BaseName,
		Formats:          formats,
		ConcurrencyLimit: cfg.ConcurrencyLimit,
	}, state, log)
	if err != nil {
		return nil, err
	}

	return &exporter{cfg: cfg, log: log, state: state, batch: batch}, nil
}

func (e *exporter) run(ctx context.Context) error {
	start := time.Now()

	table, err := loadTable(e.cfg)
	if err != nil {
		return fmt.Errorf("failed to load definitions: %w", err)
	}
	e.log.ConfigLoaded(configFile, definitionSource(e.cfg), table.Len(), len(e.cfg.Formats))

	if table.Len() == 0 {
		e.log.Warn("Selection matched no parameters", "query", e.cfg.Query, "tags", e.cfg.Tags)
	}

	_, runErr := e.batch.Run(ctx, table)

	if err := e.state.Save(e.cfg.StatePath()); err != nil {
		e.log.Error("Failed to save export state", "file", e.cfg.StatePath(), "error", err)
	}

	renders, written, skipped, failed, avg := e.batch.Metrics().GetStats()
	e.log.Performance("export", map[string]interface{}{
		"renders":         renders,
		"written":         written,
		"skipped":         skipped,
		"failed":          failed,
		"avg_render_ms":   avg.Milliseconds(),
		"run_duration_ms": time.Since(start).Milliseconds(),
	})

	return runErr
}

func runOnce(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := newLogger(cfg)
	log.Info("Starting configuration export", "version", version)

	ex, err := newExporter(cfg, log)
	if err != nil {
		log.Error("Failed to create exporter", "error", err)
		os.Exit(1)
	}

	if err := ex.run(context.Background()); err != nil {
		log.Error("Export failed", "error", err)
		os.Exit(1)
	}

	log.Info("Export completed successfully", "output_dir", cfg.OutputDir)
}

// renderOptions applies the render flags over the configured options
func renderOptions(cfg *config.Config) export.Options {
	opts := cfg.ExportOptions()
	if noRename {
		opts.Rename = false
	}
	if len(defines) > 0 {
		opts.Define = defines
	}
	if len(consts) > 0 {
		opts.Const = consts
	}
	return opts
}

func renderFormat(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	f, err := export.ParseFormat(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	table, err := config.LoadDefinitionsWithFallback(cfg.DefinitionFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load definitions: %v\n", err)
		os.Exit(1)
	}

	opts := renderOptions(cfg)

	selQuery, selTags := cfg.Query, cfg.Tags
	if query != "" {
		selQuery = query
	}
	if len(tags) > 0 {
		selTags = tags
	}

	session := export.NewSession(table, opts)
	session.Select(selQuery, selTags)

	text, err := session.Render(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render %s: %v\n", f, err)
		os.Exit(1)
	}

	if outputFile == "" {
		fmt.Println(text)
		return
	}

	changed, err := session.Save(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	if !silentMode {
		if changed {
			fmt.Printf("Wrote %s\n", outputFile)
		} else {
			fmt.Printf("%s is up to date\n", outputFile)
		}
	}
}

func showRecord(_ *cobra.Command, _ []string) {
	f, err := export.ParseFormat(showFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	text, err := export.Render(params.FromRecord(record.Default()), f, export.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render record: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(text)
}

func runWatch(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := newLogger(cfg)

	if cfg.DefinitionFile == "" {
		log.Error("Watch mode requires a definition file")
		os.Exit(1)
	}

	ex, err := newExporter(cfg, log)
	if err != nil {
		log.Error("Failed to create exporter", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ex.run(ctx); err != nil {
		log.Error("Initial export failed", "error", err)
	}

	w, err := watch.New(cfg.DefinitionFile, cfg.WatchDebounce, ex.run, log)
	if err != nil {
		log.Error("Failed to create watcher", "error", err)
		os.Exit(1)
	}

	if err := w.Start(ctx); err != nil {
		log.Error("Failed to start watcher", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	w.Stop()

	stats := w.Stats()
	log.Info("Watcher statistics", "events", stats.Events, "reloads", stats.Reloads, "errors", stats.Errors)
}

func showStatus(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	state, err := config.LoadExportState(cfg.StatePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load export state: %v\n", err)
		os.Exit(1)
	}

	if !state.HasPreviousState() {
		fmt.Printf("No exports recorded in %s\n", cfg.StatePath())
		return
	}

	fmt.Printf("Last run: %s\n", state.LastRun.Format(time.RFC3339))
	for _, path := range state.Paths() {
		out, _ := state.Output(path)
		current := "missing"
		if data, err := os.ReadFile(path); err == nil {
			current = "modified"
			if export.Fingerprint(data) == out.Fingerprint {
				current = "up to date"
			}
		}
		fmt.Printf("  %-8s %s (%d parameters, %s) %s\n",
			out.Format, path, out.Parameters, out.LastUpdate.Format(time.RFC3339), current)
	}
}

func initDefinitions(_ *cobra.Command, args []string) {
	target := "definitions.yaml"
	if len(args) > 0 {
		target = args[0]
	}

	if err := writeNew(target, config.EmbeddedDefinitions()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write definitions: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Definitions written to %s\n", target)

	if configFile == "" {
		return
	}

	if _, err := os.Stat(configFile); err == nil && !forceInit {
		fmt.Fprintf(os.Stderr, "Config %s already exists, use --force to overwrite\n", configFile)
		os.Exit(1)
	}

	cfg := config.NewDefaultConfig()
	cfg.DefinitionFile = target
	if err := cfg.Save(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration written to %s\n", configFile)
}

func writeNew(path string, data []byte) error {
	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return export.ReplaceFile(path, data)
}

func showVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("Simulation Config Exporter v%s\n", version)
	fmt.Printf("Runtime: %s\n", runtime.Version())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	names := export.FormatNames()
	sort.Strings(names)
	fmt.Printf("Formats: %v\n", names)
}

func testConfiguration(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	log := newLogger(cfg)
	log.Debug("Starting configuration test")
	fmt.Println("✅ Configuration loaded successfully")

	formats, err := cfg.ExportFormats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid formats: %v\n", err)
		os.Exit(1)
	}

	table, err := loadTable(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load definitions: %v\n", err)
		os.Exit(1)
	}
	log.Debug("Definition loading details", "file", definitionSource(cfg), "parameters", table.Names())
	fmt.Printf("✅ Definitions loaded from %s: %d parameters selected\n", definitionSource(cfg), table.Len())

	failed := 0
	for _, f := range formats {
		if _, err := export.Render(table, f, cfg.ExportOptions()); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %v\n", f, err)
			failed++
			continue
		}
		fmt.Printf("✅ %s renders\n", f)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "❌ %d of %d formats failed\n", failed, len(formats))
		os.Exit(1)
	}

	fmt.Println("✅ All tests passed")
}
