package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhammadzahi/nl-camel/internal/config"
	"github.com/mhammadzahi/nl-camel/internal/crawler"
	"github.com/mhammadzahi/nl-camel/internal/database"
	"github.com/mhammadzahi/nl-camel/internal/detector"
	"github.com/mhammadzahi/nl-camel/internal/pipeline"
	"github.com/mhammadzahi/nl-camel/internal/report"
	"github.com/mhammadzahi/nl-camel/internal/source"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [domain...]",
		Short: "Crawl domains and detect newsletter offerings",
		Long: `Scan crawls each domain's likely pages and records whether the site
offers a newsletter subscription.

For every domain it fetches the root page and a few candidate paths
(/newsletter, /subscribe, /contact, /about), scores each page against
form, text pattern, and provider signals, and writes one CSV row per
domain with the classification and supporting signals.

Examples:
  # Scan the top of the default ranked list
  nlcamel scan

  # Scan an explicit set of domains
  nlcamel scan example.com example.org

  # Narrow the run and raise concurrency
  nlcamel scan --max-domains 500 --workers 50

  # Keep results in the history database too
  nlcamel scan --db`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of domains processed concurrently")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().IntP("max-domains", "n", config.DefaultMaxDomains,
		"Maximum number of domains to process")
	cmd.Flags().BoolP("insecure", "k", false,
		"Skip TLS certificate verification")

	// Domain source flags
	cmd.Flags().String("list-url", config.DefaultListURL,
		"URL of the zipped ranked domain list")
	cmd.Flags().Int("list-size", config.DefaultListSize,
		"How many top-ranked domains to take from the list")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"CSV file for detection results")
	cmd.Flags().Bool("db", false,
		"Also save results to the history database (XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nlcamel.yaml in current or XDG config directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation stops dispatching new domains; in-flight fetches finish
	// so their rows still land in the CSV.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing in-flight domains...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
// Precedence: defaults < config file < CLI flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the config file first so explicitly-set flags override it.
	// If the user explicitly specified a config file path, error if not
	// found. If no path specified, silently skip when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if cmd.Flags().Changed("workers") || cfg.Workers == 0 {
		cfg.Workers, err = cmd.Flags().GetInt("workers")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") || cfg.Timeout == 0 {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-domains") || cfg.MaxDomains == 0 {
		cfg.MaxDomains, err = cmd.Flags().GetInt("max-domains")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("list-url") || cfg.ListURL == "" {
		cfg.ListURL, err = cmd.Flags().GetString("list-url")
		if err != nil {
			return nil, err
		}
	}

	cfg.ListSize, err = cmd.Flags().GetInt("list-size")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("output") || cfg.OutputFile == "" {
		cfg.OutputFile, err = cmd.Flags().GetString("output")
		if err != nil {
			return nil, err
		}
	}

	cfg.Insecure, err = cmd.Flags().GetBool("insecure")
	if err != nil {
		return nil, err
	}

	saveToDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return nil, err
	}
	if saveToDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are explicit domains and win over any list.
	if len(args) > 0 {
		cfg.Domains = args
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// newHTTPClient builds the shared HTTP client for list download and crawling.
func newHTTPClient(cfg *config.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Opt-in via --insecure
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

// runScan executes the crawl.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"workers", cfg.Workers,
		"maxDomains", cfg.MaxDomains,
		"output", cfg.OutputFile,
		"saveToDB", cfg.SaveToDB,
	)

	client := newHTTPClient(cfg)

	// Resolve the domain source: explicit domains win over the ranked list.
	var src source.Source
	if len(cfg.Domains) > 0 {
		src = source.FromDomains(cfg.Domains)
	} else {
		src = source.New(ctx, client, cfg.ListURL, cfg.ListSize, cfg.MaxDomains, logger)
	}
	src = source.Limit(src, cfg.MaxDomains)

	// The CSV writer is the primary sink; the database is optional.
	writer, err := report.OpenSiteWriter(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to open result file: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("failed to close result file", "error", err)
		}
	}()

	var sink report.Sink = writer
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
		sink = report.NewMultiSink(writer, db)
	}

	explorer := crawler.NewExplorer(client, detector.NewEngine(),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	batch := pipeline.NewBatch(explorer, sink,
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithReportEvery(cfg.ReportEvery),
		pipeline.WithBatchLogger(logger),
	)

	start := time.Now()
	snap := batch.Process(ctx, src)

	fmt.Printf("Crawl completed in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("%s\n", snap.String())
	fmt.Printf("Results written to %s\n", cfg.OutputFile)

	return nil
}
