package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/matchday-index/internal/config"
	"github.com/pfrederiksen/matchday-index/internal/discovery"
	"github.com/pfrederiksen/matchday-index/internal/logger"
	"github.com/pfrederiksen/matchday-index/internal/matchday"
	"github.com/pfrederiksen/matchday-index/internal/page"
	"github.com/pfrederiksen/matchday-index/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitSkipped = 3
)

// ErrNodesSkipped is returned when a --keep-going run skipped at least one node. The
// table has been written in that case.
var ErrNodesSkipped = errors.New("some pages were skipped")

var (
	flagConfig  string
	flagSummary string
	flagSort    string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matchday-index",
		Short: "Discover matchday schedule URLs for every league season of a region",
		Long: `Walks the region, district, league and season pages of fupa.net and writes one
row per season with the URL where its matchday schedule begins and a unique
matchday id built from the normalized region, district, league and season names.`,
		RunE:          runDiscover,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default ./matchday.yaml if present)")
	cmd.Flags().StringSlice("region", nil, "Region slug to crawl, repeatable (overrides site.regions)")
	cmd.Flags().String("base-url", "", "Base URL of the site")
	cmd.Flags().Int("max-seasons", 0, "Most recent seasons kept per league")
	cmd.Flags().String("data-dir", "", "Directory for the output table")
	cmd.Flags().String("output", "", "Output file name, relative to --data-dir")
	cmd.Flags().String("format", "", "Table format: csv or json")
	cmd.Flags().Bool("keep-going", false, "Skip failing pages instead of aborting the run")
	cmd.Flags().StringVar(&flagSummary, "summary", string(SummaryText), "Summary on stdout: text, table, json or none")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDiscovery), "Row order of the table summary: discovery, id or league")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// flag name -> config key
var flagKeys = map[string]string{
	"region":      "site.regions",
	"base-url":    "site.base_url",
	"max-seasons": "discovery.max_seasons",
	"data-dir":    "output.data_dir",
	"output":      "output.file",
	"format":      "output.format",
	"keep-going":  "discovery.keep_going",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// runDiscover is the main command logic
func runDiscover(cmd *cobra.Command, args []string) error {
	summaryFormat := SummaryFormat(strings.ToLower(flagSummary))
	if !summaryFormat.valid() {
		return fmt.Errorf("invalid summary: %s (must be 'text', 'table', 'json' or 'none')", flagSummary)
	}
	sortOrder := SortOrder(strings.ToLower(flagSort))
	if !sortOrder.valid() {
		return fmt.Errorf("invalid sort: %s (must be 'discovery', 'id' or 'league')", flagSort)
	}

	v := config.NewViper(flagConfig)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v, flagConfig != "")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(log)

	store, err := storage.New(cfg.Output.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	layout, err := cfg.Layout()
	if err != nil {
		return fmt.Errorf("building page layout: %w", err)
	}
	loader := page.NewHTTPLoader(
		page.WithClient(&http.Client{Timeout: cfg.Site.Timeout}),
		page.WithUserAgent(cfg.Site.UserAgent),
		page.WithLayout(layout),
	)
	crawler := discovery.New(loader, cfg.DiscoveryOptions(), log)

	log.Info("Starting discovery", logger.Fields{
		"base_url":    cfg.Site.BaseURL,
		"regions":     cfg.Site.Regions,
		"max_seasons": cfg.Discovery.MaxSeasons,
		"keep_going":  cfg.Discovery.KeepGoing,
	})

	logger.ResetMetrics()
	start := time.Now()
	res, err := crawler.Run(cmd.Context(), cfg.Site.Regions)
	if err != nil {
		return fmt.Errorf("discovering matchdays (kind %s): %w", discovery.Kind(err), err)
	}

	changes := compareWithPrevious(store, res.Table, cfg, log)

	path, err := store.SaveTable(res.Table, cfg.Output.File, cfg.Output.Format)
	if err != nil {
		return fmt.Errorf("saving table: %w", err)
	}
	log.Info("Saved table", logger.Fields{
		"path":     path,
		"rows":     res.Table.Len(),
		"duration": time.Since(start).String(),
	})

	summary := NewSummary(res, path, logger.GetMetricsSnapshot())
	summary.Changes = changes
	if err := WriteSummary(cmd.OutOrStdout(), summary, summaryFormat, sortOrder); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if len(res.Skipped) > 0 {
		return ErrNodesSkipped
	}
	return nil
}

// compareWithPrevious diffs the new table against the one a previous run left at the
// output location. It returns nil when there is nothing readable to compare with.
func compareWithPrevious(store *storage.Storage, table *matchday.Table, cfg *config.Config, log *logger.Logger) *matchday.DiffResult {
	previous, err := store.LoadTable(cfg.Output.File, cfg.Output.Format)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Ignoring unreadable previous table", logger.Fields{"error": err.Error()})
		}
		return nil
	}

	diff := matchday.Diff(previous, table)
	log.Info("Compared with previous table", logger.Fields{
		"added":   len(diff.Added),
		"removed": len(diff.Removed),
		"changed": len(diff.Changed),
	})
	return diff
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrNodesSkipped):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		os.Exit(ExitSkipped)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
