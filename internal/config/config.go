// Package config loads matchday-index settings from defaults, an optional YAML file,
// a .env file and MATCHDAY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/matchday-index/internal/discovery"
	"github.com/pfrederiksen/matchday-index/internal/page"
)

const (
	EnvPrefix      = "MATCHDAY"
	DefaultDataDir = "~/.local/share/matchday-index"
	DefaultFile    = "matchday_data.csv"
)

// Output formats understood by the storage sink.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Config holds all settings of a run
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
}

type SiteConfig struct {
	BaseURL   string            `mapstructure:"base_url"`
	Regions   []string          `mapstructure:"regions"`
	UserAgent string            `mapstructure:"user_agent"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Selectors map[string]string `mapstructure:"selectors"` // role name -> CSS selector over page.DefaultLayout
}

type DiscoveryConfig struct {
	MaxSeasons              int      `mapstructure:"max_seasons"`
	ExcludedDistrictMarkers []string `mapstructure:"excluded_district_markers"`
	ExcludedLeagueKeywords  []string `mapstructure:"excluded_league_keywords"`
	KeepGoing               bool     `mapstructure:"keep_going"`
}

type OutputConfig struct {
	DataDir string `mapstructure:"data_dir"`
	File    string `mapstructure:"file"`
	Format  string `mapstructure:"format"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", discovery.DefaultBaseURL)
	v.SetDefault("site.regions", discovery.DefaultRegions)
	v.SetDefault("site.user_agent", page.UserAgent)
	v.SetDefault("site.timeout", page.Timeout)

	v.SetDefault("discovery.max_seasons", discovery.DefaultMaxSeasons)
	v.SetDefault("discovery.excluded_district_markers", discovery.DefaultExcludedDistrictMarkers)
	v.SetDefault("discovery.excluded_league_keywords", discovery.DefaultExcludedLeagueKeywords)
	v.SetDefault("discovery.keep_going", false)

	v.SetDefault("output.data_dir", DefaultDataDir)
	v.SetDefault("output.file", DefaultFile)
	v.SetDefault("output.format", FormatCSV)

	v.SetDefault("log.level", "info")
}

// NewViper returns a viper instance with defaults and environment binding. When
// cfgFile is empty, matchday.yaml is looked up in the working directory and ./config.
func NewViper(cfgFile string) *viper.Viper {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("matchday")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// Load reads the optional .env and config files into v and decodes the result. A
// missing config file is not an error unless it was named explicitly.
func Load(v *viper.Viper, explicit bool) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Site.Regions = splitList(cfg.Site.Regions)
	cfg.Discovery.ExcludedDistrictMarkers = splitList(cfg.Discovery.ExcludedDistrictMarkers)
	cfg.Discovery.ExcludedLeagueKeywords = splitList(cfg.Discovery.ExcludedLeagueKeywords)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.File == DefaultFile && cfg.Output.Format == FormatJSON {
		cfg.Output.File = strings.TrimSuffix(DefaultFile, ".csv") + ".json"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid site.base_url: %q", c.Site.BaseURL)
	}
	if len(c.Site.Regions) == 0 {
		return errors.New("site.regions must name at least one region")
	}
	for _, r := range c.Site.Regions {
		if strings.ContainsAny(r, "/ ") {
			return fmt.Errorf("invalid region slug: %q", r)
		}
	}
	if c.Discovery.MaxSeasons <= 0 {
		return fmt.Errorf("discovery.max_seasons must be positive, got %d", c.Discovery.MaxSeasons)
	}
	if c.Output.Format != FormatCSV && c.Output.Format != FormatJSON {
		return fmt.Errorf("invalid output.format: %s (must be 'csv' or 'json')", c.Output.Format)
	}
	if c.Output.File == "" {
		return errors.New("output.file must not be empty")
	}
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("invalid site.selectors: %w", err)
	}
	return nil
}

// Layout returns page.DefaultLayout with the configured selector overrides applied.
func (c *Config) Layout() (page.Layout, error) {
	layout := make(page.Layout, len(page.DefaultLayout))
	for role, selector := range page.DefaultLayout {
		layout[role] = selector
	}

	for name, selector := range c.Site.Selectors {
		role, err := page.ParseRole(name)
		if err != nil {
			return nil, err
		}
		layout[role] = strings.TrimSpace(selector)
	}

	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// DiscoveryOptions converts the config into crawler options.
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		BaseURL:                 c.Site.BaseURL,
		MaxSeasons:              c.Discovery.MaxSeasons,
		ExcludedDistrictMarkers: c.Discovery.ExcludedDistrictMarkers,
		ExcludedLeagueKeywords:  c.Discovery.ExcludedLeagueKeywords,
		KeepGoing:               c.Discovery.KeepGoing,
	}
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
