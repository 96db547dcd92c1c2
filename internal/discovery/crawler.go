package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/matchday-index/internal/label"
	"github.com/pfrederiksen/matchday-index/internal/logger"
	"github.com/pfrederiksen/matchday-index/internal/page"
)

const (
	DefaultBaseURL    = "https://www.fupa.net"
	DefaultMaxSeasons = 5
)

var (
	DefaultRegions                 = []string{"mittelrhein"}
	DefaultExcludedDistrictMarkers = []string{"profi"}
	DefaultExcludedLeagueKeywords  = []string{"pokal", "hallen", "cup"}
)

// Options configures a Crawler. Zero values fall back to the defaults above.
type Options struct {
	BaseURL    string
	MaxSeasons int // most recent seasons kept per league

	// districts whose URL contains one of these are skipped (professional leagues)
	ExcludedDistrictMarkers []string
	// leagues whose URL contains one of these are skipped (cups, indoor tournaments)
	ExcludedLeagueKeywords []string

	// KeepGoing records failing nodes in Result.Skipped instead of aborting the run.
	KeepGoing bool
}

// Crawler discovers matchday URLs through a page.Loader
type Crawler struct {
	loader page.Loader
	opts   Options
	log    *logger.Logger
}

// New creates a Crawler. A nil log uses the default logger.
func New(loader page.Loader, opts Options, log *logger.Logger) *Crawler {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.MaxSeasons <= 0 {
		opts.MaxSeasons = DefaultMaxSeasons
	}
	if opts.ExcludedDistrictMarkers == nil {
		opts.ExcludedDistrictMarkers = DefaultExcludedDistrictMarkers
	}
	if opts.ExcludedLeagueKeywords == nil {
		opts.ExcludedLeagueKeywords = DefaultExcludedLeagueKeywords
	}
	if log == nil {
		log = logger.Default()
	}

	return &Crawler{loader: loader, opts: opts, log: log}
}

// RegionURL returns the landing page URL of a region slug.
func (c *Crawler) RegionURL(region string) string {
	return c.opts.BaseURL + "/" + region
}

// Districts loads the region landing page and returns the region path together with
// the URLs of its districts. Professional districts and the region's own link are
// removed.
func (c *Crawler) Districts(ctx context.Context, region string) (Path, []string, error) {
	regionURL := c.RegionURL(region)

	doc, err := c.loader.Load(ctx, regionURL)
	if err != nil {
		return Path{}, nil, fmt.Errorf("loading region %s: %w", region, err)
	}

	selector, ok := doc.FindByRole(page.RoleDistrictSelector)
	if !ok {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleDistrictSelector}
	}

	path := Path{}.WithRegion(label.Normalize(region), regionURL)

	urls := make([]string, 0)
	seen := make(map[string]bool)
	for _, a := range selector.Anchors() {
		if a.URL == "" || a.Text == "" {
			continue
		}
		if containsAny(a.URL, c.opts.ExcludedDistrictMarkers) {
			continue
		}
		// the selector links back to the region itself
		if sameURL(a.URL, regionURL) || sameURL(a.URL, doc.URL()) {
			continue
		}
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		urls = append(urls, a.URL)
	}

	return path, urls, nil
}

// Leagues loads a district page and returns the path extended by the district
// together with the URLs of the district's regular leagues.
func (c *Crawler) Leagues(ctx context.Context, parent Path, districtURL string) (Path, []string, error) {
	doc, err := c.loader.Load(ctx, districtURL)
	if err != nil {
		return Path{}, nil, fmt.Errorf("loading district: %w", err)
	}

	name, ok := doc.FindByRole(page.RoleDistrictName)
	if !ok {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleDistrictName}
	}
	district := label.Normalize(name.Text())
	if district == "" {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleDistrictName, Detail: "district name is empty"}
	}

	selector, ok := doc.FindByRole(page.RoleLeagueSelector)
	if !ok {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleLeagueSelector}
	}

	path := parent.WithDistrict(district, districtURL)

	urls := make([]string, 0)
	seen := make(map[string]bool)
	for _, a := range selector.Anchors() {
		if a.URL == "" || a.Text == "" {
			continue
		}
		if containsAny(a.URL, c.opts.ExcludedLeagueKeywords) {
			continue
		}
		if seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		urls = append(urls, a.URL)
	}

	return path, urls, nil
}

// Seasons loads a league page and returns the path extended by the league together
// with the most recent season links, newest first as listed by the site.
func (c *Crawler) Seasons(ctx context.Context, parent Path, leagueURL string) (Path, []page.Anchor, error) {
	doc, err := c.loader.Load(ctx, leagueURL)
	if err != nil {
		return Path{}, nil, fmt.Errorf("loading league: %w", err)
	}

	header, ok := doc.FindByRole(page.RoleLeagueName)
	if !ok {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleLeagueName}
	}
	league := label.Normalize(strings.ReplaceAll(header.Text(), ",", ""))
	if league == "" {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleLeagueName, Detail: "league name is empty"}
	}

	archive, ok := doc.FindByRole(page.RoleSeasonArchive)
	if !ok {
		return Path{}, nil, &StructuralError{URL: doc.URL(), Role: page.RoleSeasonArchive}
	}

	seasons := archive.Anchors()
	if len(seasons) > c.opts.MaxSeasons {
		seasons = seasons[:c.opts.MaxSeasons]
	}

	return parent.WithLeague(league, leagueURL), seasons, nil
}

// containsAny reports whether s contains any of the substrings, ignoring case.
func containsAny(s string, substrings []string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func sameURL(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
