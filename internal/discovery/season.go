package discovery

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pfrederiksen/matchday-index/internal/label"
	"github.com/pfrederiksen/matchday-index/internal/matchday"
	"github.com/pfrederiksen/matchday-index/internal/page"
)

const (
	// ArchivePageExt marks the static page of a finished season.
	ArchivePageExt = ".html"
	// FixtureSubpath leads from a season page to its fixture listing.
	FixtureSubpath = "/spielplan"
)

// Season is a classified season link: either an ArchivedSeason or a CurrentSeason.
type Season interface {
	Label() string
	MatchdayURL() string
	IsCurrent() bool

	sealed()
}

// ArchivedSeason is a finished season served as a static page.
type ArchivedSeason struct {
	Name    string
	PageURL string
}

// CurrentSeason is the running season, linked to its live listing.
type CurrentSeason struct {
	Name       string
	ListingURL string
}

func (s ArchivedSeason) Label() string   { return s.Name }
func (s ArchivedSeason) IsCurrent() bool { return false }
func (ArchivedSeason) sealed()           {}

// MatchdayURL replaces the page extension with the fixture subpath.
func (s ArchivedSeason) MatchdayURL() string {
	return withPath(s.PageURL, func(p string) string {
		return strings.TrimSuffix(p, ArchivePageExt) + FixtureSubpath
	})
}

func (s CurrentSeason) Label() string   { return s.Name }
func (s CurrentSeason) IsCurrent() bool { return true }
func (CurrentSeason) sealed()           {}

// MatchdayURL appends the fixture subpath to the listing URL.
func (s CurrentSeason) MatchdayURL() string {
	return withPath(s.ListingURL, func(p string) string {
		return strings.TrimSuffix(p, "/") + FixtureSubpath
	})
}

func withPath(raw string, fn func(string) string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.Path = fn(u.Path)
	u.RawPath = ""
	u.Fragment = ""
	return u.String()
}

// Classify decides from the link shape whether a season anchor points at an archived
// or the current season. It is the only place that inspects season hrefs.
func Classify(a page.Anchor) (Season, error) {
	if a.Href == "" {
		return nil, &StructuralError{
			Role:   page.RoleSeasonArchive,
			Detail: fmt.Sprintf("season link %q has no href", a.Text),
		}
	}

	u, err := url.Parse(a.URL)
	if a.URL == "" || err != nil {
		return nil, &DataQualityError{URL: a.Href, Reason: "season href is not a valid URL", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &DataQualityError{URL: a.URL, Reason: "season href is not an http(s) URL"}
	}

	p := u.Path
	last := path.Base(strings.TrimSuffix(p, "/"))

	switch {
	case strings.HasSuffix(p, ArchivePageExt):
		return ArchivedSeason{Name: a.Text, PageURL: a.URL}, nil
	case strings.Contains(p, ArchivePageExt), strings.Contains(last, "."):
		return nil, &DataQualityError{URL: a.URL, Reason: "unrecognized season href shape"}
	default:
		return CurrentSeason{Name: a.Text, ListingURL: a.URL}, nil
	}
}

// BuildRecord classifies a season anchor and combines it with the league path into a
// finished record.
func BuildRecord(p Path, a page.Anchor) (*matchday.SeasonRecord, error) {
	s, err := Classify(a)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w", p.LeagueURL, err)
	}

	season := label.Season(s.Label())
	if season == "" {
		return nil, &DataQualityError{URL: a.URL, Reason: "season label is empty"}
	}

	return &matchday.SeasonRecord{
		Region:        p.Region,
		RegionURL:     p.RegionURL,
		District:      p.District,
		DistrictURL:   p.DistrictURL,
		League:        p.League,
		LeagueURL:     p.LeagueURL,
		Season:        season,
		MatchdayURL:   s.MatchdayURL(),
		CurrentSeason: s.IsCurrent(),
		Done:          false,
		ID:            matchday.BuildID(p.Region, p.District, p.League, season),
	}, nil
}
