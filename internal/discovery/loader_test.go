package discovery

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pfrederiksen/matchday-index/internal/logger"
	"github.com/pfrederiksen/matchday-index/internal/page"
)

const (
	testBaseURL     = "https://www.fupa.net"
	testRegionURL   = testBaseURL + "/mittelrhein"
	testDistrictURL = testBaseURL + "/mittelrhein/koeln"
	testLeagueURL   = testBaseURL + "/liga/kreisliga-a-koeln"
)

// fakeLoader serves HTML from memory. Unknown URLs fail with a 404 FetchError.
type fakeLoader struct {
	pages  map[string]string
	loaded []string
}

func (f *fakeLoader) Load(ctx context.Context, url string) (*page.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &page.FetchError{URL: url, Err: err}
	}
	f.loaded = append(f.loaded, url)

	html, ok := f.pages[url]
	if !ok {
		return nil, &page.FetchError{URL: url, StatusCode: 404}
	}
	return page.Parse(strings.NewReader(html), url, page.DefaultLayout)
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func fixtureLoader(t *testing.T) *fakeLoader {
	return &fakeLoader{pages: map[string]string{
		testRegionURL:   fixture(t, "region.html"),
		testDistrictURL: fixture(t, "district.html"),
		testLeagueURL:   fixture(t, "league.html"),
	}}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.LevelError, &strings.Builder{})
}

func newTestCrawler(loader page.Loader, opts Options) *Crawler {
	if opts.BaseURL == "" {
		opts.BaseURL = testBaseURL
	}
	return New(loader, opts, quietLogger())
}
