package discovery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/matchday-index/internal/page"
)

func wrapPage(body string) string {
	return "<html><body>" + body + "</body></html>"
}

func districtSelector(links string) string {
	return wrapPage(`<table><tr><td class="kreise_select"><div>` + links + `</div></td></tr></table>`)
}

func TestDistricts(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    []string
		wantErr bool
	}{
		{
			name: "fixture region",
			html: fixture(t, "region.html"),
			want: []string{testDistrictURL},
		},
		{
			name: "only self link leaves empty list",
			html: districtSelector(`<a href="/mittelrhein">Mittelrhein</a>`),
			want: []string{},
		},
		{
			name: "self link with trailing slash removed",
			html: districtSelector(`<a href="/mittelrhein/">Mittelrhein</a><a href="/mittelrhein/bonn">Bonn</a>`),
			want: []string{testBaseURL + "/mittelrhein/bonn"},
		},
		{
			name: "anchors without href or text ignored, duplicates collapsed",
			html: districtSelector(`<a>Berg</a><a href="/mittelrhein/berg"></a><a href="/mittelrhein/sieg">Sieg</a><a href="/mittelrhein/sieg">Sieg</a>`),
			want: []string{testBaseURL + "/mittelrhein/sieg"},
		},
		{
			name:    "missing selector is a structural error",
			html:    wrapPage(`<p>Wartungsarbeiten</p>`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{pages: map[string]string{testRegionURL: tt.html}}
			c := newTestCrawler(loader, Options{})

			path, urls, err := c.Districts(context.Background(), "mittelrhein")

			if tt.wantErr {
				var structErr *StructuralError
				if !errors.As(err, &structErr) {
					t.Fatalf("Districts() error = %v, want *StructuralError", err)
				}
				if structErr.Role != page.RoleDistrictSelector {
					t.Errorf("StructuralError.Role = %v, want %v", structErr.Role, page.RoleDistrictSelector)
				}
				return
			}
			if err != nil {
				t.Fatalf("Districts() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(urls, tt.want) {
				t.Errorf("Districts() = %v, want %v", urls, tt.want)
			}
			if path.Region != "mittelrhein" || path.RegionURL != testRegionURL {
				t.Errorf("Districts() path = %+v", path)
			}
		})
	}
}

func TestDistricts_FetchError(t *testing.T) {
	c := newTestCrawler(&fakeLoader{}, Options{})

	_, _, err := c.Districts(context.Background(), "mittelrhein")

	var fetchErr *page.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Districts() error = %v, want *page.FetchError", err)
	}
}

func TestLeagues(t *testing.T) {
	loader := fixtureLoader(t)
	c := newTestCrawler(loader, Options{})
	parent := Path{}.WithRegion("mittelrhein", testRegionURL)

	path, urls, err := c.Leagues(context.Background(), parent, testDistrictURL)
	if err != nil {
		t.Fatalf("Leagues() error: %v", err)
	}

	want := []string{testLeagueURL}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("Leagues() = %v, want %v", urls, want)
	}
	if path.District != "koln" || path.DistrictURL != testDistrictURL {
		t.Errorf("Leagues() path = %+v", path)
	}
	if path.Region != "mittelrhein" {
		t.Errorf("Leagues() lost region: %+v", path)
	}
	if parent.District != "" {
		t.Errorf("Leagues() modified parent path: %+v", parent)
	}
}

func TestLeagues_ExcludedKeywords(t *testing.T) {
	html := wrapPage(`
		<table><tr><td class="kreise_select"><div><a href="/mittelrhein/koeln"><span>Köln</span></a></div></td></tr></table>
		<table><tr><td class="liga-select first-selected"><div>
			<a href="/liga/kreispokal-koeln">Kreispokal</a>
			<a href="/liga/hallenmasters">Hallenmasters</a>
			<a href="/liga/supercup">Supercup</a>
			<a href="/liga/Stadt-POKAL">Stadtpokal</a>
		</div></td></tr></table>`)

	loader := &fakeLoader{pages: map[string]string{testDistrictURL: html}}
	c := newTestCrawler(loader, Options{})

	_, urls, err := c.Leagues(context.Background(), Path{}, testDistrictURL)
	if err != nil {
		t.Fatalf("Leagues() error: %v", err)
	}
	for _, u := range urls {
		for _, kw := range DefaultExcludedLeagueKeywords {
			if strings.Contains(strings.ToLower(u), kw) {
				t.Errorf("Leagues() kept excluded URL %s", u)
			}
		}
	}
	if len(urls) != 0 {
		t.Errorf("Leagues() = %v, want none", urls)
	}
}

func TestLeagues_StructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantRole page.Role
	}{
		{
			name:     "no district header",
			html:     wrapPage(`<table><tr><td class="liga-select first-selected"><div><a href="/liga/x">X</a></div></td></tr></table>`),
			wantRole: page.RoleDistrictName,
		},
		{
			name: "no first-selected league tab",
			html: wrapPage(`
				<table><tr><td class="kreise_select"><div><a href="/k"><span>Köln</span></a></div></td></tr></table>
				<table><tr><td class="liga-select"><div><a href="/liga/x">X</a></div></td></tr></table>`),
			wantRole: page.RoleLeagueSelector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{pages: map[string]string{testDistrictURL: tt.html}}
			c := newTestCrawler(loader, Options{})

			_, _, err := c.Leagues(context.Background(), Path{}, testDistrictURL)

			var structErr *StructuralError
			if !errors.As(err, &structErr) {
				t.Fatalf("Leagues() error = %v, want *StructuralError", err)
			}
			if structErr.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", structErr.Role, tt.wantRole)
			}
			if structErr.URL != testDistrictURL {
				t.Errorf("URL = %q, want %q", structErr.URL, testDistrictURL)
			}
		})
	}
}

func TestSeasons(t *testing.T) {
	tests := []struct {
		name       string
		maxSeasons int
		wantCount  int
	}{
		{"default cap", 0, DefaultMaxSeasons},
		{"custom cap", 2, 2},
		{"cap above available", 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCrawler(fixtureLoader(t), Options{MaxSeasons: tt.maxSeasons})

			path, seasons, err := c.Seasons(context.Background(), Path{}, testLeagueURL)
			if err != nil {
				t.Fatalf("Seasons() error: %v", err)
			}
			if len(seasons) != tt.wantCount {
				t.Errorf("Seasons() returned %d anchors, want %d", len(seasons), tt.wantCount)
			}
			if seasons[0].Text != "2020/2021" {
				t.Errorf("first season = %q, want most recent 2020/2021", seasons[0].Text)
			}
			if path.League != "kreisliga_a_koln" {
				t.Errorf("league = %q, want kreisliga_a_koln", path.League)
			}
			if path.LeagueURL != testLeagueURL {
				t.Errorf("league URL = %q", path.LeagueURL)
			}
		})
	}
}

func TestSeasons_StructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantRole page.Role
	}{
		{
			name:     "no header",
			html:     wrapPage(`<table class="liga_tabelle_archiv"><tr><td><a href="/liga/x">2020/2021</a></td></tr></table>`),
			wantRole: page.RoleLeagueName,
		},
		{
			name:     "no archive",
			html:     wrapPage(`<div class="content_team_header"><h1>Kreisliga B</h1></div>`),
			wantRole: page.RoleSeasonArchive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{pages: map[string]string{testLeagueURL: tt.html}}
			c := newTestCrawler(loader, Options{})

			_, _, err := c.Seasons(context.Background(), Path{}, testLeagueURL)

			var structErr *StructuralError
			if !errors.As(err, &structErr) {
				t.Fatalf("Seasons() error = %v, want *StructuralError", err)
			}
			if structErr.Role != tt.wantRole {
				t.Errorf("Role = %v, want %v", structErr.Role, tt.wantRole)
			}
		})
	}
}

func TestPathIsImmutable(t *testing.T) {
	region := Path{}.WithRegion("mittelrhein", testRegionURL)
	a := region.WithDistrict("koln", testDistrictURL).WithLeague("kreisliga_a", testLeagueURL)
	b := region.WithDistrict("bonn", testBaseURL+"/mittelrhein/bonn")

	if region.District != "" {
		t.Errorf("WithDistrict() modified receiver: %+v", region)
	}
	if a.District != "koln" || b.District != "bonn" {
		t.Errorf("sibling paths interfere: %+v / %+v", a, b)
	}
	if b.League != "" {
		t.Errorf("WithDistrict() kept league from another branch: %+v", b)
	}

	fresh := a.WithRegion("niederrhein", testBaseURL+"/niederrhein")
	if fresh.District != "" || fresh.League != "" {
		t.Errorf("WithRegion() kept lower levels: %+v", fresh)
	}
}
