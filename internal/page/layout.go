package page

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Role names a region of a page the discovery stages depend on.
type Role int

const (
	RoleDistrictSelector Role = iota // district links on a region or district page
	RoleDistrictName                 // display name of the current district
	RoleLeagueSelector               // league links of the first-selected tab
	RoleLeagueName                   // league header
	RoleSeasonArchive                // archive of past and current seasons
)

var roleNames = map[Role]string{
	RoleDistrictSelector: "district-selector",
	RoleDistrictName:     "district-name",
	RoleLeagueSelector:   "league-selector",
	RoleLeagueName:       "league-name",
	RoleSeasonArchive:    "season-archive",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole returns the role with the given name, as printed by Role.String.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown page role: %q", name)
}

// Layout maps roles to CSS selectors.
type Layout map[Role]string

// DefaultLayout matches the markup of fupa.net.
var DefaultLayout = Layout{
	RoleDistrictSelector: "td.kreise_select > div",
	RoleDistrictName:     "td.kreise_select > div a span",
	RoleLeagueSelector:   "td.liga-select.first-selected > div",
	RoleLeagueName:       "div.content_team_header h1",
	RoleSeasonArchive:    "table.liga_tabelle_archiv",
}

// Validate checks that every role has a selector that compiles. goquery silently
// matches nothing for a broken selector, so this is the only place it shows up.
func (l Layout) Validate() error {
	for role := range roleNames {
		selector := l[role]
		if selector == "" {
			return fmt.Errorf("layout has no selector for %s", role)
		}
		if _, err := cascadia.Compile(selector); err != nil {
			return fmt.Errorf("selector for %s: %w", role, err)
		}
	}
	return nil
}
