package discovery

// Path is the chain of normalized labels and URLs from a region down to a league.
// It is passed by value; the With methods return modified copies.
type Path struct {
	Region      string
	RegionURL   string
	District    string
	DistrictURL string
	League      string
	LeagueURL   string
}

// WithRegion returns a path rooted at the given region.
func (p Path) WithRegion(region, regionURL string) Path {
	return Path{Region: region, RegionURL: regionURL}
}

// WithDistrict returns a copy of p below the given district.
func (p Path) WithDistrict(district, districtURL string) Path {
	p.District = district
	p.DistrictURL = districtURL
	p.League = ""
	p.LeagueURL = ""
	return p
}

// WithLeague returns a copy of p below the given league.
func (p Path) WithLeague(league, leagueURL string) Path {
	p.League = league
	p.LeagueURL = leagueURL
	return p
}
