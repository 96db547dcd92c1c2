// Package discovery walks the region, district, league and season levels of the
// source site and builds one matchday.SeasonRecord per season.
//
// Each level is handled by a stage method on Crawler that takes the parent Path by
// value and returns an extended copy, so no state is shared between sibling branches.
// Run drives the stages depth-first and collects the records into a matchday.Table.
package discovery
