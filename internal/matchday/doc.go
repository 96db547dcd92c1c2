// Package matchday provides the season records produced by a discovery run.
//
// A SeasonRecord describes one season of one league together with its full
// region/district/league path and the URL where the matchday schedule begins. Records
// are keyed by a composite identifier built from the normalized labels of all four
// navigation levels. A Table collects records in discovery order and rejects
// duplicate identifiers.
package matchday
