// Package label turns human-readable navigation labels into identifier fragments.
//
// District, league and season names scraped from the source site contain accents,
// hyphens, commas and free whitespace. Normalize maps them to a stable lower-case
// ASCII fragment so that composite matchday identifiers are reproducible across runs.
package label
