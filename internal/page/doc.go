// Package page loads source-site pages and answers role-based queries on them.
//
// A Loader fetches a URL and returns a parsed Document. Callers never select elements
// by CSS selector directly: they ask a Document for a semantic Role (the district
// selector, the league header, the season archive, ...) and the Layout maps that role
// to the markup of the site. Anchors found inside an element are resolved to absolute
// URLs against the document URL.
package page
