// Package routine converts free-text routine descriptions into timed
// activities and expands them across a date range.
//
// Parsing is driven by a YAML rule table (rules.yaml, embedded): named
// templates matched by keyword, and an activity verb list used by the
// generic extractor. Parsing never yields zero activities.
package routine
