// Package feed loads the static parts of a GTFS schedule that the
// visualizations draw: stops, trips with their stop sequences, and shapes.
//
// A feed source is a local .zip file, a directory of .txt files, or an
// http(s) URL pointing at a zip. See [Load].
package feed
