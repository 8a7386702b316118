// Package viz turns a GTFS feed into animated frames and shows them in the
// terminal.
//
// A [Visualization] owns all per-run state and produces one [Frame] per
// tick. Three kinds exist:
//
//   - stops: nearest-stop traversal drawn as accumulating dots
//   - trips: a single trip's shape and stops with a caption
//   - audio: one stop per frame, its name played as a chord
//
// Frames hold plain canvas-space geometry (origin at the centre, y up), so
// the same frames feed the braille [Model], the raylib window and the SVG
// exporter.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Advance one frame while paused
//	R     - Restart the visualization
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
