// Package geo maps geographic coordinates onto a fixed-size drawing canvas.
//
// The model is a plain linear normalization, not a map projection:
//
//   - [Point]: a (longitude, latitude) pair in degrees
//   - [Box]: the axis-aligned bounds of a point set, see [ComputeBoundary]
//   - [Projection]: a Box plus the usable draw extent derived by [CanvasSize]
//
// # Canvas Space
//
// Projected coordinates are centered on the origin: longitude spans
// [-DrawWidth/2, DrawWidth/2] and latitude spans [-DrawHeight/2, DrawHeight/2],
// with latitude growing upwards. Renderers translate this into their own
// screen space.
//
// # Degenerate Geometry
//
// A box with zero (or negative) extent on either axis cannot produce a scale.
// [CanvasSize] reports [ErrDegenerateGeometry]; callers that prefer to keep
// drawing use [ProjectionWithFallback], which substitutes [FallbackScale].
package geo
