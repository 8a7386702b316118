package geo

// ComputeBoundary returns the bounds of points. Extremes start at inverted
// sentinels so any real coordinate replaces them; an empty input yields
// EmptyBox unchanged.
func ComputeBoundary(points []Point) Box {
	b := EmptyBox

	for _, p := range points {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}

		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}

		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}

		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
	}

	return b
}
