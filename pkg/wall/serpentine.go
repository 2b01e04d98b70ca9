package wall

// BuildPath returns the serpentine visiting order of every module in the
// grid described by ax.
//
// Lines are visited in index order and alternate direction, so the end of
// one line is always next to the start of the following one. With a
// reversed pattern (horizontal-left, vertical-up) the first line runs
// backwards.
func BuildPath(ax Axis, reversed bool) []Cell {
	path := make([]Cell, 0, ax.NumLines*ax.LineSize)
	for line := range ax.NumLines {
		forward := (line%2 == 0) != reversed
		for pos := range ax.LineSize {
			at := pos
			if !forward {
				at = ax.LineSize - 1 - pos
			}
			if ax.Horizontal {
				path = append(path, Cell{Row: line, Col: at, Line: line})
			} else {
				path = append(path, Cell{Row: at, Col: line, Line: line})
			}
		}
	}
	return path
}
