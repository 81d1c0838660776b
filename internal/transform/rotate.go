package transform

// outputDims returns the output buffer dimensions for a rotation of a
// width x height image: unchanged for 0/180, swapped for 90/270.
func outputDims(width, height, rotation int) (int, int) {
	if rotation == 90 || rotation == 270 {
		return height, width
	}
	return width, height
}

// rotatedIndex maps a source pixel's flat index within the original
// width x height layout to its flat index within the rotated output layout.
func rotatedIndex(flat, width, height, rotation int) int {
	x := flat % width
	y := flat / width

	switch rotation {
	case 90:
		// (x,y) -> (height-1-y, x) in a height x width output.
		return x*height + (height - 1 - y)
	case 180:
		// (x,y) -> (width-1-x, height-1-y) in a width x height output.
		return (height-1-y)*width + (width - 1 - x)
	case 270:
		// (x,y) -> (y, width-1-x) in a height x width output.
		return (width-1-x)*height + y
	default:
		return flat
	}
}
