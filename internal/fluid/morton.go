package fluid

// Morton (Z-order) codes linearize the 2D cell grid into a sortable 1D index
// with locality-preserving properties. Codes are 32 bit wide, 16 bits per
// axis: x occupies the even bit positions, y the odd ones.

const (
	mortonXMask = 0x55555555 // even bits
	mortonYMask = 0xaaaaaaaa // odd bits

	// maxCellCoord bounds the representable cell coordinates; the code
	// space wraps beyond it, so positions mapping outside are rejected.
	maxCellCoord = 1<<16 - 1
)

// part1By1 spreads the low 16 bits of v so that bit i lands at position 2i.
func part1By1(v uint32) uint32 {
	v &= 0x0000ffff
	v = (v ^ (v << 8)) & 0x00ff00ff
	v = (v ^ (v << 4)) & 0x0f0f0f0f
	v = (v ^ (v << 2)) & 0x33333333
	v = (v ^ (v << 1)) & 0x55555555
	return v
}

// compact1By1 inverts part1By1: it gathers the even bits of v into the low
// 16 bits.
func compact1By1(v uint32) uint32 {
	v &= 0x55555555
	v = (v ^ (v >> 1)) & 0x33333333
	v = (v ^ (v >> 2)) & 0x0f0f0f0f
	v = (v ^ (v >> 4)) & 0x00ff00ff
	v = (v ^ (v >> 8)) & 0x0000ffff
	return v
}

func mortonEncode(x, y uint32) uint32 {
	return part1By1(x) | part1By1(y)<<1
}

func mortonDecode(code uint32) (x, y uint32) {
	return compact1By1(code), compact1By1(code >> 1)
}

// isInRectPresplit reports whether the cell of code lies inside the query
// rectangle given by pre-split min/max codes (x bits at even positions, y
// bits at odd positions). Comparing the masked interleaved bits directly is
// monotonic per axis, so no decode is needed. A code numerically between the
// rectangle's min and max code does NOT imply the cell is inside the
// rectangle; this test is what decides it.
func isInRectPresplit(code, minXBits, minYBits, maxXBits, maxYBits uint32) bool {
	xBits := code & mortonXMask
	yBits := code & mortonYMask
	return xBits >= minXBits && xBits <= maxXBits && yBits >= minYBits && yBits <= maxYBits
}

// bigMin returns the smallest Morton code greater than code that can lie
// inside the rectangle spanned by zmin and zmax (BIGMIN, Tropf & Herzog
// 1981). code must be numerically inside [zmin, zmax] and outside the
// rectangle; the result is always greater than code.
func bigMin(code, zmin, zmax uint32) uint32 {
	bigmin := zmin
	for pos := 31; pos >= 0; pos-- {
		bit := uint32(1) << uint(pos)
		dimMask := uint32(mortonXMask)
		if pos&1 == 1 {
			dimMask = mortonYMask
		}
		// Lower bits of the same dimension.
		lower := dimMask & (bit - 1)

		zBit := code&bit != 0
		minBit := zmin&bit != 0
		maxBit := zmax&bit != 0

		switch {
		case !zBit && !minBit && maxBit:
			// Rectangle straddles this bit: remember the lowest
			// in-rect code of the upper half, continue in the
			// lower half.
			bigmin = (zmin &^ lower) | bit
			zmax = (zmax &^ bit) | lower
		case !zBit && minBit:
			// Everything in the rectangle is above code.
			return zmin
		case zBit && !minBit && !maxBit:
			// Rectangle is exhausted below code.
			return bigmin
		case zBit && !minBit && maxBit:
			// Continue in the upper half of the rectangle.
			zmin = (zmin &^ lower) | bit
		default:
			// Bits agree; nothing to split.
		}
	}
	return bigmin
}
