package fluid

import (
	"fmt"
	"sort"
)

// NeighborGrid answers radius queries over particle positions without an
// O(n²) scan. The plane is partitioned into square cells of side 2·radius;
// each cell is addressed by the Morton code of its integer coordinates.
// Particle ids are kept sorted by cell code, with a compacted table of
// non-empty cells pointing into the sorted array.
//
// The grid is a derived, disposable view: it is rebuilt from scratch from
// the current positions every step and has no identity across steps.
type NeighborGrid struct {
	radius      float64
	cellSizeInv float64
	gridMin     Vec2

	entries []gridEntry
	cells   []gridCell
}

type gridEntry struct {
	id   uint32
	code uint32
}

// gridCell marks the first index in the sorted entry array belonging to a
// non-empty cell. The table is terminated by a sentinel with the maximum
// code and first == len(entries).
type gridCell struct {
	code  uint32
	first uint32
}

const sentinelCode = ^uint32(0)

// NewNeighborGrid creates an empty grid for the given interaction radius.
// The grid origin is fixed; positions must stay within the representable
// coordinate range or Build rejects them.
func NewNeighborGrid(radius float64) *NeighborGrid {
	return &NeighborGrid{
		radius:      radius,
		cellSizeInv: 1.0 / (radius * 2.0),
		gridMin:     Vec2{X: -100.0, Y: -100.0},
	}
}

func (g *NeighborGrid) cellSpace(p Vec2) (float64, float64) {
	return (p.X - g.gridMin.X) * g.cellSizeInv, (p.Y - g.gridMin.Y) * g.cellSizeInv
}

func (g *NeighborGrid) inBounds(p Vec2) bool {
	cx, cy := g.cellSpace(p)
	return cx >= 0 && cy >= 0 && cx <= maxCellCoord && cy <= maxCellCoord
}

func (g *NeighborGrid) cellCode(p Vec2) uint32 {
	cx, cy := g.cellSpace(p)
	return mortonEncode(uint32(cx), uint32(cy))
}

// clampedCellPos maps a point to cell coordinates, clamped to the grid so
// query rectangles may poke past the edge.
func (g *NeighborGrid) clampedCellPos(p Vec2) (uint32, uint32) {
	cx, cy := g.cellSpace(p)
	return clampCellCoord(cx), clampCellCoord(cy)
}

func clampCellCoord(c float64) uint32 {
	if c < 0 {
		return 0
	}
	if c > maxCellCoord {
		return maxCellCoord
	}
	return uint32(c)
}

// Build rebuilds the grid over the given positions. The particle count may
// only grow between builds; removal is unsupported and rejected before any
// state is touched, as is any position outside the representable grid.
func (g *NeighborGrid) Build(positions []Vec2) error {
	if len(positions) < len(g.entries) {
		return fmt.Errorf("%w: had %d, got %d", ErrParticleCountDecreased, len(g.entries), len(positions))
	}
	for i, p := range positions {
		if !g.inBounds(p) {
			return fmt.Errorf("%w: particle %d at (%g, %g)", ErrOutOfGridBounds, i, p.X, p.Y)
		}
	}

	for id := len(g.entries); id < len(positions); id++ {
		g.entries = append(g.entries, gridEntry{id: uint32(id)})
	}
	for i := range g.entries {
		g.entries[i].code = g.cellCode(positions[g.entries[i].id])
	}

	// Order within a cell is irrelevant, no need for a stable sort.
	sort.Slice(g.entries, func(i, j int) bool {
		return g.entries[i].code < g.entries[j].code
	})

	g.cells = g.cells[:0]
	prev := sentinelCode
	for i, e := range g.entries {
		if e.code != prev {
			g.cells = append(g.cells, gridCell{code: e.code, first: uint32(i)})
			prev = e.code
		}
	}
	g.cells = append(g.cells, gridCell{code: sentinelCode, first: uint32(len(g.entries))})
	return nil
}

// Len returns the number of indexed particles.
func (g *NeighborGrid) Len() int {
	return len(g.entries)
}

// findNextCell returns the index of the first cell with code >= want.
// Binary halving down to a small linear scan; the sentinel guarantees a hit.
func findNextCell(cells []gridCell, want uint32) int {
	const linearSearchThreshold = 16

	lo, hi := 0, len(cells)
	for hi-lo > linearSearchThreshold {
		mid := lo + (hi-lo)/2
		switch {
		case cells[mid].code < want:
			lo = mid
		case cells[mid].code > want:
			hi = mid
		default:
			return mid
		}
	}
	for i := lo; i < hi; i++ {
		if cells[i].code >= want {
			return i
		}
	}
	return hi
}

// ForEachPotentialNeighbor invokes visit with the id of every particle in a
// cell overlapping the square of half-side radius around point. These are
// candidates: a candidate near a cell corner may still be farther than the
// interaction radius, so callers must check the exact squared distance.
//
// The cursor walks the cell table in increasing code order. Codes between
// the rectangle's min and max code whose cells decode outside the rectangle
// are skipped; after a few consecutive misses the cursor jumps ahead with
// BIGMIN instead of grinding cell by cell.
func (g *NeighborGrid) ForEachPotentialNeighbor(point Vec2, visit func(id int)) {
	if len(g.entries) == 0 {
		return
	}

	r := Vec2{X: g.radius, Y: g.radius}
	minX, minY := g.clampedCellPos(point.Sub(r))
	maxX, maxY := g.clampedCellPos(point.Add(r))

	minXBits := part1By1(minX)
	minYBits := part1By1(minY) << 1
	maxXBits := part1By1(maxX)
	maxYBits := part1By1(maxY) << 1
	codeMin := minXBits | minYBits
	codeMax := maxXBits | maxYBits

	const maxConsecutiveCellMisses = 8

	idx := findNextCell(g.cells, codeMin)
	cell := g.cells[idx]

	for cell.code <= codeMax {
		misses := 0
		for !isInRectPresplit(cell.code, minXBits, minYBits, maxXBits, maxYBits) {
			misses++
			if misses > maxConsecutiveCellMisses {
				idx += findNextCell(g.cells[idx:], bigMin(cell.code, codeMin, codeMax))
			} else {
				idx++
			}
			cell = g.cells[idx]
			if cell.code > codeMax {
				return
			}
		}

		// The sentinel's code can fall inside a rect touching the far
		// grid corner; it holds no particles.
		if idx == len(g.cells)-1 {
			return
		}

		// Contiguous run of in-rect cells; all their particles are
		// candidates.
		first := cell.first
		for {
			idx++
			cell = g.cells[idx]
			if idx == len(g.cells)-1 || !isInRectPresplit(cell.code, minXBits, minYBits, maxXBits, maxYBits) {
				break
			}
		}
		last := cell.first

		for _, e := range g.entries[first:last] {
			visit(int(e.id))
		}

		// The cursor sits on a cell known to be outside the rect (or the
		// sentinel); skip it.
		idx++
		if idx >= len(g.cells) {
			return
		}
		cell = g.cells[idx]
	}
}
