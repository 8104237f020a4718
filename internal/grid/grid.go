package grid

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// MaxBuckets caps the number of cells a Grid may allocate.
const MaxBuckets = 1 << 26

// boundSlack is the fraction of a cell width subtracted from shell bounds so that
// rounding in cell assignment can never make a bound optimistic.
const boundSlack = 1e-9

var (
	// ErrDegenerateRegion is returned when the region has zero extent on every axis.
	ErrDegenerateRegion = errors.New("region has zero extent on every axis")

	// ErrNegativeEstimate is returned for a negative point count estimate.
	ErrNegativeEstimate = errors.New("point count estimate must not be negative")

	// ErrInvalidDivisions is returned for division counts below one or of the wrong length.
	ErrInvalidDivisions = errors.New("invalid divisions")

	// ErrTooManyBuckets is returned when the division counts exceed MaxBuckets cells.
	ErrTooManyBuckets = errors.New("too many buckets")
)

// Grid is an immutable lattice over an axis-aligned box.
type Grid struct {
	lo      []float64
	hi      []float64
	width   []float64
	divs    []int
	strides []int
	size    int
}

// New creates a Grid over [lo, hi] with explicit division counts.
// Axes with zero extent always get a single cell.
func New(lo, hi []float64, divisions []int) (*Grid, error) {
	if err := checkRegion(lo, hi); err != nil {
		return nil, err
	}
	if len(divisions) != len(lo) {
		return nil, fmt.Errorf("%w: got %d division counts for %d axes", ErrInvalidDivisions, len(divisions), len(lo))
	}
	divs := make([]int, len(divisions))
	for i, d := range divisions {
		if d < 1 {
			return nil, fmt.Errorf("%w: axis %d has %d divisions", ErrInvalidDivisions, i, d)
		}
		if hi[i] == lo[i] {
			d = 1
		}
		divs[i] = d
	}
	if _, ok := product(divs); !ok {
		return nil, fmt.Errorf("%w: %v exceeds %d cells", ErrTooManyBuckets, divs, MaxBuckets)
	}
	return build(lo, hi, divs), nil
}

// Derive creates a Grid whose cell count approximates estimate / pointsPerBucket,
// distributed across the non-degenerate axes in proportion to their extent so
// that cells are as close to cubes as possible. pointsPerBucket is floored at 1.
func Derive(lo, hi []float64, pointsPerBucket, estimate int) (*Grid, error) {
	if err := checkRegion(lo, hi); err != nil {
		return nil, err
	}
	if estimate < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeEstimate, estimate)
	}
	pointsPerBucket = max(pointsPerBucket, 1)

	total := max(1, (estimate+pointsPerBucket-1)/pointsPerBucket)
	total = min(total, MaxBuckets)

	divs := make([]int, len(lo))
	active := make([]bool, len(lo))
	for i := range lo {
		divs[i] = 1
		active[i] = hi[i] > lo[i]
	}

	// Side length of a cubic cell: h^k * total = volume of the active sub-box.
	// Axes shorter than half a cell keep one division and leave the volume, so
	// the remaining axes absorb the whole bucket budget.
	for {
		var logVolume float64
		k := 0
		for i, ok := range active {
			if ok {
				logVolume += math.Log(hi[i] - lo[i])
				k++
			}
		}
		if k == 0 {
			break
		}
		h := math.Exp((logVolume - math.Log(float64(total))) / float64(k))

		pinned := false
		for i, ok := range active {
			if ok && math.Round((hi[i]-lo[i])/h) < 1 {
				active[i] = false
				pinned = true
			}
		}
		if pinned {
			continue
		}
		for i, ok := range active {
			if ok {
				divs[i] = int(min(math.Round((hi[i]-lo[i])/h), MaxBuckets))
			}
		}
		break
	}

	// Rounding up on several axes can overshoot the cap; shrink the widest axis.
	for {
		n, ok := product(divs)
		if ok {
			break
		}
		widest := 0
		for i, d := range divs {
			if d > divs[widest] {
				widest = i
			}
		}
		factor := max(2, (n+MaxBuckets-1)/MaxBuckets)
		divs[widest] = max(1, divs[widest]/factor)
	}

	return build(lo, hi, divs), nil
}

func build(lo, hi []float64, divs []int) *Grid {
	g := &Grid{
		lo:      slices.Clone(lo),
		hi:      slices.Clone(hi),
		width:   make([]float64, len(lo)),
		divs:    divs,
		strides: make([]int, len(lo)),
	}
	stride := 1
	for i := range lo {
		g.width[i] = (hi[i] - lo[i]) / float64(divs[i])
		g.strides[i] = stride
		stride *= divs[i]
	}
	g.size = stride
	return g
}

func checkRegion(lo, hi []float64) error {
	if len(lo) == 0 || len(lo) != len(hi) {
		return fmt.Errorf("%w: region has %d/%d axes", ErrInvalidDivisions, len(lo), len(hi))
	}
	for i := range lo {
		if hi[i] > lo[i] {
			return nil
		}
	}
	return ErrDegenerateRegion
}

// product multiplies divs, reporting false once the result exceeds MaxBuckets.
func product(divs []int) (int, bool) {
	n := 1
	for _, d := range divs {
		if d > MaxBuckets || n > MaxBuckets/d {
			return n * min(d, MaxBuckets), false
		}
		n *= d
	}
	return n, true
}

// Dimension returns the number of axes.
func (g *Grid) Dimension() int { return len(g.divs) }

// Size returns the total number of cells.
func (g *Grid) Size() int { return g.size }

// Divisions returns a copy of the per-axis division counts.
func (g *Grid) Divisions() []int { return slices.Clone(g.divs) }

// Widths returns a copy of the per-axis cell widths.
func (g *Grid) Widths() []float64 { return slices.Clone(g.width) }

// axisCell maps a coordinate to its clamped cell index along one axis.
func (g *Grid) axisCell(axis int, x float64) int {
	w := g.width[axis]
	if w == 0 {
		return 0
	}
	t := (x - g.lo[axis]) / w
	last := g.divs[axis] - 1
	switch {
	case !(t > 0): // also catches NaN
		return 0
	case t >= float64(last):
		return last
	default:
		return int(t)
	}
}

// CellOf writes the clamped cell tuple of x into dst and returns it.
func (g *Grid) CellOf(x []float64, dst []int) []int {
	dst = dst[:0]
	for i, v := range x {
		dst = append(dst, g.axisCell(i, v))
	}
	return dst
}

// Linear maps a cell tuple to its linear index.
func (g *Grid) Linear(idx []int) int {
	n := 0
	for i, v := range idx {
		n += v * g.strides[i]
	}
	return n
}

// Distance2ToCell returns a lower bound on the squared distance from x to any
// point stored in cell idx. Boundary cells are open towards the outside.
func (g *Grid) Distance2ToCell(x []float64, idx []int) float64 {
	var sum float64
	for i, v := range idx {
		var d float64
		if lo := g.lo[i] + float64(v)*g.width[i]; v > 0 && x[i] < lo {
			d = lo - x[i]
		} else if hi := g.lo[i] + float64(v+1)*g.width[i]; v < g.divs[i]-1 && x[i] > hi {
			d = x[i] - hi
		}
		d = max(0, d-boundSlack*g.width[i])
		sum += d * d
	}
	return sum
}

// MaxRadius returns the Chebyshev radius at which a shell around center covers the grid.
func (g *Grid) MaxRadius(center []int) int {
	r := 0
	for i, c := range center {
		r = max(r, c, g.divs[i]-1-c)
	}
	return r
}

// Shell calls fn for every in-grid cell at Chebyshev distance exactly r from center,
// each exactly once. Interior cells are never enumerated. It returns false if fn did.
func (g *Grid) Shell(center []int, r int, fn func(linear int, idx []int) bool) bool {
	n := len(center)
	lo := make([]int, n)
	hi := make([]int, n)
	idx := make([]int, n)

	if r == 0 {
		copy(idx, center)
		return fn(g.Linear(idx), idx)
	}

	// A shell cell is attributed to the first axis on which it sits at distance r.
	for a := range n {
		for _, side := range [2]int{-r, r} {
			ca := center[a] + side
			if ca < 0 || ca >= g.divs[a] {
				continue
			}
			empty := false
			for j := range n {
				switch {
				case j == a:
					lo[j], hi[j] = ca, ca
				case j < a:
					lo[j], hi[j] = center[j]-(r-1), center[j]+(r-1)
				default:
					lo[j], hi[j] = center[j]-r, center[j]+r
				}
				lo[j] = max(lo[j], 0)
				hi[j] = min(hi[j], g.divs[j]-1)
				if lo[j] > hi[j] {
					empty = true
				}
			}
			if empty {
				continue
			}
			if !g.walk(lo, hi, idx, fn) {
				return false
			}
		}
	}
	return true
}

// ShellBound2 returns a squared lower bound on the distance from x to any point in
// a cell outside the block center ± r. ok is false once the block covers the grid.
func (g *Grid) ShellBound2(x []float64, center []int, r int) (bound float64, ok bool) {
	best := math.Inf(1)
	for i, c := range center {
		slack := boundSlack * g.width[i]
		if c+r+1 <= g.divs[i]-1 {
			edge := g.lo[i] + float64(c+r+1)*g.width[i]
			best = min(best, max(0, edge-x[i]-slack))
			ok = true
		}
		if c-r-1 >= 0 {
			edge := g.lo[i] + float64(c-r)*g.width[i]
			best = min(best, max(0, x[i]-edge-slack))
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return best * best, true
}

// Overlapping calls fn for every cell that may hold a point within radius of x
// on every axis. It returns false if fn did.
func (g *Grid) Overlapping(x []float64, radius float64, fn func(linear int, idx []int) bool) bool {
	n := len(x)
	lo := make([]int, n)
	hi := make([]int, n)
	for i, v := range x {
		lo[i] = g.axisCell(i, v-radius)
		hi[i] = g.axisCell(i, v+radius)
	}
	return g.walk(lo, hi, make([]int, n), fn)
}

// walk enumerates the inclusive index box [lo, hi] with axis 0 varying fastest.
func (g *Grid) walk(lo, hi, idx []int, fn func(linear int, idx []int) bool) bool {
	copy(idx, lo)
	for {
		if !fn(g.Linear(idx), idx) {
			return false
		}
		axis := 0
		for axis < len(idx) {
			if idx[axis] < hi[axis] {
				idx[axis]++
				break
			}
			idx[axis] = lo[axis]
			axis++
		}
		if axis == len(idx) {
			return true
		}
	}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid{divisions: %v, widths: %v, buckets: %d}", g.divs, g.width, g.size)
}
