package distance

import (
	"math"

	"golang.org/x/exp/constraints"
)

// SquaredL2 calculates the squared L2 (Euclidean) distance between two points.
// Assumes points are the same length (caller's responsibility).
func SquaredL2[T constraints.Float](a, b []T) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// SquaredL2To calculates the squared L2 distance between a widened query and a stored point.
// Assumes q and p are the same length.
func SquaredL2To[T constraints.Float](q []float64, p []T) float64 {
	var sum float64
	for i := range q {
		d := q[i] - float64(p[i])
		sum += d * d
	}
	return sum
}

// ToBox returns the squared distance from q to the axis-aligned box [lo, hi].
// Points inside the box are at distance 0.
func ToBox(q, lo, hi []float64) float64 {
	var sum float64
	for i := range q {
		var d float64
		switch {
		case q[i] < lo[i]:
			d = lo[i] - q[i]
		case q[i] > hi[i]:
			d = q[i] - hi[i]
		}
		sum += d * d
	}
	return sum
}

// Widen converts p to float64 into dst, reusing dst's capacity.
func Widen[T constraints.Float](dst []float64, p []T) []float64 {
	dst = dst[:0]
	for _, v := range p {
		dst = append(dst, float64(v))
	}
	return dst
}

// Sqrt returns the Euclidean distance for a squared distance.
func Sqrt(d2 float64) float64 {
	return math.Sqrt(d2)
}
