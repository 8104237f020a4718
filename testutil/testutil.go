package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/gridloc/distance"
	"golang.org/x/exp/constraints"
)

// SearchResult represents a search result.
type SearchResult struct {
	ID       uint64
	Distance float64 // squared
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints generates num points with coordinates uniform in [minVal, maxVal).
// Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dim int, minVal, maxVal float64) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)
	span := maxVal - minVal

	for i := range num {
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range p {
			p[j] = minVal + r.rand.Float64()*span
		}
		points[i] = p
	}

	return points
}

// ClusteredPoints generates points around uniformly placed centroids with
// Gaussian noise of the given spread. Points may fall outside [minVal, maxVal).
// Useful for exercising skewed bucket occupancy.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread, minVal, maxVal float64) [][]float64 {
	centroids := r.UniformPoints(clusters, dim, minVal, maxVal)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dim)
	points := make([][]float64, num)

	for i := range num {
		centroid := centroids[i%clusters]
		p := data[i*dim : (i+1)*dim : (i+1)*dim]
		for j := range dim {
			p[j] = centroid[j] + r.rand.NormFloat64()*spread
		}
		points[i] = p
	}

	return points
}

// Float32Points converts points to float32 coordinates.
func Float32Points(points [][]float64) [][]float32 {
	out := make([][]float32, len(points))
	for i, p := range points {
		q := make([]float32, len(p))
		for j, v := range p {
			q[j] = float32(v)
		}
		out[i] = q
	}
	return out
}

// ClosestLinear returns the index of the point closest to query by exhaustive
// scan and its squared distance. Ties resolve to the smallest index.
// It returns (math.MaxUint64, +Inf) for an empty set.
func ClosestLinear[T constraints.Float](points [][]T, query []T) (uint64, float64) {
	best, bestD := uint64(math.MaxUint64), math.Inf(1)
	for i, p := range points {
		if d := distance.SquaredL2(p, query); d < bestD {
			best, bestD = uint64(i), d
		}
	}
	return best, bestD
}

// ExactTopK returns the k points closest to query, nearest first, by exhaustive
// scan. Ties resolve to the smaller index.
func ExactTopK[T constraints.Float](points [][]T, query []T, k int) []SearchResult {
	results := make([]SearchResult, len(points))
	for i, p := range points {
		results[i] = SearchResult{ID: uint64(i), Distance: distance.SquaredL2(p, query)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}

// WithinRadiusLinear returns the indexes of all points within radius of query, ascending.
func WithinRadiusLinear[T constraints.Float](points [][]T, query []T, radius float64) []uint64 {
	var ids []uint64
	r2 := radius * radius
	for i, p := range points {
		if distance.SquaredL2(p, query) <= r2 {
			ids = append(ids, uint64(i))
		}
	}
	return ids
}
