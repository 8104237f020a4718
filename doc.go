// Package gridloc provides a grid-based spatial locator for n-dimensional point sets.
//
// A Locator partitions an axis-aligned bounding box into a regular lattice of
// buckets, records each point's identifier in the bucket that contains it, and
// answers proximity queries by examining only buckets near the query instead of
// scanning every point.
//
// # Quick Start
//
// Batch mode indexes a store that is already filled:
//
//	store, _ := pointstore.FromPoints(3, points)
//	loc, _ := gridloc.New[float64](3, gridloc.WithPointsPerBucket(4))
//	_ = loc.InitPointInsertion(store, nil) // nil box: bound the store's points
//	id, _ := loc.FindClosestPoint([]float64{0.5, 0.5, 0.5})
//
// Incremental mode adds points one at a time and stays queryable after each insert:
//
//	box, _ := bounds.New([]float64{0, 0}, []float64{10, 10})
//	loc, _ := gridloc.New[float64](2, gridloc.WithDivisions(5, 5))
//	_ = loc.InitIncrementalPointInsertion(pointstore.New[float64](2), &box, 0)
//	id, inserted, _ := loc.InsertUniquePoint([]float64{3, 3})
//
// # Grid Configuration
//
// The grid is fixed when insertion is initialised. Either give explicit
// per-axis division counts (WithDivisions) or a target average occupancy
// (WithPointsPerBucket, default 3) from which divisions are derived so that
// cells are close to cubes. Re-initialising discards the bucket table and
// rebuilds it from scratch.
//
// Points outside the bounding box are not rejected: they are clamped into the
// boundary buckets. This keeps insertion total at the cost of heavier edge
// buckets; queries remain exact.
//
// # Queries
//
// FindClosestPoint expands Chebyshev shells of buckets around the query's cell
// and stops only when the nearest unvisited bucket is provably farther than the
// best point found, so results always match an exhaustive scan. Ties resolve to
// the smallest identifier.
//
// # Concurrency
//
// A Locator has a single writer. Queries may run concurrently with each other
// but never with an insertion or initialisation.
package gridloc
