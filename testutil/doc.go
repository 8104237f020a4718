// Package testutil provides testing utilities for gridloc.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random point sets and computing exact
// nearest neighbors by exhaustive scan, the ground truth every locator query
// is checked against.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, 3, 0, 10)       // uniform in [0, 10)^3
//	pts = rng.ClusteredPoints(1000, 3, 5, 0.1, 0, 10) // gaussian blobs
//
// # Exact Search (Ground Truth)
//
//	id, d2 := testutil.ClosestLinear(pts, query)
//	results := testutil.ExactTopK(pts, query, k)
package testutil
