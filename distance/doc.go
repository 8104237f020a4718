// Package distance provides the point and box distance calculations used by the locator.
//
// All functions return squared Euclidean distances in float64, whatever the
// coordinate type, so comparisons stay consistent between float32 and float64
// point sets and square roots are only taken at the API boundary.
//
// # Usage
//
//	d2 := distance.SquaredL2(a, b)
//	d2 = distance.SquaredL2To(query, p)   // query already widened to float64
//	d2 = distance.ToBox(query, lo, hi)    // 0 when query lies inside the box
package distance
