// Package grid implements the regular lattice a locator partitions its bounding box into.
//
// A Grid fixes the number of divisions and the cell width per axis. Cell index
// tuples are mapped to linear indices in row-major order with axis 0 varying
// fastest. Coordinates map to cells with floor((x - min) / width) clamped to
// [0, divisions-1], so cells are half-open except the last one per axis, and
// points outside the box land in the boundary cells. For distance bounds the
// boundary cells are therefore treated as extending to infinity outward.
package grid
