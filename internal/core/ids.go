package core

import "math"

// PointID is a stable, caller-visible identifier for a point.
// It is used for store lookups, bucket membership and query results.
// Invariant: unique per locator session; coordinates may repeat.
type PointID = uint64

// NotFound is the sentinel returned by lookups that found no point.
// It is never assigned to a stored point.
const NotFound PointID = math.MaxUint64
