// Package pointstore provides the point container a locator indexes.
//
// A Store maps point identifiers to coordinate tuples. The locator never copies
// point data out of the store; it only records identifiers in its buckets, so a
// single store can be shared between a locator and other consumers. Callers own
// the store and must keep it alive for as long as a locator references it.
//
// Container is the default implementation, a segmented array addressed directly
// by identifier:
//
//	store := pointstore.New[float64](3)
//	id, _ := store.Append([]float64{1, 2, 3})
//	p, ok := store.Point(id)
package pointstore
