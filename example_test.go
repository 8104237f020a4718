package gridloc_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/gridloc"
	"github.com/hupe1980/gridloc/bounds"
	"github.com/hupe1980/gridloc/pointstore"
)

func Example() {
	store, _ := pointstore.FromPoints(2, [][]float64{{1, 1}, {9, 9}, {5, 5}})
	box, _ := bounds.New([]float64{0, 0}, []float64{10, 10})

	loc, _ := gridloc.New[float64](2, gridloc.WithDivisions(5, 5))
	if err := loc.InitPointInsertion(store, &box); err != nil {
		panic(err)
	}

	id, _ := loc.FindClosestPoint([]float64{5.1, 4.9})
	fmt.Println(id)
	// Output: 2
}

func Example_incremental() {
	store := pointstore.New[float64](3)
	box, _ := bounds.New([]float64{0, 0, 0}, []float64{1, 1, 1})

	loc, _ := gridloc.New[float64](3, gridloc.WithTolerance(0.01))
	if err := loc.InitIncrementalPointInsertion(store, &box, 1000); err != nil {
		panic(err)
	}

	a, inserted, _ := loc.InsertUniquePoint([]float64{0.5, 0.5, 0.5})
	fmt.Println(a, inserted)

	b, inserted, _ := loc.InsertUniquePoint([]float64{0.505, 0.5, 0.5})
	fmt.Println(b, inserted)

	fmt.Println(loc.Len())
	// Output:
	// 0 true
	// 0 false
	// 1
}

func Example_nearest() {
	store, _ := pointstore.FromPoints(1, [][]float64{{0}, {3}, {1}, {7}})

	loc, _ := gridloc.New[float64](1, gridloc.WithPointsPerBucket(1))
	if err := loc.InitPointInsertion(store, nil); err != nil {
		panic(err)
	}

	neighbors, _ := loc.FindClosestNPoints(2, []float64{2.5})
	for _, n := range neighbors {
		fmt.Printf("%d %.1f\n", n.ID, n.Distance)
	}

	ids, _ := loc.FindPointsWithinRadius(2, []float64{2})
	fmt.Println(ids)

	batch, _ := loc.FindClosestPoints(context.Background(), [][]float64{{-4}, {6}})
	fmt.Println(batch)
	// Output:
	// 1 0.5
	// 2 1.5
	// [0 1 2]
	// [0 3]
}

func Example_metrics() {
	metrics := &gridloc.BasicMetricsCollector{}
	store, _ := pointstore.FromPoints(2, [][]float64{{0, 0}, {1, 1}})

	loc, _ := gridloc.New[float64](2, gridloc.WithMetricsCollector(metrics))
	_ = loc.InitPointInsertion(store, nil)
	_, _ = loc.FindClosestPoint([]float64{0.9, 0.9})

	stats := metrics.GetStats()
	fmt.Println(stats.BuildCount, stats.BuildPoints, stats.SearchCount)
	// Output: 1 2 1
}
