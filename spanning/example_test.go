package spanning_test

import (
	"fmt"

	"github.com/katalvlaran/recom/spanning"
)

// ExampleKruskal demonstrates Kruskal on a pentagon:
// 0—1 (1), 1—2 (2), 2—3 (3), 3—4 (5), 0—4 (12). MST weight = 11.
func ExampleKruskal() {
	edges := []spanning.Edge{
		{U: 0, V: 1, Weight: 1},
		{U: 0, V: 4, Weight: 12},
		{U: 1, V: 2, Weight: 2},
		{U: 2, V: 3, Weight: 3},
		{U: 3, V: 4, Weight: 5},
	}
	tree, total, err := spanning.Kruskal(5, edges)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Total: %.0f, Edges:", total)
	for _, i := range tree {
		fmt.Printf(" %d-%d", edges[i].U, edges[i].V)
	}
	fmt.Println()
	// Output: Total: 11, Edges: 0-1 1-2 2-3 3-4
}
