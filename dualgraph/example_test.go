package dualgraph_test

import (
	"fmt"

	"github.com/katalvlaran/recom/dualgraph"
)

// ExampleGrid builds the 5×5 toy grid used throughout the test suites.
func ExampleGrid() {
	g, err := dualgraph.Grid(5, 5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("nodes=%d edges=%d pop=%.0f\n", g.NumNodes(), g.NumEdges(), g.TotalPop())
	// Output: nodes=25 edges=40 pop=25
}

// ExampleGraph_Induced shows the local indexing of an induced subgraph.
func ExampleGraph_Induced() {
	g, _ := dualgraph.Grid(2, 2) // 0—2 / 1—3 with 0—1, 2—3
	s := g.Induced([]int{0, 1, 2})
	for _, e := range s.Edges {
		fmt.Printf("%d-%d ", s.Nodes[e.U], s.Nodes[e.V])
	}
	fmt.Println()
	// Output: 0-1 0-2
}
