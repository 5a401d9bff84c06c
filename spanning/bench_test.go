package spanning_test

import (
	"testing"

	"github.com/katalvlaran/recom/spanning"
)

// BenchmarkKruskal measures Kruskal on 500 vertices and 2000 edges.
func BenchmarkKruskal(b *testing.B) {
	edges := buildMediumGraph(500, 2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = spanning.Kruskal(500, edges)
	}
}

// BenchmarkPrim measures Prim on the same graph rooted at vertex 0.
func BenchmarkPrim(b *testing.B) {
	edges := buildMediumGraph(500, 2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = spanning.Prim(500, edges, 0)
	}
}
