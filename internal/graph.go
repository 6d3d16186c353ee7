package internal

import (
	"context"
	"fmt"
	"sort"
)

// Graph analytics thresholds. These are deliberately independent of the
// connection-finder tunables; unifying them would change ranking behavior.
const (
	// mostConnectedPool is the per-item candidate pool for neighbor counting.
	mostConnectedPool = 20
	// mostConnectedThreshold is the similarity above which a candidate counts
	// as a neighbor.
	mostConnectedThreshold = 0.5
	// clusterCandidatePool bounds per-item adjacency during clustering. True
	// clustering needs full pairwise comparison; limiting candidates to the
	// ten nearest keeps the scan tractable at the cost of possibly missing
	// edges between items that are close but not in each other's top ten.
	clusterCandidatePool = 10
)

// Ranked pairs a record with its neighbor count.
type Ranked struct {
	Record    ContentVector
	Neighbors int
}

// ClusterBuilder discovers groups of mutually related content. The bounded
// candidate-pool approximation lives behind this interface so an exact
// pairwise implementation can substitute without changing callers.
type ClusterBuilder interface {
	Clusters(ctx context.Context, threshold float64) ([][]ContentVector, error)
}

var _ ClusterBuilder = (*GraphBuilder)(nil)

// GraphBuilder runs whole-store analytics: "most connected" ranking and
// cluster discovery. Both rescan the store per item, O(N^2) in store size,
// and are meant for on-demand administrative use, not the ingest path.
type GraphBuilder struct {
	store VectorStore
}

func NewGraphBuilder(store VectorStore) *GraphBuilder {
	return &GraphBuilder{store: store}
}

// MostConnected ranks items by how many neighbors score at or above
// mostConnectedThreshold within a pool of mostConnectedPool candidates.
func (g *GraphBuilder) MostConnected(ctx context.Context, topK int) ([]Ranked, error) {
	all, err := g.store.ListEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}

	type counted struct {
		id        string
		neighbors int
	}

	counts := make([]counted, 0, len(all))
	for _, item := range all {
		similar, err := g.store.FindSimilar(ctx, item.Embedding, mostConnectedPool, SimilarFilter{ExcludeID: item.ID})
		if err != nil {
			return nil, fmt.Errorf("neighbors of %s: %w", item.ID, err)
		}

		n := 0
		for _, s := range similar {
			if s.Score >= mostConnectedThreshold {
				n++
			}
		}
		counts = append(counts, counted{id: item.ID, neighbors: n})
	}

	// Stable sort over insertion order makes equal counts reproducible.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].neighbors > counts[j].neighbors
	})

	if topK > 0 && len(counts) > topK {
		counts = counts[:topK]
	}

	result := make([]Ranked, 0, len(counts))
	for _, c := range counts {
		rec, err := g.store.Get(ctx, c.id)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c.id, err)
		}
		if rec == nil {
			continue
		}
		result = append(result, Ranked{Record: *rec, Neighbors: c.neighbors})
	}
	return result, nil
}

// Clusters returns the connected components of the similarity graph whose
// edges are pairs scoring at or above threshold, singletons dropped, largest
// first. Adjacency comes from each item's clusterCandidatePool nearest
// neighbors and is symmetrized before traversal: if B appears in A's
// neighbor list, A and B belong to the same component even when A is absent
// from B's list. Iteration follows insertion order, so output is
// deterministic for a fixed store.
func (g *GraphBuilder) Clusters(ctx context.Context, threshold float64) ([][]ContentVector, error) {
	all, err := g.store.ListEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	adjacency := make(map[string][]string, len(all))
	for _, item := range all {
		similar, err := g.store.FindSimilar(ctx, item.Embedding, clusterCandidatePool, SimilarFilter{ExcludeID: item.ID})
		if err != nil {
			return nil, fmt.Errorf("neighbors of %s: %w", item.ID, err)
		}
		for _, s := range similar {
			if s.Score < threshold {
				continue
			}
			adjacency[item.ID] = append(adjacency[item.ID], s.Record.ID)
			adjacency[s.Record.ID] = append(adjacency[s.Record.ID], item.ID)
		}
	}

	visited := make(map[string]bool, len(all))
	var clusters [][]ContentVector

	for _, item := range all {
		if visited[item.ID] {
			continue
		}

		members, err := g.component(ctx, item.ID, adjacency, visited)
		if err != nil {
			return nil, err
		}
		if len(members) > 1 {
			clusters = append(clusters, members)
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i]) > len(clusters[j])
	})
	return clusters, nil
}

// component collects the records reachable from start via depth-first
// traversal of the symmetrized adjacency.
func (g *GraphBuilder) component(ctx context.Context, start string, adjacency map[string][]string, visited map[string]bool) ([]ContentVector, error) {
	var members []ContentVector
	stack := []string{start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			continue
		}
		visited[id] = true

		rec, err := g.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", id, err)
		}
		if rec != nil {
			members = append(members, *rec)
		}

		// Push in reverse so neighbors pop in list order.
		neighbors := adjacency[id]
		for i := len(neighbors) - 1; i >= 0; i-- {
			if !visited[neighbors[i]] {
				stack = append(stack, neighbors[i])
			}
		}
	}

	return members, nil
}
