package directory

import (
	"fmt"

	apperrors "github.com/peerconnect/pairing-service/internal"
)

// OrgGraph is the undirected reporting-line graph over employee ids.
type OrgGraph struct {
	adjacency map[int64]map[int64]struct{}
}

func NewOrgGraph() *OrgGraph {
	return &OrgGraph{adjacency: make(map[int64]map[int64]struct{})}
}

func (g *OrgGraph) AddEdge(a, b int64) {
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[int64]struct{})
	}
	if g.adjacency[b] == nil {
		g.adjacency[b] = make(map[int64]struct{})
	}
	g.adjacency[a][b] = struct{}{}
	g.adjacency[b][a] = struct{}{}
}

func (g *OrgGraph) HasNode(id int64) bool {
	_, ok := g.adjacency[id]
	return ok
}

// ShortestPath returns the hop count between two employees via BFS.
// Employees in different components are an error, not a distance: a
// disconnected graph usually means the snapshot is incomplete.
func (g *OrgGraph) ShortestPath(from, to int64) (int, error) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return 0, disconnectedError(from, to)
	}
	if from == to {
		return 0, nil
	}

	visited := map[int64]struct{}{from: {}}
	frontier := []int64{from}
	depth := 0

	for len(frontier) > 0 {
		depth++
		var next []int64
		for _, node := range frontier {
			for neighbor := range g.adjacency[node] {
				if neighbor == to {
					return depth, nil
				}
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = struct{}{}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}

	return 0, disconnectedError(from, to)
}

func disconnectedError(from, to int64) error {
	return apperrors.NewInternalError(
		fmt.Sprintf("no reporting-line path between employees %d and %d", from, to),
		apperrors.ErrCodeOrgGraphDisconnected,
	)
}
