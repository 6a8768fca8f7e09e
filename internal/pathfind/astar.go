// Package pathfind implements A* pathfinding over the adjacency graph with
// a pluggable cost calculator, deterministic tie-breaking, and an LRU
// result cache, behind a closed cost-calculator interface rather than
// ad-hoc distance/fuel-cost functions.
package pathfind

import (
	"container/heap"

	"github.com/archon-sim/core/internal/adjacency"
	"github.com/archon-sim/core/internal/fixedpoint"
	"github.com/archon-sim/core/internal/ids"
)

// Blocked is returned by a CostCalculator to mark an edge impassable.
var Blocked = &blockedErr{}

type blockedErr struct{}

func (*blockedErr) Error() string { return "pathfind: edge blocked" }

// Context carries the querying country and request flags through the cost
// calculator, so cost functions can depend on who is asking (e.g. military
// access, at-war passage restrictions) without the pathfinder itself
// knowing about diplomacy.
type Context struct {
	QueryingCountry ids.CountryID
	Flags           uint32
}

// CostCalculator computes the cost of moving from "from" to the adjacent
// province "to". Returning Blocked marks the edge impassable for this
// query.
type CostCalculator interface {
	Cost(from, to ids.ProvinceID, ctx Context) (fixedpoint.FixedPoint64, error)
	// Hash identifies this calculator's configuration for cache-keying;
	// two calculators with the same Hash must produce identical costs for
	// every edge, for the cache to be sound.
	Hash() uint64
}

// Predicate reports whether a province may be entered at all, independent
// of cost. Used for ownership/terrain passability checks a
// CostCalculator wraps (see military.flatTerrainCost) without the
// pathfinder needing to know what the predicate actually tests.
type Predicate func(ids.ProvinceID) bool

// Options bound a search.
type Options struct {
	MaxLength int // 0 means unbounded
	MaxExpand int // max node expansions, bounding worst-case work deterministically (0 means unbounded)
	Forbidden map[ids.ProvinceID]struct{}
	Avoid     map[ids.ProvinceID]struct{} // allowed only if no alternative exists is NOT implemented; Avoid is a hard exclusion like Forbidden for this core
}

// ResultKind discriminates a PathResult.
type ResultKind uint8

const (
	ResultFound ResultKind = iota
	ResultNoPath
	ResultForbidden
)

// Result is the outcome of a pathfinding query.
type Result struct {
	Kind      ResultKind
	Waypoints []ids.ProvinceID // inclusive of from and to, in order
}

type openItem struct {
	province ids.ProvinceID
	fScore   fixedpoint.FixedPoint64
	index    int
}

type openHeap []*openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].fScore != h[j].fScore {
		return h[i].fScore < h[j].fScore
	}
	// Deterministic tie-break: lower province ID wins.
	return h[i].province < h[j].province
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x interface{}) {
	item := x.(*openItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Heuristic estimates remaining cost from a to goal; admissible heuristics
// keep A* optimal. A zero heuristic degrades gracefully to Dijkstra.
type Heuristic func(a, goal ids.ProvinceID) fixedpoint.FixedPoint64

// ZeroHeuristic never overestimates (trivially admissible) and is the
// default when callers have no spatial coordinates to estimate from.
func ZeroHeuristic(ids.ProvinceID, ids.ProvinceID) fixedpoint.FixedPoint64 { return 0 }

// FindPath runs A* from start to goal over graph, using calc for edge
// costs and h as the heuristic. Ties break on lower province ID, so
// identical queries always reproduce the same path.
func FindPath(graph *adjacency.Graph, start, goal ids.ProvinceID, calc CostCalculator, ctx Context, h Heuristic, opts Options) Result {
	if _, blocked := opts.Forbidden[start]; blocked {
		return Result{Kind: ResultForbidden}
	}
	if _, blocked := opts.Forbidden[goal]; blocked {
		return Result{Kind: ResultForbidden}
	}
	if start == goal {
		return Result{Kind: ResultFound, Waypoints: []ids.ProvinceID{start}}
	}

	gScore := map[ids.ProvinceID]fixedpoint.FixedPoint64{start: 0}
	cameFrom := map[ids.ProvinceID]ids.ProvinceID{}
	closed := map[ids.ProvinceID]struct{}{}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &openItem{province: start, fScore: h(start, goal)})

	expansions := 0
	for open.Len() > 0 {
		if opts.MaxExpand > 0 && expansions >= opts.MaxExpand {
			return Result{Kind: ResultNoPath}
		}
		cur := heap.Pop(open).(*openItem).province
		if cur == goal {
			return Result{Kind: ResultFound, Waypoints: reconstructPath(cameFrom, start, goal)}
		}
		if _, done := closed[cur]; done {
			continue
		}
		closed[cur] = struct{}{}
		expansions++

		if opts.MaxLength > 0 {
			if pathLen := len(reconstructPath(cameFrom, start, cur)); pathLen >= opts.MaxLength {
				continue
			}
		}

		for _, next := range graph.Neighbors(cur) {
			if _, forbidden := opts.Forbidden[next]; forbidden {
				continue
			}
			if _, avoided := opts.Avoid[next]; avoided {
				continue
			}
			if _, done := closed[next]; done {
				continue
			}
			cost, err := calc.Cost(cur, next, ctx)
			if err != nil {
				continue // edge blocked
			}
			tentativeG := gScore[cur].Add(cost)
			existingG, seen := gScore[next]
			if seen && tentativeG >= existingG {
				continue
			}
			cameFrom[next] = cur
			gScore[next] = tentativeG
			f := tentativeG.Add(h(next, goal))
			heap.Push(open, &openItem{province: next, fScore: f})
		}
	}
	return Result{Kind: ResultNoPath}
}

func reconstructPath(cameFrom map[ids.ProvinceID]ids.ProvinceID, start, goal ids.ProvinceID) []ids.ProvinceID {
	path := []ids.ProvinceID{goal}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
