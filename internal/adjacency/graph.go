// Package adjacency implements the compressed province neighbor graph:
// CSR-style offset/data arrays, flood-fill region queries, and bridge
// detection. Flat arrays throughout, no per-node heap object and no
// pointer chasing, matching the dense-table discipline the rest of this
// module uses for its own stores.
package adjacency

import "github.com/archon-sim/core/internal/ids"

// Graph is the compressed sparse row neighbor list: Offsets has N+1
// entries, Data has M entries (sum of degrees). Neighbor lists are sorted
// by ID, a precondition pathfinding's tie-break relies on.
type Graph struct {
	index   map[ids.ProvinceID]int
	allIDs  []ids.ProvinceID
	offsets []uint32
	data    []ids.ProvinceID
}

// Build constructs a Graph from an adjacency list keyed by province ID.
// Each neighbor slice is sorted before being packed into Data.
func Build(adjacency map[ids.ProvinceID][]ids.ProvinceID, allIDs []ids.ProvinceID) *Graph {
	g := &Graph{
		index:   make(map[ids.ProvinceID]int, len(allIDs)),
		allIDs:  append([]ids.ProvinceID(nil), allIDs...),
		offsets: make([]uint32, len(allIDs)+1),
	}
	for i, id := range allIDs {
		g.index[id] = i
	}
	var total uint32
	for i, id := range allIDs {
		g.offsets[i] = total
		neighbors := append([]ids.ProvinceID(nil), adjacency[id]...)
		sortProvinceIDs(neighbors)
		g.data = append(g.data, neighbors...)
		total += uint32(len(neighbors))
	}
	g.offsets[len(allIDs)] = total
	return g
}

func sortProvinceIDs(s []ids.ProvinceID) {
	// Insertion sort: neighbor lists are small (tens of entries at most for
	// a province map), so this avoids pulling in sort for a hot load-time
	// path while staying exact and deterministic.
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// Neighbors returns the sorted neighbor slice for id, or nil if unknown.
func (g *Graph) Neighbors(id ids.ProvinceID) []ids.ProvinceID {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.data[g.offsets[idx]:g.offsets[idx+1]]
}

// Predicate filters provinces during traversal.
type Predicate func(ids.ProvinceID) bool

// NeighborsWhere returns the subset of id's neighbors matching pred,
// written into buf (caller-owned, reused across calls).
func (g *Graph) NeighborsWhere(id ids.ProvinceID, pred Predicate, buf []ids.ProvinceID) []ids.ProvinceID {
	for _, n := range g.Neighbors(id) {
		if pred(n) {
			buf = append(buf, n)
		}
	}
	return buf
}

// ConnectedRegion performs a BFS flood fill from start, following only
// neighbors for which pred holds, using a visited bitset sized to the
// graph's dense index space. Returns the visited province IDs.
func (g *Graph) ConnectedRegion(start ids.ProvinceID, pred Predicate) []ids.ProvinceID {
	startIdx, ok := g.index[start]
	if !ok {
		return nil
	}
	visited := make([]bool, len(g.allIDs))
	queue := make([]int, 0, len(g.allIDs))
	queue = append(queue, startIdx)
	visited[startIdx] = true
	result := make([]ids.ProvinceID, 0, len(g.allIDs))

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		id := g.allIDs[cur]
		result = append(result, id)
		for _, n := range g.Neighbors(id) {
			if !pred(n) {
				continue
			}
			nIdx, ok := g.index[n]
			if !ok || visited[nIdx] {
				continue
			}
			visited[nIdx] = true
			queue = append(queue, nIdx)
		}
	}
	return result
}

// SharedBorderProvinces returns the subset of setA that borders at least
// one province in setB, for surfacing front-line provinces after an
// ownership change.
func (g *Graph) SharedBorderProvinces(setA, setB []ids.ProvinceID) []ids.ProvinceID {
	inB := make(map[ids.ProvinceID]struct{}, len(setB))
	for _, id := range setB {
		inB[id] = struct{}{}
	}
	var result []ids.ProvinceID
	for _, a := range setA {
		for _, n := range g.Neighbors(a) {
			if _, ok := inB[n]; ok {
				result = append(result, a)
				break
			}
		}
	}
	return result
}

// IsBridge reports whether removing province (restricted by pred as if it
// did not exist) splits its surviving neighborhood into more than one
// connected component. An O(N+E) query used only by AI debug/strategic
// queries, never in a hot simulation path.
func (g *Graph) IsBridge(province ids.ProvinceID, pred Predicate) bool {
	neighbors := g.Neighbors(province)
	live := make([]ids.ProvinceID, 0, len(neighbors))
	for _, n := range neighbors {
		if pred(n) && n != province {
			live = append(live, n)
		}
	}
	if len(live) < 2 {
		return false
	}
	excludePred := func(id ids.ProvinceID) bool {
		return id != province && pred(id)
	}
	reached := g.ConnectedRegion(live[0], excludePred)
	reachedSet := make(map[ids.ProvinceID]struct{}, len(reached))
	for _, id := range reached {
		reachedSet[id] = struct{}{}
	}
	for _, n := range live[1:] {
		if _, ok := reachedSet[n]; !ok {
			return true
		}
	}
	return false
}
