package diplomacy

import (
	"sync"

	"github.com/archon-sim/core/internal/ids"
)

// DecayMonthly runs the three-phase data-parallel decay pass over
// allModifiers at tick t:
//
//  1. Mark (parallel, read-only): compute an expired bitmap.
//  2. Compact (sequential, deterministic): copy live modifiers forward
//     in array order, so the resulting layout is bit-exact regardless of
//     how many workers ran phase 1.
//  3. Rebuild index (parallel): reconstruct relationshipKey -> range from
//     the compacted array.
//
// The fan-out in phases 1 and 3 partitions the work and launches one
// goroutine per partition, joined with a WaitGroup, with every goroutine
// writing only to its own disjoint slice.
func (s *Store) DecayMonthly(t ids.Tick) {
	expired := s.markExpired(t)
	s.compact(expired)
	s.RebuildIndex()
}

func (s *Store) markExpired(t ids.Tick) []bool {
	n := len(s.allModifiers)
	expired := make([]bool, n)
	if n == 0 {
		return expired
	}
	workers := partitionCount(n)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				expired[i] = s.allModifiers[i].isExpired(t)
			}
		}(start, end)
	}
	wg.Wait()
	return expired
}

func partitionCount(n int) int {
	const maxWorkers = 8
	if n < maxWorkers {
		return 1
	}
	return maxWorkers
}

// compact iterates allModifiers sequentially, preserving order, and
// drops every entry flagged expired. This step must be sequential: the
// resulting array layout feeds RebuildIndex, and bit-exact replay depends
// on that layout being identical across any number of decay workers.
func (s *Store) compact(expired []bool) {
	survivors := s.allModifiers[:0]
	for i, m := range s.allModifiers {
		if !expired[i] {
			survivors = append(survivors, m)
		}
	}
	s.allModifiers = survivors
}

// RebuildIndex reconstructs rangeIndex from the current allModifiers
// layout. The array is assumed already grouped by key in contiguous runs
// (true after compact, since AddModifier inserts each modifier into its
// key's run and decay never reorders); runs are discovered with one parallel pass over disjoint
// partitions whose boundary keys are resolved sequentially afterward so
// a key split across a partition boundary is not double-counted.
func (s *Store) RebuildIndex() {
	n := len(s.allModifiers)
	rangeIndex := make(map[ids.RelationKey]indexRange, len(s.rangeIndex))
	if n == 0 {
		s.rangeIndex = rangeIndex
		return
	}

	workers := partitionCount(n)
	chunk := (n + workers - 1) / workers
	type localRange struct {
		key        ids.RelationKey
		start, end int
	}
	partials := make([][]localRange, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			continue
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var local []localRange
			curKey := s.allModifiers[start].Key
			curStart := start
			for i := start + 1; i < end; i++ {
				if s.allModifiers[i].Key != curKey {
					local = append(local, localRange{curKey, curStart, i})
					curKey = s.allModifiers[i].Key
					curStart = i
				}
			}
			local = append(local, localRange{curKey, curStart, end})
			partials[w] = local
		}(w, start, end)
	}
	wg.Wait()

	// Sequential merge: adjacent partitions may have split a run of the
	// same key across their boundary; merge those before publishing.
	var merged []localRange
	for _, part := range partials {
		for _, r := range part {
			if len(merged) > 0 && merged[len(merged)-1].key == r.key && merged[len(merged)-1].end == r.start {
				merged[len(merged)-1].end = r.end
				continue
			}
			merged = append(merged, r)
		}
	}
	for _, r := range merged {
		rangeIndex[r.key] = indexRange{start: r.start, end: r.end}
	}
	s.rangeIndex = rangeIndex
}
