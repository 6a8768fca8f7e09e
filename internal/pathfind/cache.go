package pathfind

import (
	"container/list"
	"sync"

	"github.com/archon-sim/core/internal/adjacency"
	"github.com/archon-sim/core/internal/ids"
)

// cacheKey identifies a cached query: endpoints plus the calculator and
// query-context hashes, so two calculators (or two querying countries)
// never share a cache line even if the endpoints match.
type cacheKey struct {
	From, To ids.ProvinceID
	CalcHash uint64
	CtxHash  uint64
}

// Cache is a fixed-capacity LRU cache of pathfinding results, keyed on
// (from, to, cost_calculator_hash, ctx_hash). Safe for concurrent
// use. The core's own movement orders (military.MoveUnit) call FindPath
// directly and do not go through a cache.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]*list.Element
	order    *list.List // front = most recently used
}

type cacheEntry struct {
	key    cacheKey
	result Result
}

// NewCache constructs an LRU cache with the given entry capacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[cacheKey]*list.Element, capacity),
		order:    list.New(),
	}
}

// hashContext folds a Context into a cache-key component. Two contexts
// that would cause a calculator to return different costs must hash
// differently, or the cache becomes unsound.
func hashContext(ctx Context) uint64 {
	return uint64(ctx.QueryingCountry)<<32 | uint64(ctx.Flags)
}

func (c *Cache) key(from, to ids.ProvinceID, calc CostCalculator, ctx Context) cacheKey {
	return cacheKey{From: from, To: to, CalcHash: calc.Hash(), CtxHash: hashContext(ctx)}
}

// Get returns a cached result, promoting it to most-recently-used.
func (c *Cache) Get(from, to ids.ProvinceID, calc CostCalculator, ctx Context) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := c.key(from, to, calc, ctx)
	elem, ok := c.entries[k]
	if !ok {
		return Result{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).result, true
}

// Put inserts or overwrites a cached result, evicting the least-recently
// used entry if the cache is at capacity.
func (c *Cache) Put(from, to ids.ProvinceID, calc CostCalculator, ctx Context, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := c.key(from, to, calc, ctx)
	if elem, ok := c.entries[k]; ok {
		elem.Value.(*cacheEntry).result = result
		c.order.MoveToFront(elem)
		return
	}
	elem := c.order.PushFront(&cacheEntry{key: k, result: result})
	c.entries[k] = elem
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// InvalidateAll clears every cached entry; the cache has no per-edge
// dependency tracking. Within the core it is called only when a save's
// pathfind block is restored; province ownership changes do not call it.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*list.Element, c.capacity)
	c.order.Init()
}

// Len reports the current number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// FindPathCached runs FindPath, consulting and populating cache.
func FindPathCached(cache *Cache, graph *adjacency.Graph, start, goal ids.ProvinceID, calc CostCalculator, ctx Context, h Heuristic, opts Options) Result {
	if cached, ok := cache.Get(start, goal, calc, ctx); ok {
		return cached
	}
	result := FindPath(graph, start, goal, calc, ctx, h, opts)
	cache.Put(start, goal, calc, ctx, result)
	return result
}
