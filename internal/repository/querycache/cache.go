// Package querycache holds the client-side cache of remote query results:
// keyed, subscribable copies of posts, comment lists and chat threads. Values
// are treated as copy-on-write: a cached value is never edited in place, it
// is always replaced by a newly constructed one, so readers holding the old
// reference are never surprised.
package querycache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ikram98ai/docgram/internal/model"
	"go.uber.org/zap"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Snapshot is a verbatim copy of a set of cached values, used as the
// rollback set of an optimistic mutation.
type Snapshot map[Key]any

type Cache struct {
	logger *zap.Logger
	ttl    time.Duration

	mu         sync.Mutex
	lru        *lru.Cache[Key, entry]
	index      map[string]map[Key]struct{} // entity id -> keys whose value contains it
	keyIDs     map[Key][]string
	subs       map[Key][]chan struct{}
	generation uint64
}

func New(logger *zap.Logger, size int, ttl time.Duration) (*Cache, error) {
	c := &Cache{
		logger: logger,
		ttl: ttl,
		index: make(map[string]map[Key]struct{}),
		keyIDs: make(map[Key][]string),
		subs: make(map[Key][]chan struct{}),
	}

	// The eviction callback only fires from Add/Remove calls, which all run
	// with c.mu held, so it must not lock.
	l, err := lru.NewWithEvict[Key, entry](size, func(key Key, _ entry) {
		c.unindex(key)
	})
	if err != nil {
		return nil, err
	}
	c.lru = l

	return c, nil
}

// Set stores value under key and reindexes the entities it contains. The
// caller gives up ownership of value: it must not be mutated afterwards.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// SetIfCurrent stores value only if no optimistic write has cancelled
// refetches since gen was observed. It returns false when the value was
// discarded as stale.
func (c *Cache) SetIfCurrent(key Key, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Sugar().Debugf("discarding stale refetch for key %+v", key)
		return false
	}

	c.set(key, value)
	return true
}

func (c *Cache) set(key Key, value any) {
	c.unindex(key)
	c.lru.Add(key, entry{value: value, expiresAt: time.Now().Add(c.ttl)})

	ids := collectIDs(value)
	c.keyIDs[key] = ids
	for _, id := range ids {
		keys, ok := c.index[id]
		if !ok {
			keys = make(map[Key]struct{})
			c.index[id] = keys
		}
		keys[key] = struct{}{}
	}

	c.notify(key)
}

// GetRaw returns the cached value for key, or false if it is absent or
// expired.
func (c *Cache) GetRaw(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}

	return e.value, true
}

// Get returns the value cached under key if it is a T.
func Get[T any](c *Cache, key Key) (*T, bool) {
	raw, ok := c.GetRaw(key)
	if !ok {
		return nil, false
	}

	value, ok := raw.(T)
	if !ok {
		return nil, false
	}

	return &value, true
}

// GetList returns the value cached under key if it is a []T.
func GetList[T any](c *Cache, key Key) ([]T, bool) {
	raw, ok := c.GetRaw(key)
	if !ok {
		return nil, false
	}

	values, ok := raw.([]T)
	if !ok {
		return nil, false
	}

	return values, true
}

// Invalidate drops the given keys so the next read goes back to the remote.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		c.lru.Remove(key)
		c.notify(key)
	}
}

// Keys returns every cached key, most recently used last.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

func (c *Cache) KeysByFamily(families ...Family) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	var keys []Key
	for _, key := range c.lru.Keys() {
		for _, family := range families {
			if key.Family == family {
				keys = append(keys, key)
				break
			}
		}
	}

	return keys
}

// KeysContaining returns every key whose cached value contains the entity
// with the given id. This is a direct index lookup, not a scan over values.
func (c *Cache) KeysContaining(entityID string) []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	members, ok := c.index[entityID]
	if !ok {
		return nil
	}

	var keys []Key
	for _, key := range c.lru.Keys() {
		if _, ok := members[key]; ok {
			keys = append(keys, key)
		}
	}

	return keys
}

// ApplyToEntity rewrites every cached value containing the entity with the
// given id in one critical section and returns the verbatim pre-rewrite
// values as the rollback set. Because lookup, snapshot and rewrite share a
// single lock hold, a concurrent reader sees either no copy rewritten or
// every copy rewritten, and nothing written after the lookup can escape the
// rollback set.
func (c *Cache) ApplyToEntity(entityID string, fn func(value any) any) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	members := c.index[entityID]
	keys := make([]Key, 0, len(members))
	for _, key := range c.lru.Keys() {
		if _, ok := members[key]; ok {
			keys = append(keys, key)
		}
	}

	snap := make(Snapshot, len(keys))
	now := time.Now()
	for _, key := range keys {
		e, ok := c.lru.Peek(key)
		if !ok || now.After(e.expiresAt) {
			continue
		}
		snap[key] = e.value
		c.set(key, fn(e.value))
	}

	return snap
}

// Snapshot copies the current values of the given keys. Absent and expired
// keys are skipped so a later Restore cannot revive a dead entry.
func (c *Cache) Snapshot(keys []Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := make(Snapshot, len(keys))
	now := time.Now()
	for _, key := range keys {
		if e, ok := c.lru.Peek(key); ok && !now.After(e.expiresAt) {
			snap[key] = e.value
		}
	}

	return snap
}

// Restore puts every snapshotted value back key-for-key.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range snap {
		c.set(key, value)
	}
}

// CancelRefetches marks every in-flight background refetch as stale so it
// cannot overwrite a newer optimistic write (see SetIfCurrent).
func (c *Cache) CancelRefetches() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}

func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Subscribe returns a channel that receives a signal whenever the value
// under key is written or invalidated. Signals are collapsed, not queued.
func (c *Cache) Subscribe(key Key) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	c.subs[key] = append(c.subs[key], ch)
	return ch
}

func (c *Cache) notify(key Key) {
	for _, ch := range c.subs[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (c *Cache) unindex(key Key) {
	for _, id := range c.keyIDs[key] {
		delete(c.index[id], key)
		if len(c.index[id]) == 0 {
			delete(c.index, id)
		}
	}
	delete(c.keyIDs, key)
}

func collectIDs(value any) []string {
	switch v := value.(type) {
	case model.Post:
		return []string{v.ID}
	case []model.Post:
		ids := make([]string, 0, len(v))
		for _, post := range v {
			ids = append(ids, post.ID)
		}
		return ids
	default:
		return nil
	}
}
