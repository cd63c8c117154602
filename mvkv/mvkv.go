package mvkv

import (
	"fmt"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

// MVKV is the top-level multi-version concurrent key-value map. It maps
// each access path to a VersionedValue, and separately tracks the set of
// keys that have ever carried a delta (the "aggregator keys").
//
// The top-level map is sharded (via concurrent-map/v2) for cross-key
// parallelism; per-key mutation is serialized by the VersionedValue's own
// mutex, not by a lock on MVKV itself.
type MVKV[K Key, V Write] struct {
	data cmap.ConcurrentMap[K, *VersionedValue[V]]

	deltaKeysMu sync.Mutex
	deltaKeys   []K

	logger *zap.Logger
}

// New constructs an empty MVKV. By default the top-level map is split into
// defaultShardCount shards, hashed by each key's String() form; pass
// WithShardCount to change that.
func New[K Key, V Write](opts ...Option) *MVKV[K, V] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.shardCount <= 0 {
		panic(fmt.Sprintf("mvkv: New: shard count must be positive, got %d", cfg.shardCount))
	}
	return &MVKV[K, V]{
		data:   cmap.NewWithCustomShardingFunction[K, *VersionedValue[V]](cfg.shardCount, stringerHash[K]),
		logger: cfg.logger,
	}
}

// stringerHash is the sharding function backing New: it hashes a Key's
// String() form with FNV-1a, the same algorithm concurrent-map/v2 uses
// internally for its own NewStringer constructor, so a custom shard count
// doesn't change the distribution's character, only its granularity.
func stringerHash[K Key](key K) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	s := key.String()
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}

// getOrCreate returns the VersionedValue for key, creating it if absent.
func (m *MVKV[K, V]) getOrCreate(key K) *VersionedValue[V] {
	return m.data.Upsert(key, nil, func(exists bool, valueInMap, _ *VersionedValue[V]) *VersionedValue[V] {
		if exists {
			return valueInMap
		}
		return newVersionedValue[V]()
	})
}

// AddWrite records a write of version (txnIdx, incarnation) at key. If an
// entry already existed for txnIdx and was itself a write, its incarnation
// must be strictly lower than incarnation (I1); violating this is a
// scheduler bug and panics. A prior delta entry at the same slot is
// replaced unconditionally — this is how a re-executed transaction
// converts its own speculative delta into a concrete write.
func (m *MVKV[K, V]) AddWrite(key K, version Version, value V) {
	vv := m.getOrCreate(key)

	vv.mu.Lock()
	prev, had := vv.insert(version.TxnIndex, newWriteEntry(version.Incarnation, value))
	vv.mu.Unlock()

	if had && prev.IsWrite() {
		prevIncarnation, _ := prev.Write()
		if !(prevIncarnation < version.Incarnation) {
			panic(fmt.Sprintf(
				"mvkv: I1 violation: incarnation %d replacing %d at %s txn %d",
				version.Incarnation, prevIncarnation, key, version.TxnIndex,
			))
		}
	}
}

// AddDelta records a delta at (key, txnIdx). The first delta ever recorded
// for a key appends it to the aggregator-keys list.
func (m *MVKV[K, V]) AddDelta(key K, txnIdx TxnIndex, delta Delta) {
	vv := m.getOrCreate(key)

	vv.mu.Lock()
	vv.insert(txnIdx, newDeltaEntry[V](delta))
	firstDelta := !vv.containsDelta
	if firstDelta {
		vv.containsDelta = true
	}
	vv.mu.Unlock()

	if firstDelta {
		m.deltaKeysMu.Lock()
		m.deltaKeys = append(m.deltaKeys, key)
		m.deltaKeysMu.Unlock()
	}
}

// MarkEstimate flips the flag of the entry written by txnIdx at key to
// Estimate. Both the key and the (key, txnIdx) entry must already exist;
// absence of either is a scheduler bug and panics.
func (m *MVKV[K, V]) MarkEstimate(key K, txnIdx TxnIndex) {
	vv, ok := m.data.Get(key)
	if !ok {
		panic(fmt.Sprintf("mvkv: MarkEstimate: no history for key %s", key))
	}

	vv.mu.RLock()
	e, ok := vv.get(txnIdx)
	vv.mu.RUnlock()

	if !ok {
		panic(fmt.Sprintf("mvkv: MarkEstimate: no entry for key %s at txn %d", key, txnIdx))
	}
	e.markEstimate()
	m.logger.Debug("marked estimate", zap.Stringer("key", key), zap.Uint64("txn", uint64(txnIdx)))
}

// Delete removes the entry written by txnIdx at key. The key must already
// exist; absence is a scheduler bug and panics.
func (m *MVKV[K, V]) Delete(key K, txnIdx TxnIndex) {
	vv, ok := m.data.Get(key)
	if !ok {
		panic(fmt.Sprintf("mvkv: Delete: no history for key %s", key))
	}

	vv.mu.Lock()
	had := vv.delete(txnIdx)
	vv.mu.Unlock()

	if !had {
		panic(fmt.Sprintf("mvkv: Delete: no entry for key %s at txn %d", key, txnIdx))
	}
}

// AggregatorKeys atomically drains and returns the list of keys that have
// ever carried a delta. Subsequent calls will not return keys already
// drained; callers (the per-batch materializer) must not call this more
// than once per batch if they depend on the full list.
func (m *MVKV[K, V]) AggregatorKeys() []K {
	m.deltaKeysMu.Lock()
	defer m.deltaKeysMu.Unlock()
	keys := m.deltaKeys
	m.deltaKeys = nil
	return keys
}

// TakenEntry is one entry returned by TakeEntriesForKey, carrying enough
// information for a downstream materializer to distinguish writes from
// deltas without reaching back into the MVKV.
type TakenEntry[V Write] struct {
	Index       TxnIndex
	Flag        Flag
	IsWrite     bool
	Incarnation Incarnation // valid when IsWrite
	Value       V           // valid when IsWrite
	Delta       Delta       // valid when !IsWrite
}

// TakeEntriesForKey removes key's VersionedValue from the map entirely and
// returns its entries in ascending TxnIndex order. After this call the key
// is absent; callers must not issue further reads for it concurrently (I4).
func (m *MVKV[K, V]) TakeEntriesForKey(key K) ([]TakenEntry[V], bool) {
	vv, ok := m.data.Pop(key)
	if !ok {
		return nil, false
	}

	vv.mu.Lock()
	defer vv.mu.Unlock()

	out := make([]TakenEntry[V], 0, vv.entries.Len())
	vv.entries.Ascend(func(s slot[V]) bool {
		e := s.entry
		te := TakenEntry[V]{Index: s.idx, Flag: e.Flag(), IsWrite: e.IsWrite()}
		if te.IsWrite {
			te.Incarnation, te.Value = e.Write()
		} else {
			te.Delta = e.Delta()
		}
		out = append(out, te)
		return true
	})
	return out, true
}
