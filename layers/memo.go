package layers

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const numMemoShards = 8

// memoTable holds one single-assignment slot per layer identity, sharded by
// hash of the layer id to keep concurrent branches off a single lock. The
// slot's sync.Once is what guarantees at-most-one construction per identity
// per resolution.
type memoTable struct {
	shards [numMemoShards]memoShard
}

type memoShard struct {
	mu    sync.Mutex
	slots map[string]*memoSlot
}

type memoSlot struct {
	once sync.Once
	val  any
	err  error
}

func newMemoTable() *memoTable {
	t := &memoTable{}
	for i := range t.shards {
		t.shards[i].slots = make(map[string]*memoSlot)
	}
	return t
}

func (t *memoTable) slotFor(layerId string) *memoSlot {
	shard := &t.shards[xxhash.Sum64String(layerId)%numMemoShards]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	slot, ok := shard.slots[layerId]
	if !ok {
		slot = &memoSlot{}
		shard.slots[layerId] = slot
	}
	return slot
}
