package hashmap

import (
	"fmt"
	"math"

	"github.com/Scusemua/go-utils/config"
	"github.com/Scusemua/go-utils/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scusemua/chained-hashtable/common/types"
)

var (
	ErrInvalidBucketCount = errors.New("bucket count is not one of the supported primes")
	ErrInvalidLoadFactor  = errors.New("load factor must be greater than 0")
	ErrUncomparableKey    = errors.New("key is not comparable")
)

var _ HashTable = (*ChainedHashTable)(nil)

// entry is a node of a bucket chain. The sentinel head of every bucket is an entry too; its key,
// value and hash are never read.
type entry struct {
	key   types.Element
	value types.Element
	hash  uint64
	next  *entry
}

// ChainedHashTable is a separate-chaining hash table mapping types.Element keys to types.Element
// values.
//
// Every chain is kept sorted by ascending key hash, so insertion, lookup, removal and rehashing all
// start from the same "last entry whose hash is smaller" traversal. The bucket count is always one
// of BucketCounts() and grows, never shrinks, each time an insertion finds the table at or above
// its load factor.
//
// ChainedHashTable is not safe for concurrent use.
type ChainedHashTable struct {
	log logger.Logger

	id         string
	buckets    []entry
	loadFactor float64
	size       int
	hasher     Hasher

	hashOnlyMatching bool

	observers []Observer
	resizes   int
	saturated bool
	destroyed bool
}

// New creates a table with DefaultBucketCount buckets and a load factor of DefaultLoadFactor.
func New(opts ...Option) *ChainedHashTable {
	return newChainedHashTable(DefaultBucketCount, DefaultLoadFactor, opts...)
}

// NewDynamic creates a table with the given bucket count and load factor.
//
// bucketCount must be one of BucketCounts() and loadFactor must be greater than zero; otherwise
// NewDynamic returns nil and an error wrapping ErrInvalidBucketCount or ErrInvalidLoadFactor.
func NewDynamic(bucketCount int, loadFactor float64, opts ...Option) (*ChainedHashTable, error) {
	if !IsValidBucketCount(bucketCount) {
		return nil, errors.Wrapf(ErrInvalidBucketCount, "cannot create table with %d buckets (valid: %v)",
			bucketCount, BucketCounts())
	}

	if loadFactor <= 0 || math.IsNaN(loadFactor) {
		return nil, errors.Wrapf(ErrInvalidLoadFactor, "cannot create table with load factor %.2f", loadFactor)
	}

	return newChainedHashTable(bucketCount, loadFactor, opts...), nil
}

func newChainedHashTable(bucketCount int, loadFactor float64, opts ...Option) *ChainedHashTable {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	table := &ChainedHashTable{
		log:              o.log,
		id:               uuid.NewString(),
		buckets:          make([]entry, bucketCount),
		loadFactor:       loadFactor,
		hasher:           o.resolveHasher(),
		hashOnlyMatching: o.hashOnlyMatching,
	}
	config.InitLogger(&table.log, fmt.Sprintf("ChainedHashTable %s ", table.id[:8]))

	table.observers = make([]Observer, 0, len(o.observers)+1)
	table.observers = append(table.observers, NewLogObserver(table.log))
	table.observers = append(table.observers, o.observers...)

	return table
}

// position is the result of locating a key in its bucket.
type position struct {
	hash uint64

	// runStart is the last entry whose hash is smaller than hash (possibly the sentinel). New
	// entries are linked directly after it.
	runStart *entry

	// match is the entry holding the key, and prev the entry linking to it.
	match *entry
	prev  *entry
}

// predecessor returns the last entry of the chain starting at head whose hash is smaller than hash.
// It returns head itself when there is no such entry.
func predecessor(head *entry, hash uint64) *entry {
	prev := head
	for cursor := head.next; cursor != nil && cursor.hash < hash; cursor = cursor.next {
		prev = cursor
	}
	return prev
}

func (t *ChainedHashTable) bucketFor(hash uint64) *entry {
	return &t.buckets[hash%uint64(len(t.buckets))]
}

func (t *ChainedHashTable) find(key types.Element) position {
	hash := t.hasher.Hash(key)
	runStart := predecessor(t.bucketFor(hash), hash)

	pos := position{hash: hash, runStart: runStart}
	prev := runStart
	for cursor := runStart.next; cursor != nil && cursor.hash == hash; cursor = cursor.next {
		if t.hashOnlyMatching || t.hasher.KeyEqual(cursor.key, cursor.value, key) {
			pos.prev = prev
			pos.match = cursor
			return pos
		}
		prev = cursor
	}

	return pos
}

// Insert maps key to value, replacing the value if key is already present.
//
// Insert first grows the table if its load has reached the load factor.
func (t *ChainedHashTable) Insert(key types.Element, value types.Element) {
	if t.destroyed {
		t.log.Error("Dropping insertion of %v -> %v: the table has been destroyed.", key, value)
		return
	}

	t.resize()

	pos := t.find(key)
	if pos.match != nil {
		pos.match.value = value
		return
	}

	pos.runStart.next = &entry{
		key:   key,
		value: value,
		hash:  pos.hash,
		next:  pos.runStart.next,
	}
	t.size++
}

// Lookup returns the value mapped to key.
func (t *ChainedHashTable) Lookup(key types.Element) (types.Element, bool) {
	if t.destroyed {
		return nil, false
	}

	pos := t.find(key)
	if pos.match == nil {
		return nil, false
	}

	return pos.match.value, true
}

// Remove deletes the entry for key and returns its value.
func (t *ChainedHashTable) Remove(key types.Element) (types.Element, bool) {
	if t.destroyed {
		return nil, false
	}

	pos := t.find(key)
	if pos.match == nil {
		return nil, false
	}

	pos.prev.next = pos.match.next
	pos.match.next = nil
	t.size--

	return pos.match.value, true
}

// Clear removes every entry. The bucket count is left unchanged.
func (t *ChainedHashTable) Clear() {
	for i := range t.buckets {
		cursor := t.buckets[i].next
		t.buckets[i].next = nil
		for cursor != nil {
			next := cursor.next
			cursor.next = nil
			cursor = next
		}
	}

	t.size = 0
	t.saturated = false
}

// Destroy clears the table and releases its buckets. The table must not be used afterward:
// lookups report absent and insertions are dropped.
func (t *ChainedHashTable) Destroy() {
	t.Clear()
	t.buckets = nil
	t.destroyed = true
}

// Size returns the number of entries.
func (t *ChainedHashTable) Size() int {
	return t.size
}

// IsEmpty returns true if the table holds no entries.
func (t *ChainedHashTable) IsEmpty() bool {
	return t.size == 0
}

// ID returns the identifier used to label this table in logs and metrics.
func (t *ChainedHashTable) ID() string {
	return t.id
}

// BucketCount returns the current number of buckets, or 0 once the table has been destroyed.
func (t *ChainedHashTable) BucketCount() int {
	return len(t.buckets)
}

// LoadFactor returns the load at which the table grows.
func (t *ChainedHashTable) LoadFactor() float64 {
	return t.loadFactor
}

// Load returns Size() / BucketCount().
func (t *ChainedHashTable) Load() float64 {
	if len(t.buckets) == 0 {
		return 0
	}

	return float64(t.size) / float64(len(t.buckets))
}

// Resizes returns the number of times the bucket array has been replaced.
func (t *ChainedHashTable) Resizes() int {
	return t.resizes
}

func (t *ChainedHashTable) String() string {
	return fmt.Sprintf("ChainedHashTable[ID=%s, Size=%d, Buckets=%d, LoadFactor=%.2f]",
		t.id, t.size, len(t.buckets), t.loadFactor)
}
