package hashmap

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/pkg/errors"

	"github.com/scusemua/chained-hashtable/common/sequence"
	"github.com/scusemua/chained-hashtable/common/types"
)

// forEach visits every entry in bucket order, then chain order, until f returns false.
func (t *ChainedHashTable) forEach(f func(e *entry) bool) {
	for i := range t.buckets {
		for cursor := t.buckets[i].next; cursor != nil; cursor = cursor.next {
			if !f(cursor) {
				return
			}
		}
	}
}

// Keys returns the keys of all entries.
//
// The order is unspecified, but is the same order Values uses as long as the table is not
// modified in between.
func (t *ChainedHashTable) Keys() *sequence.Sequence[types.Element] {
	keys := sequence.New[types.Element](t.size)
	t.forEach(func(e *entry) bool {
		keys.Append(e.key)
		return true
	})
	return keys
}

// Values returns the values of all entries, in the same order as Keys.
func (t *ChainedHashTable) Values() *sequence.Sequence[types.Element] {
	values := sequence.New[types.Element](t.size)
	t.forEach(func(e *entry) bool {
		values.Append(e.value)
		return true
	})
	return values
}

// Snapshot returns all entries as an ordered map, in the order of Keys.
//
// It returns an error wrapping ErrUncomparableKey if some key is a Ref holding a slice, map or
// function, since such a key cannot be used as a map key.
func (t *ChainedHashTable) Snapshot() (*orderedmap.OrderedMap[types.Element, types.Element], error) {
	snapshot := orderedmap.NewOrderedMap[types.Element, types.Element]()

	var err error
	t.forEach(func(e *entry) bool {
		if !types.Comparable(e.key) {
			err = errors.Wrapf(ErrUncomparableKey, "cannot snapshot key %v", e.key)
			return false
		}

		snapshot.Set(e.key, e.value)
		return true
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// HasKey returns true if some entry satisfies the table's key equivalence for key.
func (t *ChainedHashTable) HasKey(key types.Element) bool {
	return t.Any(t.hasher.KeyEqual, key)
}

// HasValue returns true if some entry satisfies the table's value equivalence for value.
func (t *ChainedHashTable) HasValue(value types.Element) bool {
	return t.Any(t.hasher.ValueEqual, value)
}

// All returns true if p holds for every entry. It is true for an empty table.
func (t *ChainedHashTable) All(p Predicate, extra any) bool {
	keys, values := t.Keys().Slice(), t.Values().Slice()
	for i := range keys {
		if !p(keys[i], values[i], extra) {
			return false
		}
	}
	return true
}

// Any returns true if p holds for at least one entry. It is false for an empty table.
func (t *ChainedHashTable) Any(p Predicate, extra any) bool {
	keys, values := t.Keys().Slice(), t.Values().Slice()
	for i := range keys {
		if p(keys[i], values[i], extra) {
			return true
		}
	}
	return false
}

// ApplyToAll calls u on every entry with a pointer to the stored value, so that u can replace it.
func (t *ChainedHashTable) ApplyToAll(u Updater, extra any) {
	t.forEach(func(e *entry) bool {
		u(e.key, &e.value, extra)
		return true
	})
}
