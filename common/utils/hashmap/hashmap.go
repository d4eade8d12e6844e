package hashmap

import (
	"github.com/scusemua/chained-hashtable/common/sequence"
	"github.com/scusemua/chained-hashtable/common/types"
)

// HashFunc hashes a key.
type HashFunc func(key types.Element) uint64

// Predicate tests a key/value pair against some extra data.
//
// Key and value equivalence are also Predicates: they receive a full entry and compare one side
// of it against extra, which then holds the types.Element being sought.
type Predicate func(key types.Element, value types.Element, extra any) bool

// Updater may overwrite the value of an entry in place.
type Updater func(key types.Element, value *types.Element, extra any)

// Hasher bundles the hash function and the two equivalence predicates that a table is built with.
type Hasher interface {
	Hash(key types.Element) uint64
	KeyEqual(key types.Element, value types.Element, extra any) bool
	ValueEqual(key types.Element, value types.Element, extra any) bool
}

type BaseHashTable interface {
	Insert(key types.Element, value types.Element)
	Lookup(key types.Element) (value types.Element, found bool)
	Remove(key types.Element) (value types.Element, removed bool)
	Clear()
	Destroy()
}

type HashTable interface {
	BaseHashTable

	Size() int
	IsEmpty() bool

	// Keys and Values return snapshots whose i-th elements belong to the same entry, provided
	// that the table is not modified between the two calls.
	Keys() *sequence.Sequence[types.Element]
	Values() *sequence.Sequence[types.Element]

	HasKey(key types.Element) bool
	HasValue(value types.Element) bool

	All(p Predicate, extra any) bool
	Any(p Predicate, extra any) bool
	ApplyToAll(u Updater, extra any)
}
