package hashmap

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/scusemua/chained-hashtable/common/types"
)

// IdentityHash is the default hash function.
//
// Scalar keys hash to their own bit pattern, so an Int key k lands in bucket k mod n exactly as an
// integer-keyed table would expect. Ref keys have no bit pattern and fall back to XXHash.
func IdentityHash(key types.Element) uint64 {
	if bits, ok := types.Bits(key); ok {
		return bits
	}

	return XXHash(key)
}

// StringHash is the K&R string hash (h = h*31 + c) over a Ref holding a string or []byte.
// Any other key is hashed with IdentityHash.
func StringHash(key types.Element) uint64 {
	ref, ok := types.AsRef(key)
	if !ok {
		return IdentityHash(key)
	}

	var data []byte
	switch v := ref.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return IdentityHash(key)
	}

	var result uint64
	for _, c := range data {
		result = result*31 + uint64(c)
	}
	return result
}

// XXHash hashes any key with xxhash64.
//
// Scalars are hashed over their 8-byte little-endian bit pattern; Refs over their string form.
func XXHash(key types.Element) uint64 {
	if bits, ok := types.Bits(key); ok {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], bits)
		return xxhash.Sum64(buf[:])
	}

	ref, _ := types.AsRef(key)
	switch v := ref.(type) {
	case string:
		return xxhash.Sum64String(v)
	case []byte:
		return xxhash.Sum64(v)
	case fmt.Stringer:
		return xxhash.Sum64String(v.String())
	default:
		return xxhash.Sum64String(fmt.Sprintf("%v", v))
	}
}

// KeyEquivalence is the default key equivalence: the entry's key is identical to extra.
//
// Float keys are compared by bit pattern, like the built-in hashes, so a NaN key can be found again
// and -0 and +0 are distinct keys.
func KeyEquivalence(key types.Element, _ types.Element, extra any) bool {
	other, ok := extra.(types.Element)
	return ok && types.Identical(key, other)
}

// ValueEquivalence is the default value equivalence: the entry's value equals extra.
func ValueEquivalence(_ types.Element, value types.Element, extra any) bool {
	other, ok := extra.(types.Element)
	return ok && types.Equal(value, other)
}

// ApproxValueEquivalence is ValueEquivalence with float values compared within utils.Epsilon.
func ApproxValueEquivalence(_ types.Element, value types.Element, extra any) bool {
	other, ok := extra.(types.Element)
	return ok && types.ApproxEqual(value, other)
}

// funcHasher adapts plain functions to the Hasher interface.
type funcHasher struct {
	hash       HashFunc
	keyEqual   Predicate
	valueEqual Predicate
}

// NewHasher bundles the given functions into a Hasher. Nil arguments are replaced by
// IdentityHash, KeyEquivalence and ValueEquivalence respectively.
func NewHasher(hash HashFunc, keyEqual Predicate, valueEqual Predicate) Hasher {
	if hash == nil {
		hash = IdentityHash
	}
	if keyEqual == nil {
		keyEqual = KeyEquivalence
	}
	if valueEqual == nil {
		valueEqual = ValueEquivalence
	}

	return &funcHasher{
		hash:       hash,
		keyEqual:   keyEqual,
		valueEqual: valueEqual,
	}
}

func (h *funcHasher) Hash(key types.Element) uint64 {
	return h.hash(key)
}

func (h *funcHasher) KeyEqual(key types.Element, value types.Element, extra any) bool {
	return h.keyEqual(key, value, extra)
}

func (h *funcHasher) ValueEqual(key types.Element, value types.Element, extra any) bool {
	return h.valueEqual(key, value, extra)
}
