package hashmap

import (
	"github.com/Scusemua/go-utils/logger"
)

// Option configures a ChainedHashTable at construction.
type Option func(*tableOptions)

type tableOptions struct {
	hash       HashFunc
	keyEqual   Predicate
	valueEqual Predicate
	hasher     Hasher

	hashOnlyMatching bool

	log       logger.Logger
	observers []Observer
}

// WithHashFunc sets the hash function. The default is IdentityHash.
func WithHashFunc(hash HashFunc) Option {
	return func(o *tableOptions) {
		o.hash = hash
	}
}

// WithKeyEquivalence sets the key equivalence used by HasKey and, unless WithHashOnlyMatching is
// given, by Insert, Lookup and Remove to tell apart distinct keys with equal hashes.
func WithKeyEquivalence(keyEqual Predicate) Option {
	return func(o *tableOptions) {
		o.keyEqual = keyEqual
	}
}

// WithValueEquivalence sets the value equivalence used by HasValue.
func WithValueEquivalence(valueEqual Predicate) Option {
	return func(o *tableOptions) {
		o.valueEqual = valueEqual
	}
}

// WithHasher sets all three functions at once. It takes precedence over WithHashFunc,
// WithKeyEquivalence and WithValueEquivalence.
func WithHasher(hasher Hasher) Option {
	return func(o *tableOptions) {
		o.hasher = hasher
	}
}

// WithHashOnlyMatching makes Insert, Lookup and Remove treat two keys with the same hash as the
// same key, without consulting the key equivalence. Distinct keys whose hashes collide will then
// overwrite one another.
func WithHashOnlyMatching() Option {
	return func(o *tableOptions) {
		o.hashOnlyMatching = true
	}
}

// WithLogger replaces the table's logger.
func WithLogger(log logger.Logger) Option {
	return func(o *tableOptions) {
		o.log = log
	}
}

// WithObserver registers observers that are notified of resizes, in addition to the table's
// logger.
func WithObserver(observers ...Observer) Option {
	return func(o *tableOptions) {
		o.observers = append(o.observers, observers...)
	}
}

func (o *tableOptions) resolveHasher() Hasher {
	if o.hasher != nil {
		return o.hasher
	}

	return NewHasher(o.hash, o.keyEqual, o.valueEqual)
}
