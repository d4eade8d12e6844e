package configuration

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
)

const (
	HashIdentity = "identity"
	HashString   = "string"
	HashXX       = "xxhash"
)

var ErrUnknownHashFunction = errors.New("unknown hash function")

// TableOptions includes the configuration parameters used to construct a hashmap.ChainedHashTable.
type TableOptions struct {
	HashFunction     string  `name:"hash"                 json:"hash"                 yaml:"hash"                 description:"The hash function to use. Options are 'identity', 'string' and 'xxhash'."`
	BucketCount      int     `name:"buckets"              json:"buckets"              yaml:"buckets"              description:"The initial number of buckets. Must be one of 17, 31, 67, 127, 257, 509, 1021, 2053, 4099, 8191 or 16381."`
	LoadFactor       float64 `name:"load_factor"          json:"load_factor"          yaml:"load_factor"          description:"The load (entries per bucket) at which the table grows."`
	HashOnlyMatching bool    `name:"hash_only_matching"   json:"hash_only_matching"   yaml:"hash_only_matching"   description:"If true, keys with equal hashes are treated as the same key."`
	ApproxFloats     bool    `name:"approx_float_values"  json:"approx_float_values"  yaml:"approx_float_values"  description:"If true, float values are compared within a small tolerance by HasValue."`
}

// DefaultTableOptions returns the options used by hashmap.New.
func DefaultTableOptions() *TableOptions {
	return &TableOptions{
		HashFunction: HashIdentity,
		BucketCount:  hashmap.DefaultBucketCount,
		LoadFactor:   hashmap.DefaultLoadFactor,
	}
}

// Validate ensures that the values of the configuration parameters can be used to create a table.
func (opts *TableOptions) Validate() error {
	if _, err := opts.hashFunc(); err != nil {
		return err
	}

	if !hashmap.IsValidBucketCount(opts.BucketCount) {
		return errors.Wrapf(hashmap.ErrInvalidBucketCount, "invalid \"buckets\" option %d", opts.BucketCount)
	}

	if !(opts.LoadFactor > 0) {
		return errors.Wrapf(hashmap.ErrInvalidLoadFactor, "invalid \"load_factor\" option %f", opts.LoadFactor)
	}

	return nil
}

func (opts *TableOptions) hashFunc() (hashmap.HashFunc, error) {
	switch strings.ToLower(opts.HashFunction) {
	case "", HashIdentity:
		return hashmap.IdentityHash, nil
	case HashString:
		return hashmap.StringHash, nil
	case HashXX:
		return hashmap.XXHash, nil
	default:
		return nil, errors.Wrapf(ErrUnknownHashFunction, "\"%s\"", opts.HashFunction)
	}
}

// NewTable creates a table from the options. Additional options, such as observers or a logger, are applied
// after the ones derived from the configuration.
func (opts *TableOptions) NewTable(extra ...hashmap.Option) (*hashmap.ChainedHashTable, error) {
	hash, err := opts.hashFunc()
	if err != nil {
		return nil, err
	}

	tableOpts := []hashmap.Option{hashmap.WithHashFunc(hash)}
	if opts.HashOnlyMatching {
		tableOpts = append(tableOpts, hashmap.WithHashOnlyMatching())
	}
	if opts.ApproxFloats {
		tableOpts = append(tableOpts, hashmap.WithValueEquivalence(hashmap.ApproxValueEquivalence))
	}
	tableOpts = append(tableOpts, extra...)

	return hashmap.NewDynamic(opts.BucketCount, opts.LoadFactor, tableOpts...)
}

// PrettyString is the same as String, except that PrettyString calls json.MarshalIndent instead of json.Marshal.
func (opts *TableOptions) PrettyString(indentSize int) string {
	indentBuilder := strings.Builder{}
	for i := 0; i < indentSize; i++ {
		indentBuilder.WriteString(" ")
	}

	m, err := json.MarshalIndent(opts, "", indentBuilder.String())
	if err != nil {
		panic(err)
	}

	return string(m)
}

func (opts *TableOptions) Clone() *TableOptions {
	clone := *opts
	return &clone
}

func (opts *TableOptions) String() string {
	m, err := json.Marshal(opts)
	if err != nil {
		panic(err)
	}

	return string(m)
}
