package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/Scusemua/go-utils/config"
	"github.com/Scusemua/go-utils/logger"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/scusemua/chained-hashtable/common/metrics"
	"github.com/scusemua/chained-hashtable/common/types"
	"github.com/scusemua/chained-hashtable/common/utils"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
)

const (
	IntKeys    KeyKind = "int"
	StringKeys KeyKind = "string"
	FloatKeys  KeyKind = "float"

	// stringKeyLength is the length of the random keys generated for StringKeys workloads.
	stringKeyLength = 12

	// cancellationCheckInterval is how many operations are performed between checks of the context.
	cancellationCheckInterval = 1024
)

var (
	ErrInvalidConfig      = errors.New("invalid workload configuration")
	ErrVerificationFailed = errors.New("table contents do not match the workload")
)

// KeyKind selects the Element variant used for the keys of a workload.
type KeyKind string

// OperationRecorder records individual table operations, such as a metrics.TablePrometheusManager.
type OperationRecorder interface {
	ObserveOperation(tableId string, op metrics.Operation, found bool, latency time.Duration) error
}

// Config describes a workload: a fill phase that inserts Keys distinct keys, followed by Operations random
// lookups, removals and insertions drawn from the same key pool.
type Config struct {
	KeyKind        KeyKind
	Keys           int
	Operations     int
	LookupFraction float64
	RemoveFraction float64
	Seed           uint64
}

// Validate ensures that the Config can be run.
func (c *Config) Validate() error {
	switch c.KeyKind {
	case IntKeys, StringKeys, FloatKeys:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown key kind \"%s\"", c.KeyKind)
	}

	if c.Keys <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "number of keys must be positive, got %d", c.Keys)
	}

	if c.Operations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "number of operations must not be negative, got %d", c.Operations)
	}

	if c.LookupFraction < 0 || c.RemoveFraction < 0 || c.LookupFraction+c.RemoveFraction > 1 {
		return errors.Wrapf(ErrInvalidConfig, "lookup (%.2f) and remove (%.2f) fractions must be non-negative and sum to at most 1",
			c.LookupFraction, c.RemoveFraction)
	}

	return nil
}

// Result summarizes a completed workload.
type Result struct {
	Inserts  int           `json:"inserts"`
	Lookups  int           `json:"lookups"`
	Hits     int           `json:"hits"`
	Removes  int           `json:"removes"`
	Removed  int           `json:"removed"`
	Duration time.Duration `json:"duration"`
	Stats    hashmap.Stats `json:"stats"`
}

func (r *Result) String() string {
	return fmt.Sprintf("Result[Inserts=%d, Lookups=%d (%d hits), Removes=%d (%d removed), Duration=%v, %v]",
		r.Inserts, r.Lookups, r.Hits, r.Removes, r.Removed, r.Duration, r.Stats)
}

// Runner runs a workload against a table and checks the table against a plain map as it goes.
type Runner struct {
	log logger.Logger

	cfg      Config
	rng      *rand.Rand
	keys     []types.Element
	recorder OperationRecorder

	// expected mirrors the table. Keys are the indices into keys.
	expected map[int]int64
}

// NewRunner validates cfg and generates the workload's key pool. recorder may be nil.
func NewRunner(cfg Config, recorder OperationRecorder) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runner := &Runner{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		recorder: recorder,
		expected: make(map[int]int64, cfg.Keys),
	}
	config.InitLogger(&runner.log, runner)

	runner.keys = runner.generateKeys()

	return runner, nil
}

// generateKeys returns cfg.Keys distinct keys of the configured kind.
func (r *Runner) generateKeys() []types.Element {
	keys := make([]types.Element, 0, r.cfg.Keys)
	seen := make(map[types.Element]struct{}, r.cfg.Keys)

	for len(keys) < r.cfg.Keys {
		var key types.Element
		switch r.cfg.KeyKind {
		case IntKeys:
			key = types.Int(r.rng.Int63() - r.rng.Int63())
		case StringKeys:
			key = types.NewRef(utils.GenerateRandomString(r.rng, stringKeyLength))
		case FloatKeys:
			key = types.Float(r.rng.NormFloat64() * 1e6)
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}

// Keys returns the key pool of the workload.
func (r *Runner) Keys() []types.Element {
	return r.keys
}

// Run fills table with every key of the pool, performs the configured mix of operations and finally verifies that
// table holds exactly the entries the workload expects.
//
// Run stops early and returns the context's error if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, table *hashmap.ChainedHashTable) (*Result, error) {
	result := &Result{}
	start := time.Now()

	for i := range r.keys {
		r.insert(table, i, result)
	}
	r.log.Debug("Inserted %d keys. Table: %v", len(r.keys), table)

	for op := 0; op < r.cfg.Operations; op++ {
		if op%cancellationCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				r.log.Warn("Workload cancelled after %d/%d operations.", op, r.cfg.Operations)
				return nil, errors.Wrapf(err, "workload cancelled after %d operations", op)
			}
		}

		idx := r.rng.Intn(len(r.keys))
		choice := r.rng.Float64()
		switch {
		case choice < r.cfg.RemoveFraction:
			r.remove(table, idx, result)
		case choice < r.cfg.RemoveFraction+r.cfg.LookupFraction:
			r.lookup(table, idx, result)
		default:
			r.insert(table, idx, result)
		}
	}

	result.Duration = time.Since(start)

	if err := r.Verify(table); err != nil {
		return nil, err
	}

	result.Stats = table.Stats()
	return result, nil
}

func (r *Runner) insert(table *hashmap.ChainedHashTable, idx int, result *Result) {
	value := r.rng.Int63()

	st := time.Now()
	table.Insert(r.keys[idx], types.Int(value))
	r.record(table, metrics.OpInsert, true, time.Since(st))

	r.expected[idx] = value
	result.Inserts++
}

func (r *Runner) lookup(table *hashmap.ChainedHashTable, idx int, result *Result) {
	st := time.Now()
	_, found := table.Lookup(r.keys[idx])
	r.record(table, metrics.OpLookup, found, time.Since(st))

	result.Lookups++
	if found {
		result.Hits++
	}
}

func (r *Runner) remove(table *hashmap.ChainedHashTable, idx int, result *Result) {
	st := time.Now()
	_, removed := table.Remove(r.keys[idx])
	r.record(table, metrics.OpRemove, removed, time.Since(st))

	delete(r.expected, idx)
	result.Removes++
	if removed {
		result.Removed++
	}
}

func (r *Runner) record(table *hashmap.ChainedHashTable, op metrics.Operation, found bool, latency time.Duration) {
	if r.recorder == nil {
		return
	}

	if err := r.recorder.ObserveOperation(table.ID(), op, found, latency); err != nil {
		r.log.Warn("Failed to record \"%s\" operation: %v", op, err)
	}
}

// Verify checks that table holds exactly the entries inserted, and not since removed, by the workload.
func (r *Runner) Verify(table *hashmap.ChainedHashTable) error {
	if table.Size() != len(r.expected) {
		return errors.Wrapf(ErrVerificationFailed, "table holds %d entries, expected %d", table.Size(), len(r.expected))
	}

	for idx, expected := range r.expected {
		value, found := table.Lookup(r.keys[idx])
		if !found {
			return errors.Wrapf(ErrVerificationFailed, "key %v is missing", r.keys[idx])
		}

		if !types.Equal(value, types.Int(expected)) {
			return errors.Wrapf(ErrVerificationFailed, "key %v maps to %v, expected %d", r.keys[idx], value, expected)
		}
	}

	return nil
}
