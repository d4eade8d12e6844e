package domain

import (
	"strings"

	"github.com/Scusemua/go-utils/config"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/scusemua/chained-hashtable/common/configuration"
	"github.com/scusemua/chained-hashtable/htbench/internal/workload"
)

const (
	DefaultKeys           = 10000
	DefaultOperations     = 100000
	DefaultLookupFraction = 0.6
	DefaultRemoveFraction = 0.2
	DefaultKeyKind        = string(workload.IntKeys)
)

type BenchOptions struct {
	config.LoggerOptions       `yaml:",inline" json:"logger_options"`
	configuration.TableOptions `yaml:",inline" json:"table_options"`

	KeyKind        string  `name:"key_kind"        json:"key_kind"        yaml:"key_kind"        description:"The kind of keys to generate. Options are 'int', 'string' and 'float'."`
	Keys           int     `name:"keys"            json:"keys"            yaml:"keys"            description:"The number of distinct keys inserted before the random operations begin."`
	Operations     int     `name:"ops"             json:"ops"             yaml:"ops"             description:"The number of random lookups, removals and insertions to perform."`
	LookupFraction float64 `name:"lookup_fraction" json:"lookup_fraction" yaml:"lookup_fraction" description:"The fraction of random operations that are lookups."`
	RemoveFraction float64 `name:"remove_fraction" json:"remove_fraction" yaml:"remove_fraction" description:"The fraction of random operations that are removals."`
	Seed           uint64  `name:"seed"            json:"seed"            yaml:"seed"            description:"The seed of the workload's random number generator. 0 means a seed derived from the current time."`
	PrometheusPort int     `name:"prometheus_port" json:"prometheus_port" yaml:"prometheus_port" description:"The port on which to serve Prometheus metrics. 0 disables the HTTP server."`
	LingerSec      int     `name:"linger_sec"      json:"linger_sec"      yaml:"linger_sec"      description:"How long, in seconds, to keep serving metrics after the workload completes."`
	EventLogPath   string  `name:"event_log"       json:"event_log"       yaml:"event_log"       description:"If set, resize events are appended to this file as JSON lines."`

	// PrettyPrintOptions, when true, instructs the driver to pretty-print the BenchOptions struct when the
	// program first begins running.
	PrettyPrintOptions bool `name:"pretty_print_options" json:"pretty_print_options" yaml:"pretty_print_options"`
}

// NewBenchOptions returns BenchOptions holding the default values, to be overridden by the command line.
func NewBenchOptions() *BenchOptions {
	return &BenchOptions{
		TableOptions:   *configuration.DefaultTableOptions(),
		KeyKind:        DefaultKeyKind,
		Keys:           DefaultKeys,
		Operations:     DefaultOperations,
		LookupFraction: DefaultLookupFraction,
		RemoveFraction: DefaultRemoveFraction,
	}
}

// Validate ensures that the values of the configuration parameters are consistent with one another.
func (o *BenchOptions) Validate() error {
	if err := o.TableOptions.Validate(); err != nil {
		return errors.WithMessage(err, "invalid table options")
	}

	cfg := o.WorkloadConfig()
	if err := cfg.Validate(); err != nil {
		return errors.WithMessage(err, "invalid workload options")
	}

	if o.LingerSec < 0 {
		return errors.Errorf("\"linger_sec\" must not be negative, got %d", o.LingerSec)
	}

	return nil
}

// WorkloadConfig returns the workload.Config described by the options.
func (o *BenchOptions) WorkloadConfig() workload.Config {
	return workload.Config{
		KeyKind:        workload.KeyKind(strings.ToLower(o.KeyKind)),
		Keys:           o.Keys,
		Operations:     o.Operations,
		LookupFraction: o.LookupFraction,
		RemoveFraction: o.RemoveFraction,
		Seed:           o.Seed,
	}
}

func (o *BenchOptions) String() string {
	m, err := json.Marshal(o)
	if err != nil {
		panic(err)
	}

	return string(m)
}

// PrettyString is the same as String, except that PrettyString calls json.MarshalIndent instead of json.Marshal.
func (o *BenchOptions) PrettyString(indentSize int) string {
	indentBuilder := strings.Builder{}
	for i := 0; i < indentSize; i++ {
		indentBuilder.WriteString(" ")
	}

	m, err := json.MarshalIndent(o, "", indentBuilder.String())
	if err != nil {
		panic(err)
	}

	return string(m)
}
