package hashmap

import (
	"github.com/Scusemua/go-utils/logger"
	"go.uber.org/zap"
)

// ResizeEvent describes a resize, or an attempted resize, of a ChainedHashTable.
type ResizeEvent struct {
	TableID        string
	OldBucketCount int
	// NewBucketCount equals OldBucketCount when the resize could not happen.
	NewBucketCount int
	Entries        int
	Load           float64
	LoadFactor     float64
}

// Observer is notified whenever a table's load reaches its load factor.
type Observer interface {
	// OnResize is called after the entries have been moved to the new bucket array.
	OnResize(event ResizeEvent)

	// OnResizeExhausted is called when the table is already at MaxBucketCount and keeps
	// inserting into longer chains instead.
	OnResizeExhausted(event ResizeEvent)
}

type logObserver struct {
	log logger.Logger
}

// NewLogObserver returns an Observer that reports resizes through log.
func NewLogObserver(log logger.Logger) Observer {
	return &logObserver{log: log}
}

func (o *logObserver) OnResize(event ResizeEvent) {
	o.log.Debug("Maximum load factor reached (%.2f >= %.2f); resized from %d to %d buckets and rehashed %d entries.",
		event.Load, event.LoadFactor, event.OldBucketCount, event.NewBucketCount, event.Entries)
}

func (o *logObserver) OnResizeExhausted(event ResizeEvent) {
	o.log.Warn("Maximum load factor reached (%.2f >= %.2f), but the table already has the maximum of %d buckets. Chains will keep growing.",
		event.Load, event.LoadFactor, event.OldBucketCount)
}

// ZapObserver emits one structured log record per resize event.
type ZapObserver struct {
	log *zap.Logger
}

func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

func (o *ZapObserver) OnResize(event ResizeEvent) {
	o.log.Info("hash table resized", o.fields(event)...)
}

func (o *ZapObserver) OnResizeExhausted(event ResizeEvent) {
	o.log.Warn("hash table resize exhausted", o.fields(event)...)
}

func (o *ZapObserver) fields(event ResizeEvent) []zap.Field {
	return []zap.Field{
		zap.String("table", event.TableID),
		zap.Int("old_buckets", event.OldBucketCount),
		zap.Int("new_buckets", event.NewBucketCount),
		zap.Int("entries", event.Entries),
		zap.Float64("load", event.Load),
		zap.Float64("load_factor", event.LoadFactor),
	}
}
