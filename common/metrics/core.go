package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Scusemua/go-utils/config"
	"github.com/Scusemua/go-utils/logger"
	"github.com/gin-gonic/contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scusemua/chained-hashtable/common/utils"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
)

const (
	Namespace = "chained_hashtable"

	OpInsert Operation = "insert"
	OpLookup Operation = "lookup"
	OpRemove Operation = "remove"
	OpClear  Operation = "clear"
)

var (
	ErrPrometheusManagerAlreadyRunning = errors.New("TablePrometheusManager is already running")
	ErrPrometheusManagerNotRunning     = errors.New("TablePrometheusManager is not running")
	ErrMetricsNotInitialized           = errors.New("the TablePrometheusManager has not been initialized yet")
)

var _ hashmap.Observer = (*TablePrometheusManager)(nil)

// Operation labels the hash table operation an observation belongs to.
type Operation string

func (op Operation) String() string {
	return string(op)
}

// TablePrometheusManager is responsible for registering hash table metrics with Prometheus and serving them via
// HTTP. It is also a hashmap.Observer, so it can be passed to hashmap.WithObserver to track resizes directly.
//
// Every metric is labeled with the "table_id" of the table it describes.
type TablePrometheusManager struct {
	log logger.Logger

	registry          *prometheus.Registry
	prometheusHandler http.Handler
	engine            *gin.Engine
	httpServer        *http.Server

	// ResizesCounterVec counts the number of times a table's bucket array has been replaced.
	ResizesCounterVec *prometheus.CounterVec

	// ResizeExhaustedCounterVec counts the number of times a table reached its load factor while already
	// at the largest supported bucket count.
	ResizeExhaustedCounterVec *prometheus.CounterVec

	// BucketCountGaugeVec is the current bucket count of a table.
	BucketCountGaugeVec *prometheus.GaugeVec

	// EntriesGaugeVec is the number of entries a table held when last reported.
	EntriesGaugeVec *prometheus.GaugeVec

	// OperationsCounterVec counts operations by "table_id", "operation" and "found".
	OperationsCounterVec *prometheus.CounterVec

	// OperationLatencyMicrosecondsVec is a histogram of the latency, in microseconds, of individual operations.
	OperationLatencyMicrosecondsVec *prometheus.HistogramVec

	port int
	mu   sync.Mutex

	// serving indicates whether the manager has been started and is serving requests.
	serving            bool
	metricsInitialized bool
}

// NewTablePrometheusManager creates a new TablePrometheusManager that will serve its metrics on the given port.
// A port of 0 or less disables the HTTP listener; the metrics are still recorded and can be read through Handler.
func NewTablePrometheusManager(port int) *TablePrometheusManager {
	registry := prometheus.NewRegistry()

	manager := &TablePrometheusManager{
		port:              port,
		registry:          registry,
		prometheusHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		serving:           false,
	}
	config.InitLogger(&manager.log, manager)
	return manager
}

// Registry returns the registry that the metrics are registered with.
func (m *TablePrometheusManager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the metrics. It is nil until Start has been called.
func (m *TablePrometheusManager) Handler() http.Handler {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine == nil {
		return nil
	}

	return m.engine
}

// isRunningUnsafe returns true if the TablePrometheusManager has been started and is serving metrics.
// This does not acquire the mutex and is intended for file-internal use only.
func (m *TablePrometheusManager) isRunningUnsafe() bool {
	return m.serving
}

// IsRunning returns true if the TablePrometheusManager has been started and is serving metrics.
func (m *TablePrometheusManager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.isRunningUnsafe()
}

// Start registers metrics with Prometheus and begins serving the metrics via an HTTP endpoint.
func (m *TablePrometheusManager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.serving {
		m.log.Warn("TablePrometheusManager is already running.")
		return ErrPrometheusManagerAlreadyRunning
	}

	if !m.metricsInitialized {
		if err := m.initializeMetrics(); err != nil {
			return err
		}
	}

	m.serving = true
	m.initializeHttpServer()

	return nil
}

// Stop instructs the TablePrometheusManager to shut down its HTTP server.
func (m *TablePrometheusManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunningUnsafe() /* we already have the lock */ {
		m.log.Warn("TablePrometheusManager is not running.")
		return ErrPrometheusManagerNotRunning
	}

	m.serving = false
	if m.httpServer == nil {
		return nil
	}

	if err := m.httpServer.Shutdown(context.Background()); err != nil {
		m.log.Error("Failed to cleanly shutdown the HTTP server: %v", err)
		return err
	}

	return nil
}

// HandleRequest handles Prometheus HTTP requests (when Prometheus is scraping for metrics).
func (m *TablePrometheusManager) HandleRequest(c *gin.Context) {
	m.prometheusHandler.ServeHTTP(c.Writer, c.Request)
}

func (m *TablePrometheusManager) initializeHttpServer() {
	m.engine = gin.New()

	// Commented-out for now as I don't want the log messages for Prometheus requests.
	// m.engine.Use(gin.Logger())
	m.engine.Use(gin.Recovery())
	m.engine.Use(cors.Default())

	m.engine.GET("/metrics", m.HandleRequest)

	if m.port <= 0 {
		m.log.Debug("Prometheus Port is set to %d. Not serving HTTP server.", m.port)
		return
	}

	address := fmt.Sprintf("0.0.0.0:%d", m.port)
	m.httpServer = &http.Server{
		Addr:    address,
		Handler: m.engine,
	}

	go func() {
		m.log.Debug("Serving Prometheus metrics at %s", address)
		if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error(utils.RedStyle.Render("HTTP Server failed to listen on '%s'. Error: %v"), address, err)
		}
	}()
}

// InitializeMetrics creates and registers the metrics without starting the HTTP server.
// It is a no-op if the metrics have already been initialized.
func (m *TablePrometheusManager) InitializeMetrics() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.metricsInitialized {
		return nil
	}

	return m.initializeMetrics()
}

func (m *TablePrometheusManager) initializeMetrics() error {
	m.ResizesCounterVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "resizes_total",
		Help:      "The number of times a table's bucket array has been grown and its entries rehashed.",
	}, []string{"table_id"})
	m.ResizeExhaustedCounterVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "resize_exhausted_total",
		Help:      "The number of times a table reached its load factor while already at the largest bucket count.",
	}, []string{"table_id"})
	m.BucketCountGaugeVec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "buckets",
		Help:      "The current bucket count of a table.",
	}, []string{"table_id"})
	m.EntriesGaugeVec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "entries",
		Help:      "The number of entries held by a table.",
	}, []string{"table_id"})
	m.OperationsCounterVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "operations_total",
		Help:      "The number of operations performed on a table.",
	}, []string{"table_id", "operation", "found"})
	m.OperationLatencyMicrosecondsVec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "operation_latency_microseconds",
		Help:      "The latency, in microseconds, of a single table operation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
	}, []string{"table_id", "operation"})

	if err := m.registry.Register(m.ResizesCounterVec); err != nil {
		m.log.Error("Failed to register 'Resizes' metric because: %v", err)
		return err
	}

	if err := m.registry.Register(m.ResizeExhaustedCounterVec); err != nil {
		m.log.Error("Failed to register 'Resize Exhausted' metric because: %v", err)
		return err
	}

	if err := m.registry.Register(m.BucketCountGaugeVec); err != nil {
		m.log.Error("Failed to register 'Bucket Count' metric because: %v", err)
		return err
	}

	if err := m.registry.Register(m.EntriesGaugeVec); err != nil {
		m.log.Error("Failed to register 'Entries' metric because: %v", err)
		return err
	}

	if err := m.registry.Register(m.OperationsCounterVec); err != nil {
		m.log.Error("Failed to register 'Operations' metric because: %v", err)
		return err
	}

	if err := m.registry.Register(m.OperationLatencyMicrosecondsVec); err != nil {
		m.log.Error("Failed to register 'Operation Latency' metric because: %v", err)
		return err
	}

	m.metricsInitialized = true
	return nil
}

//////////////////////////////////////////////
// hashmap.Observer interface implementation //
//////////////////////////////////////////////

// OnResize records a completed resize of the table identified by event.TableID.
func (m *TablePrometheusManager) OnResize(event hashmap.ResizeEvent) {
	if !m.metricsInitialized {
		m.log.Warn("Cannot record resize of table %s as metrics have not yet been initialized...", event.TableID)
		return
	}

	labels := prometheus.Labels{"table_id": event.TableID}
	m.ResizesCounterVec.With(labels).Inc()
	m.BucketCountGaugeVec.With(labels).Set(float64(event.NewBucketCount))
	m.EntriesGaugeVec.With(labels).Set(float64(event.Entries))
}

// OnResizeExhausted records that the table identified by event.TableID could not grow any further.
func (m *TablePrometheusManager) OnResizeExhausted(event hashmap.ResizeEvent) {
	if !m.metricsInitialized {
		m.log.Warn("Cannot record exhausted resize of table %s as metrics have not yet been initialized...", event.TableID)
		return
	}

	labels := prometheus.Labels{"table_id": event.TableID}
	m.ResizeExhaustedCounterVec.With(labels).Inc()
	m.BucketCountGaugeVec.With(labels).Set(float64(event.OldBucketCount))
	m.EntriesGaugeVec.With(labels).Set(float64(event.Entries))
}

// ObserveOperation records one operation on a table and its latency.
//
// If the target TablePrometheusManager has not yet initialized its metrics yet, then an ErrMetricsNotInitialized
// error is returned.
func (m *TablePrometheusManager) ObserveOperation(tableId string, op Operation, found bool, latency time.Duration) error {
	if !m.metricsInitialized {
		m.log.Warn("Cannot record \"%s\" operation as metrics have not yet been initialized...", op)
		return ErrMetricsNotInitialized
	}

	m.OperationsCounterVec.With(prometheus.Labels{
		"table_id":  tableId,
		"operation": op.String(),
		"found":     strconv.FormatBool(found),
	}).Inc()

	m.OperationLatencyMicrosecondsVec.With(prometheus.Labels{
		"table_id":  tableId,
		"operation": op.String(),
	}).Observe(float64(latency.Nanoseconds()) / 1.0e3)

	return nil
}

// ReportTable sets the bucket count and entry gauges of the given table to its current state.
func (m *TablePrometheusManager) ReportTable(table *hashmap.ChainedHashTable) error {
	if !m.metricsInitialized {
		m.log.Warn("Cannot report table %s as metrics have not yet been initialized...", table.ID())
		return ErrMetricsNotInitialized
	}

	labels := prometheus.Labels{"table_id": table.ID()}
	m.BucketCountGaugeVec.With(labels).Set(float64(table.BucketCount()))
	m.EntriesGaugeVec.With(labels).Set(float64(table.Size()))

	return nil
}
