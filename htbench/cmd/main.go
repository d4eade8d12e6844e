package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Scusemua/go-utils/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/scusemua/chained-hashtable/common/metrics"
	"github.com/scusemua/chained-hashtable/common/utils"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
	"github.com/scusemua/chained-hashtable/htbench/domain"
	"github.com/scusemua/chained-hashtable/htbench/internal/workload"
)

var (
	options      = domain.NewBenchOptions()
	globalLogger = config.GetLogger("")
	sig          = make(chan os.Signal, 1)
)

func init() {
	lipgloss.SetColorProfile(termenv.ANSI256)

	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT)
}

// ValidateOptions ensures that the options/configuration is valid.
func ValidateOptions() {
	flags, err := config.ValidateOptions(options)
	if errors.Is(err, config.ErrPrintUsage) {
		flags.PrintDefaults()
		os.Exit(0)
	} else if err != nil {
		log.Fatal(err)
	}
}

// createEventLogger returns a zap.Logger writing JSON lines to the configured event log, or nil if no event log
// was configured.
func createEventLogger() (*zap.Logger, error) {
	if options.EventLogPath == "" {
		return nil, nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{options.EventLogPath}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	eventLogger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create event log \"%s\"", options.EventLogPath)
	}

	return eventLogger.With(zap.String("run_id", uuid.NewString())), nil
}

func printResult(table *hashmap.ChainedHashTable, result *workload.Result) {
	row := func(name string, value any) string {
		return fmt.Sprintf("%s %v", utils.GrayStyle.Render(fmt.Sprintf("%-16s", name)), value)
	}

	lines := []string{
		utils.HeaderStyle.Render(fmt.Sprintf("Table %s", table.ID())),
		row("Inserts", result.Inserts),
		row("Lookups", fmt.Sprintf("%d (%d hits)", result.Lookups, result.Hits)),
		row("Removes", fmt.Sprintf("%d (%d removed)", result.Removes, result.Removed)),
		row("Duration", result.Duration),
		row("Throughput", fmt.Sprintf("%.0f ops/sec",
			float64(result.Inserts+result.Lookups+result.Removes)/result.Duration.Seconds())),
		row("Entries", result.Stats.Size),
		row("Buckets", result.Stats.BucketCount),
		row("Load", fmt.Sprintf("%.3f / %.3f", result.Stats.Load, result.Stats.LoadFactor)),
		row("Empty buckets", result.Stats.EmptyBuckets),
		row("Longest chain", result.Stats.LongestChain),
		row("Resizes", result.Stats.Resizes),
	}

	fmt.Println(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// linger blocks until d has elapsed or ctx is done, whichever comes first. It returns false if ctx ended the wait.
func linger(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// run executes the benchmark and returns the process exit code. Deferred cleanup, such as flushing the event
// log, runs before run returns.
func run() int {
	if options.Seed == 0 {
		options.Seed = uint64(time.Now().UnixNano())
	}

	if options.PrettyPrintOptions {
		globalLogger.Info("Starting htbench with the following options:\n%s\n", options.PrettyString(2))
	} else {
		globalLogger.Info("Starting htbench.")
	}

	metricsManager := metrics.NewTablePrometheusManager(options.PrometheusPort)
	if err := metricsManager.Start(); err != nil {
		globalLogger.Error("Failed to start Prometheus manager: %v", err)
		return 1
	}
	defer func() {
		if err := metricsManager.Stop(); err != nil {
			globalLogger.Error("Failed to stop Prometheus manager: %v", err)
		}
	}()

	tableOpts := []hashmap.Option{hashmap.WithObserver(metricsManager)}

	eventLogger, err := createEventLogger()
	if err != nil {
		globalLogger.Error("%v", err)
		return 1
	}
	if eventLogger != nil {
		defer func() { _ = eventLogger.Sync() }()
		tableOpts = append(tableOpts, hashmap.WithObserver(hashmap.NewZapObserver(eventLogger)))
	}

	table, err := options.TableOptions.NewTable(tableOpts...)
	if err != nil {
		globalLogger.Error("Failed to create table: %v", err)
		return 1
	}
	defer table.Destroy()

	runner, err := workload.NewRunner(options.WorkloadConfig(), metricsManager)
	if err != nil {
		globalLogger.Error("Failed to create workload: %v", err)
		return 1
	}

	// The signal goroutine is the only reader of sig. Everything else waits on ctx.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case s := <-sig:
			globalLogger.Warn(utils.YellowStyle.Render("Received signal %v. Shutting down."), s)
			cancel()
		case <-ctx.Done():
		}
	}()

	globalLogger.Info("Running workload of %d keys and %d operations against %v (seed=%d).",
		options.Keys, options.Operations, table, options.Seed)

	result, err := runner.Run(ctx, table)
	if err != nil {
		globalLogger.Error(utils.RedStyle.Render("Workload failed: %v"), err)
		return 1
	}

	if err = metricsManager.ReportTable(table); err != nil {
		globalLogger.Warn("Failed to report table: %v", err)
	}

	printResult(table, result)

	if options.LingerSec > 0 && options.PrometheusPort > 0 {
		globalLogger.Info(utils.LightBlueStyle.Render("Serving metrics on port %d for another %d seconds."),
			options.PrometheusPort, options.LingerSec)

		linger(ctx, time.Duration(options.LingerSec)*time.Second)
	}

	globalLogger.Info(utils.GreenStyle.Render("Done."))
	return 0
}

func main() {
	// Ensure that the options/configuration is valid.
	ValidateOptions()

	os.Exit(run())
}
