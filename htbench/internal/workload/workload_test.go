package workload_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"github.com/scusemua/chained-hashtable/common/metrics"
	"github.com/scusemua/chained-hashtable/common/types"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
	"github.com/scusemua/chained-hashtable/htbench/internal/workload"
	"github.com/scusemua/chained-hashtable/htbench/internal/workload/mock_workload"
)

func validConfig() workload.Config {
	return workload.Config{
		KeyKind:        workload.IntKeys,
		Keys:           500,
		Operations:     2000,
		LookupFraction: 0.5,
		RemoveFraction: 0.25,
		Seed:           42,
	}
}

var _ = Describe("Workload", func() {
	DescribeTable("should reject invalid configurations",
		func(mutate func(cfg *workload.Config)) {
			cfg := validConfig()
			mutate(&cfg)

			runner, err := workload.NewRunner(cfg, nil)
			Expect(runner).To(BeNil())
			Expect(errors.Is(err, workload.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("unknown key kind", func(cfg *workload.Config) { cfg.KeyKind = "bytes" }),
		Entry("no keys", func(cfg *workload.Config) { cfg.Keys = 0 }),
		Entry("negative operations", func(cfg *workload.Config) { cfg.Operations = -1 }),
		Entry("negative fraction", func(cfg *workload.Config) { cfg.LookupFraction = -0.1 }),
		Entry("fractions above one", func(cfg *workload.Config) { cfg.LookupFraction, cfg.RemoveFraction = 0.75, 0.5 }),
	)

	DescribeTable("should run against a table and verify its contents",
		func(kind workload.KeyKind, hash hashmap.HashFunc) {
			cfg := validConfig()
			cfg.KeyKind = kind

			runner, err := workload.NewRunner(cfg, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(runner.Keys()).To(HaveLen(cfg.Keys))

			table := hashmap.New(hashmap.WithHashFunc(hash))
			result, err := runner.Run(context.Background(), table)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Inserts+result.Lookups+result.Removes).To(Equal(cfg.Keys + cfg.Operations))
			Expect(result.Hits).To(BeNumerically("<=", result.Lookups))
			Expect(result.Removed).To(BeNumerically("<=", result.Removes))
			Expect(result.Stats.Size).To(Equal(table.Size()))
			Expect(result.Stats.BucketCount).To(Equal(table.BucketCount()))
			Expect(result.Stats.Resizes).To(BeNumerically(">", 0))
			Expect(result.String()).To(ContainSubstring(fmt.Sprintf("Inserts=%d", result.Inserts)))
		},
		Entry("int keys", workload.IntKeys, hashmap.IdentityHash),
		Entry("string keys with the K&R hash", workload.StringKeys, hashmap.StringHash),
		Entry("string keys with xxhash", workload.StringKeys, hashmap.XXHash),
		Entry("float keys", workload.FloatKeys, hashmap.IdentityHash),
	)

	It("should generate the same keys for the same seed", func() {
		cfg := validConfig()
		cfg.KeyKind = workload.StringKeys

		first, err := workload.NewRunner(cfg, nil)
		Expect(err).ToNot(HaveOccurred())
		second, err := workload.NewRunner(cfg, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(second.Keys()).To(Equal(first.Keys()))

		cfg.Seed++
		third, err := workload.NewRunner(cfg, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(third.Keys()).ToNot(Equal(first.Keys()))
	})

	It("should record every operation", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		recorder := mock_workload.NewMockOperationRecorder(mockCtrl)

		cfg := validConfig()
		cfg.Operations = 0

		table := hashmap.New()
		recorder.EXPECT().
			ObserveOperation(table.ID(), metrics.OpInsert, true, gomock.Any()).
			Return(nil).
			Times(cfg.Keys)

		runner, err := workload.NewRunner(cfg, recorder)
		Expect(err).ToNot(HaveOccurred())

		result, err := runner.Run(context.Background(), table)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Inserts).To(Equal(cfg.Keys))
		Expect(table.Size()).To(Equal(cfg.Keys))
	})

	It("should keep running when an operation cannot be recorded", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		recorder := mock_workload.NewMockOperationRecorder(mockCtrl)
		recorder.EXPECT().
			ObserveOperation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(metrics.ErrMetricsNotInitialized).
			AnyTimes()

		runner, err := workload.NewRunner(validConfig(), recorder)
		Expect(err).ToNot(HaveOccurred())

		_, err = runner.Run(context.Background(), hashmap.New())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should report operations to the Prometheus manager", func() {
		manager := metrics.NewTablePrometheusManager(0)
		Expect(manager.InitializeMetrics()).To(Succeed())

		runner, err := workload.NewRunner(validConfig(), manager)
		Expect(err).ToNot(HaveOccurred())

		table := hashmap.New(hashmap.WithObserver(manager))
		result, err := runner.Run(context.Background(), table)
		Expect(err).ToNot(HaveOccurred())

		inserts := testutil.ToFloat64(manager.OperationsCounterVec.WithLabelValues(table.ID(), "insert", "true"))
		Expect(inserts).To(Equal(float64(result.Inserts)))
		Expect(testutil.ToFloat64(manager.ResizesCounterVec.WithLabelValues(table.ID()))).To(Equal(float64(result.Stats.Resizes)))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		runner, err := workload.NewRunner(validConfig(), nil)
		Expect(err).ToNot(HaveOccurred())

		result, err := runner.Run(ctx, hashmap.New())
		Expect(result).To(BeNil())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("should detect a table that does not match the workload", func() {
		cfg := validConfig()
		cfg.Operations = 0

		runner, err := workload.NewRunner(cfg, nil)
		Expect(err).ToNot(HaveOccurred())

		table := hashmap.New()
		_, err = runner.Run(context.Background(), table)
		Expect(err).ToNot(HaveOccurred())
		Expect(runner.Verify(table)).To(Succeed())

		table.Insert(runner.Keys()[0], types.Bool(true))
		Expect(errors.Is(runner.Verify(table), workload.ErrVerificationFailed)).To(BeTrue())

		table.Remove(runner.Keys()[0])
		Expect(errors.Is(runner.Verify(table), workload.ErrVerificationFailed)).To(BeTrue())
	})
})
