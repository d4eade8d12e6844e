package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scusemua/chained-hashtable/htbench/domain"
)

var _ = Describe("htbench", func() {
	BeforeEach(func() {
		options = domain.NewBenchOptions()
		options.Keys = 100
		options.Operations = 500
		options.Seed = 7
		options.PrometheusPort = 0
	})

	Context("Linger", func() {
		It("should return once the duration has elapsed", func() {
			Expect(linger(context.Background(), time.Millisecond)).To(BeTrue())
		})

		It("should return early when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(10 * time.Millisecond)
				cancel()
			}()

			st := time.Now()
			Expect(linger(ctx, time.Minute)).To(BeFalse())
			Expect(time.Since(st)).To(BeNumerically("<", 30*time.Second))
		})
	})

	Context("Running", func() {
		It("should exit with 0 after a successful workload", func() {
			Expect(run()).To(Equal(0))
		})

		It("should flush the event log before returning", func() {
			path := filepath.Join(GinkgoT().TempDir(), "events.jsonl")
			options.EventLogPath = path

			Expect(run()).To(Equal(0))

			contents, err := os.ReadFile(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(contents)).To(ContainSubstring("hash table resized"))
			Expect(string(contents)).To(ContainSubstring("run_id"))
		})

		It("should exit with 1 and still close the event log when the table cannot be created", func() {
			path := filepath.Join(GinkgoT().TempDir(), "events.jsonl")
			options.EventLogPath = path
			options.HashFunction = "md5"

			Expect(run()).To(Equal(1))

			_, err := os.Stat(path)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should exit with 1 when the workload cannot be created", func() {
			options.Keys = 0

			Expect(run()).To(Equal(1))
		})
	})
})
