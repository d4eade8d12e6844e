package hashmap_test

import (
	"math"

	"github.com/cespare/xxhash/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/scusemua/chained-hashtable/common/types"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
)

var _ = Describe("Hashing", func() {
	DescribeTable("IdentityHash of scalar keys",
		func(key types.Element, expected uint64) {
			Expect(hashmap.IdentityHash(key)).To(Equal(expected))
		},
		Entry("Int", types.Int(5), uint64(5)),
		Entry("negative Int", types.Int(-1), uint64(math.MaxUint64)),
		Entry("Uint", types.Uint(42), uint64(42)),
		Entry("true", types.Bool(true), uint64(1)),
		Entry("false", types.Bool(false), uint64(0)),
		Entry("Float", types.Float(1.0), math.Float64bits(1.0)),
	)

	It("should hash Ref keys with xxhash", func() {
		Expect(hashmap.IdentityHash(types.NewRef("abc"))).To(Equal(xxhash.Sum64String("abc")))
		Expect(hashmap.XXHash(types.NewRef("abc"))).To(Equal(xxhash.Sum64String("abc")))
		Expect(hashmap.XXHash(types.NewRef([]byte("abc")))).To(Equal(xxhash.Sum64String("abc")))
		Expect(hashmap.XXHash(types.Int(7))).To(Equal(hashmap.XXHash(types.Uint(7))))
	})

	It("should compute the K&R string hash", func() {
		Expect(hashmap.StringHash(types.NewRef("one"))).To(Equal(uint64(110182)))
		Expect(hashmap.StringHash(types.NewRef([]byte("one")))).To(Equal(uint64(110182)))
		Expect(hashmap.StringHash(types.NewRef(""))).To(Equal(uint64(0)))
		Expect(hashmap.StringHash(types.Int(12))).To(Equal(uint64(12)))
	})

	It("should fill in missing functions of a Hasher", func() {
		hasher := hashmap.NewHasher(nil, nil, nil)

		Expect(hasher.Hash(types.Int(3))).To(Equal(uint64(3)))
		Expect(hasher.KeyEqual(types.Int(3), nil, types.Int(3))).To(BeTrue())
		Expect(hasher.KeyEqual(types.Int(3), nil, types.Uint(3))).To(BeFalse())
		Expect(hasher.ValueEqual(nil, types.NewRef("a"), types.NewRef("a"))).To(BeTrue())
		Expect(hasher.ValueEqual(nil, types.NewRef("a"), "a")).To(BeFalse())
	})

	It("should prefer an explicit Hasher over individual functions", func() {
		table := hashmap.New(
			hashmap.WithHashFunc(func(types.Element) uint64 { return 0 }),
			hashmap.WithHasher(hashmap.NewHasher(hashmap.StringHash, nil, nil)))

		for _, key := range []string{"alpha", "beta", "gamma", "delta"} {
			table.Insert(types.NewRef(key), types.NewRef(key))
		}

		Expect(table.Stats().LongestChain).To(BeNumerically("<", 4))
		Expect(hashmap.CheckInvariants(table)).To(Succeed())
	})
})

var _ = Describe("Bucket counts", func() {
	It("should list the supported primes in ascending order", func() {
		Expect(hashmap.BucketCounts()).To(Equal([]int{17, 31, 67, 127, 257, 509, 1021, 2053, 4099, 8191, 16381}))
		Expect(hashmap.MaxBucketCount()).To(Equal(16381))
	})

	It("should not expose the internal progression", func() {
		counts := hashmap.BucketCounts()
		counts[0] = 1
		Expect(hashmap.BucketCounts()[0]).To(Equal(17))
	})

	DescribeTable("IsValidBucketCount",
		func(n int, valid bool) {
			Expect(hashmap.IsValidBucketCount(n)).To(Equal(valid))
		},
		Entry("smallest", 17, true),
		Entry("middle", 1021, true),
		Entry("largest", 16381, true),
		Entry("zero", 0, false),
		Entry("negative", -17, false),
		Entry("between primes", 100, false),
		Entry("beyond largest", 32771, false),
	)

	DescribeTable("NextBucketCount",
		func(current int, expected int, ok bool) {
			next, found := hashmap.NextBucketCount(current)
			Expect(found).To(Equal(ok))
			Expect(next).To(Equal(expected))
		},
		Entry("from the first prime", 17, 31, true),
		Entry("from a non-prime", 18, 31, true),
		Entry("from below the first prime", 0, 17, true),
		Entry("from the second-largest prime", 8191, 16381, true),
		Entry("from the largest prime", 16381, 0, false),
	)
})

var _ = Describe("Observers", func() {
	It("should log resizes through zap", func() {
		core, logs := observer.New(zapcore.InfoLevel)
		table := hashmap.New(hashmap.WithObserver(hashmap.NewZapObserver(zap.New(core))))

		fillInts(table, 14)

		Expect(logs.Len()).To(Equal(1))
		entry := logs.All()[0]
		Expect(entry.Message).To(Equal("hash table resized"))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("table", table.ID()))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("old_buckets", int64(17)))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("new_buckets", int64(31)))
		Expect(entry.ContextMap()).To(HaveKeyWithValue("entries", int64(13)))
	})

	It("should warn through zap when the table cannot grow", func() {
		core, logs := observer.New(zapcore.InfoLevel)
		table, err := hashmap.NewDynamic(16381, 0.001, hashmap.WithObserver(hashmap.NewZapObserver(zap.New(core))))
		Expect(err).ToNot(HaveOccurred())

		fillInts(table, 40)

		warnings := logs.FilterMessage("hash table resize exhausted")
		Expect(warnings.Len()).To(Equal(1))
		Expect(warnings.All()[0].Level).To(Equal(zapcore.WarnLevel))
	})

	It("should notify again after the table is cleared and refilled", func() {
		core, logs := observer.New(zapcore.InfoLevel)
		table, err := hashmap.NewDynamic(16381, 0.001, hashmap.WithObserver(hashmap.NewZapObserver(zap.New(core))))
		Expect(err).ToNot(HaveOccurred())

		fillInts(table, 40)
		table.Clear()
		fillInts(table, 40)

		Expect(logs.FilterMessage("hash table resize exhausted").Len()).To(Equal(2))
	})
})
