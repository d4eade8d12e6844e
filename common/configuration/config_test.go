package configuration_test

import (
	"errors"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/scusemua/chained-hashtable/common/configuration"
	"github.com/scusemua/chained-hashtable/common/types"
	"github.com/scusemua/chained-hashtable/common/utils/hashmap"
)

var _ = Describe("TableOptions", func() {
	It("should default to the sizing used by hashmap.New", func() {
		opts := configuration.DefaultTableOptions()
		Expect(opts.Validate()).To(Succeed())

		table, err := opts.NewTable()
		Expect(err).ToNot(HaveOccurred())
		Expect(table.BucketCount()).To(Equal(hashmap.DefaultBucketCount))
		Expect(table.LoadFactor()).To(Equal(hashmap.DefaultLoadFactor))
	})

	DescribeTable("should reject invalid options",
		func(mutate func(opts *configuration.TableOptions), expected error) {
			opts := configuration.DefaultTableOptions()
			mutate(opts)

			err := opts.Validate()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, expected)).To(BeTrue())

			table, err := opts.NewTable()
			Expect(table).To(BeNil())
			Expect(errors.Is(err, expected)).To(BeTrue())
		},
		Entry("bucket count", func(opts *configuration.TableOptions) { opts.BucketCount = 100 }, hashmap.ErrInvalidBucketCount),
		Entry("load factor", func(opts *configuration.TableOptions) { opts.LoadFactor = 0 }, hashmap.ErrInvalidLoadFactor),
		Entry("hash function", func(opts *configuration.TableOptions) { opts.HashFunction = "md5" }, configuration.ErrUnknownHashFunction),
	)

	It("should build a table with the configured behavior", func() {
		opts := &configuration.TableOptions{
			HashFunction:     "STRING",
			BucketCount:      31,
			LoadFactor:       2,
			HashOnlyMatching: true,
			ApproxFloats:     true,
		}
		Expect(opts.Validate()).To(Succeed())

		table, err := opts.NewTable()
		Expect(err).ToNot(HaveOccurred())
		Expect(table.BucketCount()).To(Equal(31))
		Expect(table.LoadFactor()).To(Equal(2.0))

		table.Insert(types.NewRef("one"), types.Float(0.3))
		Expect(table.HasValue(types.Float(0.1 + 0.2))).To(BeTrue())

		// With hash-only matching, a key with the same K&R hash replaces "one".
		table.Insert(types.NewRef([]byte("one")), types.Float(1))
		Expect(table.Size()).To(Equal(1))
	})

	It("should serialize to JSON", func() {
		opts := configuration.DefaultTableOptions()

		var decoded map[string]any
		Expect(json.Unmarshal([]byte(opts.String()), &decoded)).To(Succeed())
		Expect(decoded).To(HaveKeyWithValue("hash", "identity"))
		Expect(decoded).To(HaveKeyWithValue("buckets", 17.0))
		Expect(opts.PrettyString(2)).To(ContainSubstring("\n  \"load_factor\": 0.75"))

		clone := opts.Clone()
		clone.BucketCount = 31
		Expect(opts.BucketCount).To(Equal(17))
	})
})
