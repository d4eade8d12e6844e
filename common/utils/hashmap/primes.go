package hashmap

import "slices"

const (
	// DefaultBucketCount is the number of buckets used by New.
	DefaultBucketCount = 17

	// DefaultLoadFactor is the load factor used by New.
	DefaultLoadFactor = 0.75
)

// bucketCounts is the ascending progression of bucket counts a table moves through as it grows.
var bucketCounts = [...]int{17, 31, 67, 127, 257, 509, 1021, 2053, 4099, 8191, 16381}

// BucketCounts returns the valid bucket counts in ascending order.
func BucketCounts() []int {
	return slices.Clone(bucketCounts[:])
}

// MaxBucketCount is the largest bucket count a table can have.
func MaxBucketCount() int {
	return bucketCounts[len(bucketCounts)-1]
}

// IsValidBucketCount reports whether n is one of the supported bucket counts.
func IsValidBucketCount(n int) bool {
	_, found := slices.BinarySearch(bucketCounts[:], n)
	return found
}

// nextBucketCount returns the smallest supported bucket count strictly greater than current.
// ok is false when current is already the largest.
func nextBucketCount(current int) (next int, ok bool) {
	idx, found := slices.BinarySearch(bucketCounts[:], current)
	if found {
		idx++
	}

	if idx >= len(bucketCounts) {
		return 0, false
	}

	return bucketCounts[idx], true
}
