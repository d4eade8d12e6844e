package hashmap

import "fmt"

// Stats summarizes the shape of a ChainedHashTable.
type Stats struct {
	Size         int     `json:"size"`
	BucketCount  int     `json:"bucket_count"`
	LoadFactor   float64 `json:"load_factor"`
	Load         float64 `json:"load"`
	EmptyBuckets int     `json:"empty_buckets"`
	LongestChain int     `json:"longest_chain"`
	Resizes      int     `json:"resizes"`
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats[Size=%d, Buckets=%d, Load=%.3f/%.3f, EmptyBuckets=%d, LongestChain=%d, Resizes=%d]",
		s.Size, s.BucketCount, s.Load, s.LoadFactor, s.EmptyBuckets, s.LongestChain, s.Resizes)
}

// Stats walks every bucket and returns the table's current Stats.
func (t *ChainedHashTable) Stats() Stats {
	stats := Stats{
		Size:        t.size,
		BucketCount: len(t.buckets),
		LoadFactor:  t.loadFactor,
		Load:        t.Load(),
		Resizes:     t.resizes,
	}

	for i := range t.buckets {
		length := 0
		for cursor := t.buckets[i].next; cursor != nil; cursor = cursor.next {
			length++
		}

		if length == 0 {
			stats.EmptyBuckets++
		}
		if length > stats.LongestChain {
			stats.LongestChain = length
		}
	}

	return stats
}
