package hashmap

// resize grows the bucket array to the next supported bucket count if the table's load has reached
// its load factor.
//
// Entries are re-linked into the new array rather than copied. At MaxBucketCount nothing happens
// apart from notifying the observers, once, that the table is saturated.
func (t *ChainedHashTable) resize() {
	load := t.Load()
	if load < t.loadFactor {
		t.saturated = false
		return
	}

	oldBucketCount := len(t.buckets)
	event := ResizeEvent{
		TableID:        t.id,
		OldBucketCount: oldBucketCount,
		NewBucketCount: oldBucketCount,
		Entries:        t.size,
		Load:           load,
		LoadFactor:     t.loadFactor,
	}

	newBucketCount, ok := nextBucketCount(oldBucketCount)
	if !ok {
		if !t.saturated {
			t.saturated = true
			for _, observer := range t.observers {
				observer.OnResizeExhausted(event)
			}
		}
		return
	}

	t.buckets = rehash(t.buckets, newBucketCount)
	t.resizes++

	event.NewBucketCount = newBucketCount
	for _, observer := range t.observers {
		observer.OnResize(event)
	}
}

// rehash moves every entry of buckets into a new array of bucketCount buckets, keeping each chain
// sorted by hash. The old sentinels are left empty.
func rehash(buckets []entry, bucketCount int) []entry {
	rehashed := make([]entry, bucketCount)

	for i := range buckets {
		cursor := buckets[i].next
		buckets[i].next = nil

		for cursor != nil {
			next := cursor.next

			prev := predecessor(&rehashed[cursor.hash%uint64(bucketCount)], cursor.hash)
			cursor.next = prev.next
			prev.next = cursor

			cursor = next
		}
	}

	return rehashed
}
