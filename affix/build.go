package affix

import "sort"

// buildTable buckets entries by the first byte of their Key, sorts each
// bucket lexicographically, and derives NextNe for every entry.
//
// NextNe skips the entire contiguous run of entries whose Key has this
// entry's Key as a prefix, landing on the first entry that does not.
// Because entries are sorted lexicographically, every Key sharing a given
// prefix is contiguous, so this is a single forward scan per entry.
func buildTable(kind Kind, entries []*Entry) *Table {
	t := &Table{kind: kind}
	byFirst := make(map[byte][]*Entry)
	for _, e := range entries {
		if e.Key == "" {
			byFirst[0] = append(byFirst[0], e)
			continue
		}
		byFirst[e.Key[0]] = append(byFirst[e.Key[0]], e)
	}
	for first, bucket := range byFirst {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Key < bucket[j].Key })
		for i, e := range bucket {
			e.nextNe = -1
			j := i + 1
			for j < len(bucket) && len(bucket[j].Key) >= len(e.Key) && bucket[j].Key[:len(e.Key)] == e.Key {
				j++
			}
			if j < len(bucket) {
				e.nextNe = j
			}
		}
		t.buckets[first] = bucket
	}
	return t
}
