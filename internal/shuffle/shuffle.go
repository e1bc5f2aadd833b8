package shuffle

import (
	"cmp"
	"slices"
)

// Shuffle returns a permutation of items. It walks from the last index down
// to 1, swapping each slot with a uniform index in [0, i], and draws exactly
// len(items)-1 values.
func Shuffle[T any](src *Source, items []T) []T {
	out := append([]T{}, items...)
	for i := len(out) - 1; i > 0; i-- {
		j := src.Next(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// BucketedShuffle relabels items within buckets. Duplicates are folded to
// their first occurrence, buckets are shuffled in ascending key order, and
// the result maps every item to the item that takes its place. An item only
// ever maps to an item with the same key.
func BucketedShuffle[T comparable, K cmp.Ordered](src *Source, items []T, key func(T) (K, error)) (map[T]T, error) {
	buckets := make(map[K][]T)
	seen := make(map[T]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		k, err := key(item)
		if err != nil {
			return nil, err
		}
		buckets[k] = append(buckets[k], item)
	}

	keys := make([]K, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	mapping := make(map[T]T, len(seen))
	for _, k := range keys {
		original := buckets[k]
		shuffled := Shuffle(src, original)
		for i, item := range original {
			mapping[item] = shuffled[i]
		}
	}
	return mapping, nil
}

// Column is one independently shuffled attribute of a record type.
type Column[R any] interface {
	shuffle(src *Source, records []R)
}

type field[R, V any] struct {
	get func(R) V
	set func(R, V) R
}

// Field builds a Column from an accessor pair. set must return a copy of the
// record with the attribute replaced.
func Field[R, V any](get func(R) V, set func(R, V) R) Column[R] {
	return field[R, V]{get: get, set: set}
}

func (f field[R, V]) shuffle(src *Source, records []R) {
	values := make([]V, len(records))
	for i, r := range records {
		values[i] = f.get(r)
	}
	values = Shuffle(src, values)
	for i := range records {
		records[i] = f.set(records[i], values[i])
	}
}

// ColumnShuffle permutes each column independently across records, in the
// order the columns are given, and recombines by record index. A result
// record may carry attributes from several source records.
func ColumnShuffle[R any](src *Source, records []R, columns ...Column[R]) []R {
	out := append([]R{}, records...)
	for _, col := range columns {
		col.shuffle(src, out)
	}
	return out
}
