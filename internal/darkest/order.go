package darkest

import (
	"math"
	"sort"
)

// Order maps a key to its insertion rank. Keys missing from the table sort
// after every ranked key, alphabetically among themselves.
type Order map[string]int

func (o Order) Rank(key string) int {
	if rank, ok := o[key]; ok {
		return rank
	}
	return math.MaxInt
}

func (o Order) clone() Order {
	out := make(Order, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// add ranks key after every key already present. It is a no-op for known keys.
func (o Order) add(key string) {
	if _, ok := o[key]; ok {
		return
	}
	next := 0
	for _, rank := range o {
		if rank >= next {
			next = rank + 1
		}
	}
	o[key] = next
}

func (o Order) sort(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := o.Rank(keys[i]), o.Rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}
