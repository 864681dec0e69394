package reconcile

import (
	"reflect"
	"sort"
)

// Getter is the read side of a settings store.
type Getter interface {
	Get(key string, def any) any
}

// Write is a single pending settings mutation.
type Write struct {
	// Key is the setting name.
	Key string

	// Value is the merged value to store.
	Value any
}

// WriteSet is the ordered set of mutations a reconciliation would apply.
type WriteSet []Write

// IsEmpty reports whether the plan contains no writes.
func (ws WriteSet) IsEmpty() bool {
	return len(ws) == 0
}

// Plan computes the write-set for one reconciliation.
//
// For each concrete key, in order, the stored dictionary value is merged
// into an accumulator with later keys overwriting same-named entries.
// Merging is shallow: each top-level setting name is replaced whole.
// Values absent from the store, or stored as something other than a
// dictionary, contribute nothing. The result contains only entries whose
// merged value differs from the live setting, in sorted key order.
func Plan(s Getter, keys []string) WriteSet {
	merged := make(map[string]any)
	for _, key := range keys {
		dict, ok := s.Get(key, nil).(map[string]any)
		if !ok {
			continue
		}
		for name, value := range dict {
			merged[name] = value
		}
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	var ws WriteSet
	for _, name := range names {
		value := merged[name]
		if current := s.Get(name, nil); !reflect.DeepEqual(current, value) {
			ws = append(ws, Write{Key: name, Value: value})
		}
	}
	return ws
}
