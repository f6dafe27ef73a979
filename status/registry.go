// Package status collects live session metrics for display
package status

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"sync/atomic"
)

// Registry groups metrics by value kind
// Writers publish whenever state changes; readers render a snapshot
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[Float]
	Strings *MetricMap[String]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[Float](),
		Strings: NewMetricMap[String](),
	}
}

// TotalCount returns the number of metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot returns every metric formatted as text, keyed by name
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = strconv.FormatBool(v.Load()) })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = strconv.FormatInt(v.Load(), 10) })
	r.Floats.Range(func(k string, v *Float) { out[k] = strconv.FormatFloat(v.Load(), 'g', 4, 64) })
	r.Strings.Range(func(k string, v *String) { out[k] = v.Load() })
	return out
}

// WriteTo writes one "name value" line per metric, sorted by name
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	snap := r.Snapshot()
	var total int64
	for _, k := range slices.Sorted(maps.Keys(snap)) {
		n, err := fmt.Fprintf(w, "%-24s %s\n", k, snap[k])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
