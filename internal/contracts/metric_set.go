package contracts

import (
	"encoding/json"
	"math"
	"sort"
)

// MetricSet maps metric names (canonical or alias) to values.
// A missing key means "not available"; zero is a real value.
type MetricSet map[string]float64

// Get returns the value stored under an exact key
func (s MetricSet) Get(key string) (float64, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores v under the metric's canonical name
func (s MetricSet) Set(m Metric, v float64) {
	s[string(m)] = v
}

// SetPtr stores *v, or removes the metric when v is nil
func (s MetricSet) SetPtr(m Metric, v *float64) {
	if v == nil {
		delete(s, string(m))
		return
	}
	s[string(m)] = *v
}

// Resolve looks m up through its ordered aliases; the first present key wins.
// NaN and ±Inf count as absent.
func (s MetricSet) Resolve(m Metric) (float64, bool) {
	for _, key := range m.Aliases() {
		if v, ok := s[key]; ok && Finite(v) {
			return v, true
		}
	}
	return 0, false
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ResolvePtr is Resolve returning nil for absent values
func (s MetricSet) ResolvePtr(m Metric) *float64 {
	if v, ok := s.Resolve(m); ok {
		return &v
	}
	return nil
}

// Merge copies every entry of other into s, overwriting existing keys
func (s MetricSet) Merge(other MetricSet) {
	for k, v := range other {
		s[k] = v
	}
}

// Finite returns a copy of s without NaN or infinite entries
func (s MetricSet) Finite() MetricSet {
	out := make(MetricSet, len(s))
	for k, v := range s {
		if Finite(v) {
			out[k] = v
		}
	}
	return out
}

// Keys returns the stored keys in sorted order
func (s MetricSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON drops null entries so they stay absent rather than zero
func (s *MetricSet) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(MetricSet, len(raw))
	for k, v := range raw {
		if v != nil {
			out[k] = *v
		}
	}
	*s = out
	return nil
}
