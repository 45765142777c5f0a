// Package series holds the accumulators used while extracting upstream time
// series. Timestamps are normalised to UTC so that equal instants always share
// a bucket, and repeated samples for the same bucket are summed.
package series

import (
	"sort"
	"time"
)

// Code is an upstream category code such as an ENTSOE psrType.
type Code string

// Set accumulates signed values per timestamp and category code. A code that
// was never added for a timestamp is distinguishable from one that summed to
// zero.
type Set struct {
	points map[time.Time]map[Code]float64
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{points: make(map[time.Time]map[Code]float64)}
}

// Add sums v into the bucket for (t, code).
func (s *Set) Add(t time.Time, code Code, v float64) {
	t = t.UTC()
	bucket, ok := s.points[t]
	if !ok {
		bucket = make(map[Code]float64)
		s.points[t] = bucket
	}
	bucket[code] += v
}

// Get returns the accumulated value for (t, code) and whether it was seen.
func (s *Set) Get(t time.Time, code Code) (float64, bool) {
	bucket, ok := s.points[t.UTC()]
	if !ok {
		return 0, false
	}
	v, ok := bucket[code]
	return v, ok
}

// Codes returns a copy of the values seen at t.
func (s *Set) Codes(t time.Time) map[Code]float64 {
	bucket := s.points[t.UTC()]
	out := make(map[Code]float64, len(bucket))
	for k, v := range bucket {
		out[k] = v
	}
	return out
}

// Times returns the timestamps in ascending order.
func (s *Set) Times() []time.Time {
	return sortedKeys(s.points)
}

// Len returns the number of distinct timestamps.
func (s *Set) Len() int { return len(s.points) }

// Scalar accumulates one value per timestamp.
type Scalar struct {
	points map[time.Time]float64
}

// NewScalar returns an empty Scalar.
func NewScalar() *Scalar {
	return &Scalar{points: make(map[time.Time]float64)}
}

// Add sums v into the bucket for t.
func (s *Scalar) Add(t time.Time, v float64) {
	s.points[t.UTC()] += v
}

// Get returns the value at t and whether it was seen.
func (s *Scalar) Get(t time.Time) (float64, bool) {
	v, ok := s.points[t.UTC()]
	return v, ok
}

// Times returns the timestamps in ascending order.
func (s *Scalar) Times() []time.Time {
	return sortedKeys(s.points)
}

// Len returns the number of distinct timestamps.
func (s *Scalar) Len() int { return len(s.points) }

// InnerJoin sums a and b on timestamps present in both. Timestamps reported
// by only one side are dropped rather than extrapolated.
func InnerJoin(a, b *Scalar) *Scalar {
	out := NewScalar()
	for t, va := range a.points {
		if vb, ok := b.points[t]; ok {
			out.points[t] = va + vb
		}
	}
	return out
}

func sortedKeys[V any](m map[time.Time]V) []time.Time {
	out := make([]time.Time, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
