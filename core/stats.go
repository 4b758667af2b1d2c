package brc

import "math"

// Stats holds the running min/max/sum/count of one key, in tenths.
// The zero value is not the identity, use NewStats.
type Stats struct {
	Min   int32
	Max   int32
	Sum   int64
	Count uint64
}

// NewStats returns the merge identity: no observation yet.
func NewStats() Stats {
	return Stats{Min: math.MaxInt32, Max: math.MinInt32}
}

func (s *Stats) Add(v int32) {
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	s.Sum += int64(v)
	s.Count++
}

func (s *Stats) Merge(other *Stats) {
	if other.Min < s.Min {
		s.Min = other.Min
	}
	if other.Max > s.Max {
		s.Max = other.Max
	}
	s.Sum += other.Sum
	s.Count += other.Count
}

// Mean = Sum/Count, in degrees
func (s *Stats) Mean() float64 {
	return float64(s.Sum) / 10.0 / float64(s.Count)
}
