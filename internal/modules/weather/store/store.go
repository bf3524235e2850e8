// Package store holds the ordered, in-memory record set for one analysis run.
// A Store is created by the loader and only read afterwards.
package store

import "cloudpico-analyzer/internal/modules/weather/types"

// DefaultCapacity matches the historical 1000-record limit of the tool.
const DefaultCapacity = 1000

type Store struct {
	records   []types.Record
	capacity  int
	truncated int
}

// New returns an empty store. A capacity of zero or less means unbounded.
func New(capacity int) *Store {
	s := &Store{capacity: capacity}
	if capacity > 0 {
		s.records = make([]types.Record, 0, min(capacity, 64))
	}
	return s
}

// Append adds r at the end. Once the store is full the record is counted as
// truncated and Append returns false; that is not an error.
func (s *Store) Append(r types.Record) bool {
	if s.Full() {
		s.truncated++
		return false
	}
	s.records = append(s.records, r)
	return true
}

func (s *Store) Full() bool {
	return s.capacity > 0 && len(s.records) >= s.capacity
}

func (s *Store) Len() int { return len(s.records) }

func (s *Store) Capacity() int { return s.capacity }

// Truncated is the number of valid records rejected because the store was full.
func (s *Store) Truncated() int { return s.truncated }

func (s *Store) At(i int) types.Record { return s.records[i] }

// Records returns a copy of the records in insertion order.
func (s *Store) Records() []types.Record {
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Column extracts the values of one metric across all records.
func (s *Store) Column(m types.Metric) []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = m.Value(r)
	}
	return out
}

// Span returns the date tokens of the first and last record.
// ok is false for an empty store.
func (s *Store) Span() (first, last string, ok bool) {
	if len(s.records) == 0 {
		return "", "", false
	}
	return s.records[0].Date, s.records[len(s.records)-1].Date, true
}
