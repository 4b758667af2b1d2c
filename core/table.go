package brc

import (
	"bytes"

	"github.com/dolthub/swiss"
)

// arbitrary value, better too much than future allocation needed
const tableCapacity = 1024

type StationData struct {
	Name []byte
	Stats
	hash uint64
	next *StationData // same hash, different name
}

// stationTable maps a key to its accumulator. It is owned by a single worker
// until handed to mergeTables.
type stationTable struct {
	m        *swiss.Map[uint64, *StationData]
	stations []*StationData // insertion order, used by the merge and the sort
}

func newStationTable(capacity int) *stationTable {
	return &stationTable{
		m:        swiss.NewMap[uint64, *StationData](uint32(capacity)),
		stations: make([]*StationData, 0, capacity),
	}
}

func (t *stationTable) Len() int {
	return len(t.stations)
}

// lookup returns the entry for name, or nil.
func (t *stationTable) lookup(hash uint64, name []byte) *StationData {
	v, ok := t.m.Get(hash)
	if !ok {
		return nil
	}
	for ; v != nil; v = v.next {
		if bytes.Equal(v.Name, name) {
			return v
		}
	}
	return nil
}

// insert adds a fresh entry for name, which must not be present yet.
// The name is copied, the input buffer is released before formatting.
func (t *stationTable) insert(hash uint64, name []byte, stats Stats) *StationData {
	r := &StationData{
		Name:  bytes.Clone(name),
		Stats: stats,
		hash:  hash,
	}
	if head, ok := t.m.Get(hash); ok {
		r.next = head
	}
	t.m.Put(hash, r)
	t.stations = append(t.stations, r)
	return r
}

// mergeTables folds every table into the biggest one and returns it.
func mergeTables(tables []*stationTable) *stationTable {
	if len(tables) == 0 {
		return newStationTable(tableCapacity)
	}
	base := tables[0]
	for _, t := range tables[1:] {
		if t.Len() > base.Len() {
			base, t = t, base
		}
		mergeInto(base, t)
	}
	return base
}

// mergeInto is not symmetric in memory, but the resulting statistics are
func mergeInto(dst, src *stationTable) {
	for _, s := range src.stations {
		if v := dst.lookup(s.hash, s.Name); v != nil {
			v.Merge(&s.Stats)
		} else {
			dst.insert(s.hash, s.Name, s.Stats)
		}
	}
}
