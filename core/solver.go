package brc

import (
	"bytes"
	"slices"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Range is a record-aligned [Start, End) slice of the input, one per thread.
type Range struct {
	Start int
	End   int
}

// PlanRanges splits data in nThreads contiguous ranges of about the same size.
// Every boundary but the last is moved right after the next '\n', so each
// record belongs to exactly one range. Ranges may be empty.
func PlanRanges(data []byte, nThreads int) []Range {
	nThreads = max(nThreads, 1)
	size := len(data)
	stride := size / nThreads
	ranges := make([]Range, nThreads)
	start := 0
	for i := range nThreads {
		end := size
		if i < nThreads-1 {
			end = max(nextRecordStart(data, (i+1)*stride), start)
		}
		ranges[i] = Range{Start: start, End: end}
		start = end
	}
	return ranges
}

// nextRecordStart returns the offset right after the first '\n' at or after
// offset, or len(data) when there is none.
func nextRecordStart(data []byte, offset int) int {
	nl := findIndexOf(data[offset:], patternNl)
	if nl < 0 {
		return len(data)
	}
	return offset + nl + 1
}

// aggregateRange is the per-thread loop: scan, split, parse and accumulate
// into a private table.
func aggregateRange(data []byte, r Range, opts BrcOptions) (*stationTable, Report, error) {
	table := newStationTable(tableCapacity)
	var report Report
	scanner := NewLineScanner(data[r.Start:r.End])
	for {
		line, ok := scanner.Next()
		if !ok {
			break
		}
		name, temp, ok := splitRecord(line)
		if !ok {
			report.MalformedRecords++
			continue
		}
		value, ok := ParseFixed(temp)
		if !ok {
			if opts.NumberPolicy == BrcPolicyAbort {
				return nil, report, newRecordError(ErrMalformedNumber, r, scanner, line)
			}
			report.MalformedNumbers++
			continue
		}
		hash := getHashFromBytes(name)
		station := table.lookup(hash, name)
		if station == nil {
			// only new names are validated, a known name was valid already
			if !utf8.Valid(name) {
				if opts.KeyPolicy == BrcPolicyAbort {
					return nil, report, newRecordError(ErrInvalidKey, r, scanner, line)
				}
				report.InvalidKeys++
				continue
			}
			station = table.insert(hash, name, NewStats())
		}
		station.Add(value)
		report.Records++
	}
	return table, report, nil
}

func newRecordError(kind error, r Range, scanner *LineScanner, line []byte) *RecordError {
	return &RecordError{
		Kind:   kind,
		Offset: int64(r.Start + scanner.Offset()),
		Record: bytes.Clone(line),
	}
}

// parseRanges runs one aggregateRange per range and waits for all of them.
// On failure the error of the earliest range is returned, which is also the
// earliest in the file.
func parseRanges(data []byte, ranges []Range, opts BrcOptions) ([]*stationTable, Report, error) {
	tables := make([]*stationTable, len(ranges))
	reports := make([]Report, len(ranges))
	errs := make([]error, len(ranges))
	var eg errgroup.Group
	for i, r := range ranges {
		eg.Go(func() error {
			tables[i], reports[i], errs[i] = aggregateRange(data, r, opts)
			return errs[i]
		})
	}
	if err := eg.Wait(); err != nil {
		for _, err := range errs {
			if err != nil {
				return nil, Report{}, err
			}
		}
	}
	var report Report
	for i := range reports {
		report.add(&reports[i])
	}
	return tables, report, nil
}

// sortStations returns the stations of t in byte-lexicographic name order.
func sortStations(t *stationTable) []*StationData {
	stationLst := slices.Clone(t.stations)
	slices.SortFunc(stationLst, func(a *StationData, b *StationData) int {
		return bytes.Compare(a.Name, b.Name)
	})
	return stationLst
}

// Aggregate computes the per-station statistics of data, sorted by name.
func Aggregate(data []byte, opts BrcOptions) ([]*StationData, Report, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, Report{}, err
	}
	ranges := PlanRanges(data, opts.NThreads)
	tables, report, err := parseRanges(data, ranges, opts)
	if err != nil {
		return nil, report, err
	}
	merged := mergeTables(tables)
	report.Keys = merged.Len()
	return sortStations(merged), report, nil
}
