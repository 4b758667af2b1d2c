package brc

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/klauspost/cpuid/v2"
)

type BrcReaderType string

const (
	BrcReaderDisk BrcReaderType = "disk"
	BrcReaderMmap BrcReaderType = "mmap"
)

var BrcReaderList = []BrcReaderType{BrcReaderDisk, BrcReaderMmap}

// BrcPolicy decides what happens to a record that cannot be accumulated.
type BrcPolicy string

const (
	BrcPolicySkip  BrcPolicy = "skip"  // count it in the Report and go on
	BrcPolicyAbort BrcPolicy = "abort" // stop with a *RecordError
)

var BrcPolicyList = []BrcPolicy{BrcPolicySkip, BrcPolicyAbort}

type BrcOptions struct {
	NThreads     int           // number of thread to use, one range each
	ReaderType   BrcReaderType // read on disk or mmap file
	NumberPolicy BrcPolicy     // temperature not matching -?d+.d
	KeyPolicy    BrcPolicy     // station name not valid UTF-8
	Verbose      bool          // log timings and counters
	Logger       *slog.Logger
}

// DefaultOptions: one thread per CPU, mmap, skip bad numbers, abort on bad names.
func DefaultOptions() BrcOptions {
	return BrcOptions{}.withDefaults()
}

func (opts BrcOptions) withDefaults() BrcOptions {
	if opts.NThreads == 0 {
		opts.NThreads = runtime.NumCPU()
	}
	if opts.ReaderType == "" {
		opts.ReaderType = BrcReaderMmap
	}
	if opts.NumberPolicy == "" {
		opts.NumberPolicy = BrcPolicySkip
	}
	if opts.KeyPolicy == "" {
		opts.KeyPolicy = BrcPolicyAbort
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

func (opts BrcOptions) Validate() error {
	if opts.NThreads < 1 {
		return fmt.Errorf("n_threads must be at least 1, got %d", opts.NThreads)
	}
	if !slices.Contains(BrcReaderList, opts.ReaderType) {
		return fmt.Errorf("unknown reader %q, expected one of %v", opts.ReaderType, BrcReaderList)
	}
	if !slices.Contains(BrcPolicyList, opts.NumberPolicy) {
		return fmt.Errorf("unknown number policy %q, expected one of %v", opts.NumberPolicy, BrcPolicyList)
	}
	if !slices.Contains(BrcPolicyList, opts.KeyPolicy) {
		return fmt.Errorf("unknown key policy %q, expected one of %v", opts.KeyPolicy, BrcPolicyList)
	}
	return nil
}

// Report counts what was accumulated and what was skipped.
type Report struct {
	Records          uint64 // accumulated
	Keys             int    // distinct names in the output
	MalformedRecords uint64 // no ';'
	MalformedNumbers uint64
	InvalidKeys      uint64
}

func (r *Report) add(other *Report) {
	r.Records += other.Records
	r.MalformedRecords += other.MalformedRecords
	r.MalformedNumbers += other.MalformedNumbers
	r.InvalidKeys += other.InvalidKeys
}

func (r Report) Skipped() uint64 {
	return r.MalformedRecords + r.MalformedNumbers + r.InvalidKeys
}

// NewFileReader returns the reader matching t.
func NewFileReader(t BrcReaderType) (FileReader, error) {
	switch t {
	case BrcReaderDisk:
		return NewFileDiskReader(), nil
	case BrcReaderMmap:
		return NewFileMmapReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader %q, expected one of %v", t, BrcReaderList)
	}
}

// Solve aggregates the opened file and writes one "name;min/mean/max" line
// per station to out.
func Solve(fileReader FileReader, out io.Writer, opts BrcOptions) (Report, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	logger := opts.Logger
	if opts.Verbose {
		logger.Info("cpu",
			"brand", cpuid.CPU.BrandName,
			"physical_cores", cpuid.CPU.PhysicalCores,
			"logical_cores", cpuid.CPU.LogicalCores,
			"threads", opts.NThreads)
	}
	timeBefore := time.Now()
	if _, err := fileReader.Read(); err != nil {
		return Report{}, err
	}
	if opts.Verbose {
		logger.Info("read done",
			"file", fileReader.GetFilename(),
			"size", fileReader.GetSize(),
			"reader", opts.ReaderType,
			"took", time.Since(timeBefore))
	}
	timeBefore = time.Now()
	stationLst, report, err := Aggregate(fileReader.Bytes(), opts)
	if err != nil {
		return report, err
	}
	if opts.Verbose {
		logger.Info("parse done",
			"records", report.Records,
			"keys", report.Keys,
			"malformed_records", report.MalformedRecords,
			"malformed_numbers", report.MalformedNumbers,
			"invalid_keys", report.InvalidKeys,
			"took", time.Since(timeBefore))
	}
	timeBefore = time.Now()
	if err := writeData(out, stationLst); err != nil {
		return report, err
	}
	if opts.Verbose {
		logger.Info("write done", "took", time.Since(timeBefore))
	}
	return report, nil
}
