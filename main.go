// Per-station min/mean/max over a "name;temperature" file, one range per CPU.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	brc "github.com/brc/brc/core"
)

type config struct {
	input       string
	output      string
	threads     int
	reader      string
	onBadNumber string
	onBadKey    string
	verbose     bool
	profileKind string
	profilePath string
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("brc", flag.ContinueOnError)
	fs.StringVar(&cfg.input, "input", "measurements.txt", "measurements file, a positional argument overrides it")
	fs.StringVar(&cfg.output, "output", "", "result file, stdout when empty")
	fs.IntVar(&cfg.threads, "threads", runtime.NumCPU(), "number of ranges parsed in parallel")
	fs.StringVar(&cfg.reader, "reader", string(brc.BrcReaderMmap), "how the file is loaded: mmap or disk")
	fs.StringVar(&cfg.onBadNumber, "on-bad-number", string(brc.BrcPolicySkip), "malformed temperature: skip or abort")
	fs.StringVar(&cfg.onBadKey, "on-bad-key", string(brc.BrcPolicyAbort), "station name not valid UTF-8: skip or abort")
	fs.BoolVar(&cfg.verbose, "verbose", false, "log timings and skipped records")
	fs.StringVar(&cfg.profileKind, "profile", "", "cpu, mem or trace")
	fs.StringVar(&cfg.profilePath, "profile-path", ".", "directory for the profile output")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 1 {
		return cfg, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		cfg.input = fs.Arg(0)
	}
	return cfg, nil
}

func startProfile(cfg config) (interface{ Stop() }, error) {
	opts := []func(*profile.Profile){profile.ProfilePath(cfg.profilePath), profile.Quiet}
	switch cfg.profileKind {
	case "":
		return nil, nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	case "trace":
		opts = append(opts, profile.TraceProfile)
	default:
		return nil, fmt.Errorf("unknown profile %q, expected cpu, mem or trace", cfg.profileKind)
	}
	return profile.Start(opts...), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))
	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logger.Error("invalid arguments", "err", err)
		return 2
	}
	opts := brc.BrcOptions{
		NThreads:     cfg.threads,
		ReaderType:   brc.BrcReaderType(cfg.reader),
		NumberPolicy: brc.BrcPolicy(cfg.onBadNumber),
		KeyPolicy:    brc.BrcPolicy(cfg.onBadKey),
		Verbose:      cfg.verbose,
		Logger:       logger,
	}
	if err := opts.Validate(); err != nil {
		logger.Error("invalid arguments", "err", err)
		return 2
	}
	prof, err := startProfile(cfg)
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		return 2
	}
	if prof != nil {
		defer prof.Stop()
	}

	start := time.Now()
	fileReader, err := brc.NewFileReader(opts.ReaderType)
	if err != nil {
		logger.Error("invalid arguments", "err", err)
		return 2
	}
	if err := fileReader.Open(cfg.input); err != nil {
		logger.Error("cannot load input", "file", cfg.input, "err", err)
		return 1
	}
	defer fileReader.Close()

	var out io.Writer = stdout
	if cfg.output != "" {
		outFs, err := os.OpenFile(cfg.output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("cannot create output", "file", cfg.output, "err", err)
			return 1
		}
		defer outFs.Close()
		out = outFs
	}
	w := bufio.NewWriterSize(out, 1<<16)

	report, err := brc.Solve(fileReader, w, opts)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		var recErr *brc.RecordError
		switch {
		case errors.As(err, &recErr):
			logger.Error("rejected record", "kind", recErr.Kind, "offset", recErr.Offset, "record", string(recErr.Record))
		case errors.Is(err, brc.ErrIO):
			logger.Error("i/o failure", "file", cfg.input, "err", err)
		default:
			logger.Error("failed to solve", "err", err)
		}
		return 1
	}
	if report.Skipped() > 0 {
		logger.Warn("skipped records",
			"malformed_records", report.MalformedRecords,
			"malformed_numbers", report.MalformedNumbers,
			"invalid_keys", report.InvalidKeys)
	}
	fmt.Fprintf(stderr, "Time: %.3fs\n", time.Since(start).Seconds())
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
