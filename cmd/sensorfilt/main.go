// Command sensorfilt filters a stream of integer sensor readings.
//
// It reads one integer per line from a file or standard input, runs each
// reading through the filter chain described by a YAML config file and
// writes one filtered value per line. Blank lines and lines starting with #
// are skipped.
//
// Usage:
//
//	sensorfilt -config chain.yaml [flags] < readings.txt
//
// Examples:
//
//	sensorfilt -config chain.yaml -input readings.txt
//	sensorfilt -config chain.yaml -state state.yaml -watch
//	sensorfilt -config chain.yaml -metrics-addr :9102 -float
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runMain(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// runMain parses args, runs the filter and returns the process exit code.
// Deferred cleanup runs before it returns.
func runMain(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("sensorfilt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to the filter chain YAML config (required)")
	fs.StringVar(&opts.inputPath, "input", "", "read samples from this file instead of stdin")
	fs.StringVar(&opts.statePath, "state", "", "snapshot file for warm restarts (overrides state_file)")
	fs.BoolVar(&opts.watch, "watch", false, "reload the config when the file changes")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
	fs.BoolVar(&opts.float, "float", false, "print the last stage in floating point")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sensorfilt -config chain.yaml [flags]\n\n")
		fmt.Fprintf(stderr, "Filters integer sensor readings, one per line.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if opts.configPath == "" {
		fs.Usage()
		return 2
	}

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)

	if opts.metricsAddr != "" {
		shutdown := serveMetrics(opts.metricsAddr, reg, logger)
		defer shutdown()
	}

	in := stdin
	if opts.inputPath != "" {
		f, err := os.Open(opts.inputPath)
		if err != nil {
			level.Error(logger).Log("msg", "failed to open input", "path", opts.inputPath, "err", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	if err := run(ctx, opts, in, stdout, logger, m); err != nil {
		level.Error(logger).Log("msg", "sensorfilt failed", "err", err)
		return 1
	}

	return 0
}
