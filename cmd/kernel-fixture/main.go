package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"

	"able/kernel-go/pkg/config"
	"able/kernel-go/pkg/fixtures"
	"able/kernel-go/pkg/metrics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("kernel-fixture", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "kernel configuration file applied to scenarios without an inline config")
	showMetrics := fs.Bool("metrics", false, "print allocation metrics after the run")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: kernel-fixture [options] <fixture.yml>...")
		fs.PrintDefaults()
		return 2
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
	if *verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowWarn())
	}
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	if *configPath != "" {
		if _, err := config.Load(*configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	m := metrics.New(prometheus.NewRegistry())
	failed := 0
	total := 0
	for _, path := range fs.Args() {
		file, err := fixtures.LoadFile(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		for _, sc := range file.Scenarios {
			if *configPath != "" && !sc.HasInlineConfig {
				cfg, err := config.LoadOver(*configPath, sc.Config)
				if err != nil {
					fmt.Fprintln(stderr, err)
					return 1
				}
				sc.Config = cfg
			}
			total++
			res := fixtures.Run(sc, fixtures.WithLogger(logger), fixtures.WithMetrics(m))
			if res.Passed() {
				fmt.Fprintf(stdout, "PASS %s/%s\n", file.Path, sc.Name)
				continue
			}
			failed++
			fmt.Fprintf(stdout, "FAIL %s/%s\n", file.Path, sc.Name)
			for _, failure := range res.Failures {
				fmt.Fprintf(stdout, "    %s\n", failure)
			}
			level.Warn(logger).Log("msg", "scenario failed", "file", file.Path, "scenario", sc.Name, "failures", len(res.Failures))
		}
	}

	fmt.Fprintf(stdout, "%d scenarios, %d failed\n", total, failed)
	if *showMetrics {
		printMetrics(stdout, m.Snapshot())
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func printMetrics(w io.Writer, snap metrics.Snapshot) {
	fmt.Fprintf(w, "list appends:        %s\n", humanize.Comma(int64(snap.ListAppends)))
	fmt.Fprintf(w, "list reallocations:  %s\n", humanize.Comma(int64(snap.ListReallocations)))
	fmt.Fprintf(w, "list slots:          %s\n", humanize.Comma(int64(snap.ListSlots)))
	fmt.Fprintf(w, "string allocations:  %s\n", humanize.Comma(int64(snap.StringAllocations)))
	fmt.Fprintf(w, "string bytes:        %s\n", humanize.Bytes(uint64(snap.StringBytes)))
}
