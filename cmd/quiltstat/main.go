// Command quiltstat loads a quilt patch series (and optionally extra files)
// through an arena and reports what was loaded.
//
// Usage:
//
//	quiltstat [flags] [path ...]
//
// Paths given as arguments are loaded like patch targets: symbolic links
// contribute their link text, everything else its content.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hupe1980/quiltarena"
	"github.com/hupe1980/quiltarena/resource"
	"github.com/hupe1980/quiltarena/series"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "quiltstat:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dir         = flag.String("dir", "patches", "patch directory containing the series file")
		seriesFile  = flag.String("series", "series", "series file name inside -dir (empty to skip)")
		useMmap     = flag.Bool("mmap", true, "map files instead of copying them")
		workers     = flag.Int("j", runtime.NumCPU(), "parallel loading goroutines")
		memoryLimit = flag.Int64("memory-limit", 0, "maximum bytes held by the arena (0 = unlimited)")
		budgetWait  = flag.Duration("budget-wait", 0, "how long a load may wait for memory under -memory-limit (0 = fail at once)")
		ioLimit     = flag.Int64("io-limit", 0, "maximum copying read rate in bytes/s (0 = unlimited)")
		jsonLogs    = flag.Bool("json", false, "log in JSON")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return err
	}
	logger := quiltarena.NewTextLogger(level)
	if *jsonLogs {
		logger = quiltarena.NewJSONLogger(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   *memoryLimit,
		IOLimitBytesPerSec: *ioLimit,
	})
	metrics := &quiltarena.BasicMetricsCollector{}
	opts := []quiltarena.Option{
		quiltarena.WithLogger(logger),
		quiltarena.WithMetricsCollector(metrics),
		quiltarena.WithResourceController(rc),
		quiltarena.WithBudgetWait(*budgetWait),
	}

	var a quiltarena.Arena
	if *useMmap {
		a = quiltarena.NewMmap(opts...)
	} else {
		a = quiltarena.NewHeap(opts...)
	}
	// Every loader below has returned before the arena goes away.
	defer a.Close()

	if *seriesFile != "" {
		s, err := series.Load(ctx, a, *dir, func(o *series.Options) {
			o.SeriesFile = *seriesFile
			o.Workers = *workers
		})
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "series loaded", "dir", s.Dir, "patches", len(s.Patches))
	}

	if paths := flag.Args(); len(paths) > 0 {
		_, err := quiltarena.LoadAll(ctx, paths, *workers, func(path string) (quiltarena.View, error) {
			return quiltarena.LoadPath(a, path)
		})
		if err != nil {
			return err
		}
	}

	stats := a.Stats()
	logger.LogStats(ctx, stats)
	m := metrics.GetStats()
	logger.DebugContext(ctx, "load metrics",
		"loads", m.LoadCount,
		"avg_nanos", m.LoadAvgNanos,
		"memory_usage", rc.MemoryUsage(),
		"memory_limit", rc.MemoryLimit(),
	)
	fmt.Println(stats)

	return a.Close()
}
