// Command bench times every chunked operation across thread counts, on a
// shared pool and on a pool created per call, and checks each result
// against a sequential run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "bench"
	app.Usage = "time chunked list operations on a batch pool"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "rows",
			Value: 2_000_000,
			Usage: "number of values in the workload",
		},
		cli.Uint64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "seed of the xorshift workload generator",
		},
		cli.IntSliceFlag{
			Name:  "threads",
			Usage: "thread counts to measure (repeatable, default 1,2,4,...,NumCPU)",
		},
		cli.IntFlag{
			Name:  "iterations",
			Value: 5,
			Usage: "timed runs per operation",
		},
		cli.StringSliceFlag{
			Name:  "mode",
			Usage: "pool modes to measure: shared, per-call (repeatable, default both)",
		},
		cli.StringSliceFlag{
			Name:  "op",
			Usage: "operations to measure (repeatable, default all)",
		},
		cli.BoolFlag{
			Name:  "pin",
			Usage: "pin pool workers to CPU cores",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warning",
			Usage: "log level",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored output",
		},
	}
	app.Action = benchmark

	if err := app.Run(os.Args); err != nil {
		_, _ = red.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}
}

func benchmark(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}
	if err := setLogLevel(c.String("log-level")); err != nil {
		return err
	}

	s, err := parseSettings(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	values := generate(s.rows, s.seed)
	refs, err := references(ctx, s.ops, values)
	if err != nil {
		return err
	}

	grip.Info(message.Fields{
		"message":    "starting benchmark",
		"rows":       s.rows,
		"threads":    s.threads,
		"modes":      s.modes,
		"iterations": s.iterations,
	})

	total := len(s.threads) * len(s.modes) * len(s.ops) * s.iterations
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("measuring"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	ms, err := run(ctx, s, values, refs, bar)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	fmt.Println()
	return render(os.Stdout, summarise(ms))
}

func setLogLevel(name string) error {
	threshold := level.FromString(name)
	if threshold == level.Invalid {
		return errors.Errorf("invalid log level %q", name)
	}

	lvl := grip.GetSender().Level()
	lvl.Threshold = threshold
	return grip.GetSender().SetLevel(lvl)
}

func parseSettings(c *cli.Context) (settings, error) {
	s := settings{
		rows:       c.Int("rows"),
		seed:       c.Uint64("seed"),
		threads:    c.IntSlice("threads"),
		iterations: c.Int("iterations"),
		modes:      c.StringSlice("mode"),
		pin:        c.Bool("pin"),
	}

	if s.rows < 1 {
		return s, errors.Errorf("rows must be positive, got %d", s.rows)
	}
	if s.iterations < 1 {
		return s, errors.Errorf("iterations must be positive, got %d", s.iterations)
	}

	if len(s.threads) == 0 {
		s.threads = defaultThreads(runtime.NumCPU())
	}
	for _, t := range s.threads {
		if t < 1 {
			return s, errors.Errorf("thread counts must be positive, got %d", t)
		}
	}

	if len(s.modes) == 0 {
		s.modes = []string{modeShared, modePerCall}
	}
	for _, m := range s.modes {
		if m != modeShared && m != modePerCall {
			return s, errors.Errorf("unknown mode %q", m)
		}
	}

	ops, err := selectOperations(c.StringSlice("op"))
	if err != nil {
		return s, err
	}
	s.ops = ops
	return s, nil
}

// defaultThreads returns the powers of two below n, followed by n.
func defaultThreads(n int) []int {
	var threads []int
	for t := 1; t < n; t *= 2 {
		threads = append(threads, t)
	}
	return append(threads, n)
}
