package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

// row is a summarised measurement ready to be rendered.
type row struct {
	measurement
	mean    time.Duration
	stddev  time.Duration
	speedup float64 // against the smallest thread count of the same op and mode
	rank    int     // within the op, fastest first
}

func summarise(ms []measurement) []row {
	rows := make([]row, len(ms))
	for i, m := range ms {
		xs := make([]float64, len(m.times))
		for j, d := range m.times {
			xs[j] = float64(d)
		}
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			std = 0
		}
		rows[i] = row{measurement: m, mean: time.Duration(mean), stddev: time.Duration(std)}
	}

	type key struct{ op, mode string }
	baseline := make(map[key]row)
	for _, r := range rows {
		k := key{r.op, r.mode}
		if b, ok := baseline[k]; !ok || r.threads < b.threads {
			baseline[k] = r
		}
	}
	for i := range rows {
		if b := baseline[key{rows[i].op, rows[i].mode}]; rows[i].mean > 0 {
			rows[i].speedup = float64(b.mean) / float64(rows[i].mean)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].op != rows[j].op {
			return opIndex(rows[i].op) < opIndex(rows[j].op)
		}
		return rows[i].mean < rows[j].mean
	})
	for i := range rows {
		if i == 0 || rows[i].op != rows[i-1].op {
			rows[i].rank = 1
		} else {
			rows[i].rank = rows[i-1].rank + 1
		}
	}
	return rows
}

func opIndex(name string) int {
	for i, op := range operations {
		if op.name == name {
			return i
		}
	}
	return len(operations)
}

func render(w io.Writer, rows []row) error {
	_, _ = bold.Fprintln(w, "Chunked operation timings")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Op", "Rank", "Mode", "Threads", "Mean", "StdDev", "Speedup")

	for _, r := range rows {
		rank := fmt.Sprintf("%d", r.rank)
		if r.rank == 1 {
			rank = green.Sprint(rank)
		}

		speedup := fmt.Sprintf("%.2fx", r.speedup)
		if r.speedup < 1 {
			speedup = red.Sprint(speedup)
		}

		if err := table.Append(
			r.op,
			rank,
			r.mode,
			fmt.Sprintf("%d", r.threads),
			r.mean.Round(time.Microsecond).String(),
			r.stddev.Round(time.Microsecond).String(),
			speedup,
		); err != nil {
			return err
		}
	}
	return table.Render()
}
