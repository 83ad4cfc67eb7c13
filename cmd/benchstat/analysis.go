package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/perf/benchfmt"
	"golang.org/x/perf/benchmath"

	"github.com/yourusername/ember/pkg/ember/logger"
)

// unitOrder fixes the column order for the units go test -benchmem reports.
var unitOrder = map[string]int{
	"ns/op":     0,
	"B/op":      1,
	"allocs/op": 2,
	"MB/s":      3,
}

// Set groups measurements by benchmark base name and unit.
type Set struct {
	names   []string
	samples map[string]map[string][]float64
}

func newSet() *Set {
	return &Set{samples: make(map[string]map[string][]float64)}
}

func (s *Set) add(name, unit string, v float64) {
	units, ok := s.samples[name]
	if !ok {
		units = make(map[string][]float64)
		s.samples[name] = units
		s.names = append(s.names, name)
	}
	units[unit] = append(units[unit], v)
}

// Len returns the number of distinct benchmarks.
func (s *Set) Len() int { return len(s.names) }

// Values returns every measurement of name in unit, in input order.
func (s *Set) Values(name, unit string) []float64 {
	return s.samples[name][unit]
}

// Units returns the units recorded for name in display order.
func (s *Set) Units(name string) []string {
	units := make([]string, 0, len(s.samples[name]))
	for u := range s.samples[name] {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool {
		oi, iok := unitOrder[units[i]]
		oj, jok := unitOrder[units[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return units[i] < units[j]
		}
	})
	return units
}

// collect reads go test -bench output. Lines that are not benchmark results
// are skipped; malformed result lines are logged and skipped.
func collect(r io.Reader, fileName string, log logger.Logger) (*Set, error) {
	set := newSet()
	reader := benchfmt.NewReader(r, fileName)
	for reader.Scan() {
		switch rec := reader.Result().(type) {
		case *benchfmt.SyntaxError:
			log.Warn("skipping malformed line", "err", rec)
		case *benchfmt.Result:
			name := string(rec.Name.Base())
			for _, v := range rec.Values {
				value, unit := v.Value, v.Unit
				if v.OrigUnit != "" {
					value, unit = v.OrigValue, v.OrigUnit
				}
				set.add(name, unit, value)
			}
		}
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Row is one scenario and unit compared between candidate and baseline.
type Row struct {
	Scenario  string
	Unit      string
	Candidate benchmath.Summary
	Baseline  benchmath.Summary
	// Delta is the relative change of the candidate center against the
	// baseline center; NaN when the baseline center is zero and the
	// candidate is not.
	Delta       float64
	P           float64
	Significant bool
}

// compare pairs every benchmark named candidate+X with baseline+X.
func compare(set *Set, candidate, baseline string, confidence float64) []Row {
	thresholds := &benchmath.DefaultThresholds
	assumption := benchmath.AssumeNothing

	var rows []Row
	for _, name := range set.names {
		scenario, ok := strings.CutPrefix(name, candidate)
		if !ok {
			continue
		}
		ref := baseline + scenario
		if _, ok := set.samples[ref]; !ok {
			continue
		}
		if scenario == "" {
			scenario = name
		}

		for _, unit := range set.Units(name) {
			refValues := set.Values(ref, unit)
			if len(refValues) == 0 {
				continue
			}
			a := benchmath.NewSample(set.Values(name, unit), thresholds)
			b := benchmath.NewSample(refValues, thresholds)
			cmp := assumption.Compare(a, b)

			row := Row{
				Scenario:  scenario,
				Unit:      unit,
				Candidate: assumption.Summary(a, confidence),
				Baseline:  assumption.Summary(b, confidence),
				P:         cmp.P,
			}
			row.Delta = delta(row.Candidate.Center, row.Baseline.Center)
			row.Significant = !math.IsNaN(cmp.P) && cmp.P < cmp.Alpha
			rows = append(rows, row)
		}
	}
	return rows
}

func delta(candidate, baseline float64) float64 {
	if baseline == 0 {
		if candidate == 0 {
			return 0
		}
		return math.NaN()
	}
	return candidate/baseline - 1
}

func printTable(w io.Writer, config *Config, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "scenario\tunit\t%s\t%s\tdelta\tp\n", config.Candidate, config.Baseline)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Scenario,
			r.Unit,
			formatSummary(r.Candidate),
			formatSummary(r.Baseline),
			formatDelta(r),
			formatP(r.P),
		)
	}
	return tw.Flush()
}

func formatSummary(s benchmath.Summary) string {
	if s.Center == 0 || math.IsInf(s.Lo, 0) || math.IsInf(s.Hi, 0) {
		return formatValue(s.Center)
	}
	spread := math.Max(s.Center-s.Lo, s.Hi-s.Center) / s.Center * 100
	return fmt.Sprintf("%s ±%.0f%%", formatValue(s.Center), spread)
}

func formatValue(v float64) string {
	switch {
	case v == math.Trunc(v) && math.Abs(v) < 1e6:
		return fmt.Sprintf("%.0f", v)
	case math.Abs(v) >= 100:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.3g", v)
	}
}

func formatDelta(r Row) string {
	if !r.Significant {
		return "~"
	}
	if math.IsNaN(r.Delta) {
		return "?"
	}
	return fmt.Sprintf("%+.2f%%", r.Delta*100)
}

func formatP(p float64) string {
	if math.IsNaN(p) {
		return "-"
	}
	return fmt.Sprintf("%.3f", p)
}
