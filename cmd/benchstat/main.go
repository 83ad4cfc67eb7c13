// Command benchstat runs ember's comparison benchmarks and reports how the
// ember parser stacks up against fasthttp on the same input.
//
//	go run ./cmd/benchstat -count 10
//	go run ./cmd/benchstat -input old.txt
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/yourusername/ember/pkg/ember/logger"
)

const (
	defaultBenchTime = "1s"
	defaultCount     = 10
	defaultPackage   = "./pkg/ember/http11/"
	defaultPattern   = "^Benchmark(Ember|Fasthttp)"
	minCount         = 1
	maxCount         = 50
)

// Config holds the command line options.
type Config struct {
	Package    string
	Pattern    string
	BenchTime  time.Duration
	Count      int
	Input      string
	OutputDir  string
	Candidate  string
	Baseline   string
	Confidence float64
	Verbose    bool
}

func main() {
	config, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := logger.LevelInfo
	if config.Verbose {
		level = logger.LevelDebug
	}
	log := logger.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, os.Stdout, log); err != nil {
		log.Error("benchstat failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("benchstat", flag.ContinueOnError)
	config := &Config{}

	var benchTime string
	fs.StringVar(&config.Package, "pkg", defaultPackage, "Package holding the comparison benchmarks")
	fs.StringVar(&config.Pattern, "bench", defaultPattern, "Benchmark name pattern passed to go test")
	fs.StringVar(&benchTime, "benchtime", defaultBenchTime, "Time per benchmark run (e.g. 1s, 200ms)")
	fs.IntVar(&config.Count, "count", defaultCount, "Number of runs per benchmark")
	fs.StringVar(&config.Input, "input", "", "Read existing go test -bench output instead of running benchmarks")
	fs.StringVar(&config.OutputDir, "output", "", "Directory to save the raw benchmark output into")
	fs.StringVar(&config.Candidate, "candidate", "Ember", "Name prefix of the benchmarks under test")
	fs.StringVar(&config.Baseline, "baseline", "Fasthttp", "Name prefix of the reference benchmarks")
	fs.Float64Var(&config.Confidence, "confidence", 0.95, "Confidence level for the reported ranges")
	fs.BoolVar(&config.Verbose, "v", false, "Stream benchmark output while running")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	d, err := time.ParseDuration(benchTime)
	if err != nil {
		return nil, fmt.Errorf("invalid benchtime: %w", err)
	}
	config.BenchTime = d

	if config.Count < minCount || config.Count > maxCount {
		return nil, fmt.Errorf("count must be between %d and %d, got %d", minCount, maxCount, config.Count)
	}
	if config.Confidence <= 0 || config.Confidence >= 1 {
		return nil, fmt.Errorf("confidence must be in (0, 1), got %v", config.Confidence)
	}
	if config.Candidate == "" || config.Baseline == "" || config.Candidate == config.Baseline {
		return nil, fmt.Errorf("candidate and baseline must be distinct non-empty prefixes")
	}
	return config, nil
}

func run(ctx context.Context, config *Config, out io.Writer, log logger.Logger) error {
	var raw []byte
	name := config.Input

	if config.Input != "" {
		b, err := os.ReadFile(config.Input)
		if err != nil {
			return err
		}
		raw = b
	} else {
		log.Info("running benchmarks", "pkg", config.Package, "count", config.Count, "benchtime", config.BenchTime)
		start := time.Now()
		b, err := runBenchmarks(ctx, config)
		if err != nil {
			return err
		}
		log.Info("benchmarks finished", "elapsed", time.Since(start))
		raw = b
		name = "go test " + config.Package

		if config.OutputDir != "" {
			path, err := saveOutput(config.OutputDir, raw)
			if err != nil {
				return err
			}
			log.Info("raw output saved", "path", path)
		}
	}

	set, err := collect(bytes.NewReader(raw), name, log)
	if err != nil {
		return err
	}
	if set.Len() == 0 {
		return fmt.Errorf("no benchmark results in %s", name)
	}

	rows := compare(set, config.Candidate, config.Baseline, config.Confidence)
	if len(rows) == 0 {
		return fmt.Errorf("no %s/%s benchmark pairs found", config.Candidate, config.Baseline)
	}
	return printTable(out, config, rows)
}

func runBenchmarks(ctx context.Context, config *Config) ([]byte, error) {
	args := []string{
		"test",
		"-run=^$",
		"-bench=" + config.Pattern,
		"-benchmem",
		fmt.Sprintf("-benchtime=%s", config.BenchTime),
		fmt.Sprintf("-count=%d", config.Count),
		config.Package,
	}

	cmd := exec.CommandContext(ctx, "go", args...)
	var stdout, stderr bytes.Buffer
	if config.Verbose {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stderr)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 && !config.Verbose {
			return nil, fmt.Errorf("go test: %w\n%s", err, stderr.String())
		}
		return nil, fmt.Errorf("go test: %w", err)
	}
	return stdout.Bytes(), nil
}

func saveOutput(dir string, raw []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("bench_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", err
	}
	return path, nil
}
