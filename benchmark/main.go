// Package main provides a performance benchmarking tool for the Aurora CLI.
// It simulates observing nights of increasing size, retrieves each one several
// times with and without the quality-assurance graphics, treating the first
// successful run as cold and averaging the rest as warm, and writes the
// timings to a CSV file.
//
// Prerequisites:
// - aurora binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the simulated nights are written
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-plots average, cold run and average of warm runs).
type BenchmarkResult struct {
	Night       string
	Frames      int
	NoPlotsTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoPlotsRuns int
	PlotRuns    int
	Nights      []string
	NightFrames map[string]int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		NoPlotsRuns: 3,
		PlotRuns:    4,
		Nights:      []string{"short", "typical", "long", "marathon"},
		NightFrames: map[string]int{
			"short":    4,
			"typical":  16,
			"long":     64,
			"marathon": 256,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the aurora binary exists and the work directory is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("aurora"); err != nil {
		return fmt.Errorf("aurora binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("work directory %s is not usable: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks simulates every configured night and benchmarks its retrieval
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d nights, %v timeout, no-plots: %d runs, plots: %d runs\n",
		len(config.Nights), config.Timeout, config.NoPlotsRuns, config.PlotRuns)

	for _, night := range config.Nights {
		frames := config.NightFrames[night]
		nightPath := filepath.Join(config.WorkDir, night)

		fmt.Printf("Simulating %s night (%d frames)\n", night, frames)
		synthCmd := exec.Command("aurora", "synth", nightPath, "--extended", "--frames", strconv.Itoa(frames))
		if output, err := synthCmd.CombinedOutput(); err != nil {
			fmt.Printf("Warning: failed to simulate %s: %v\nOutput: %s\n", night, err, string(output))
			continue
		}

		results = append(results, runBenchmarkSuite(config, night, nightPath, frames))
	}

	return results
}

// runBenchmarkSuite runs both the no-plots and plots phases for one night
func runBenchmarkSuite(config BenchmarkConfig, night, nightPath string, frames int) BenchmarkResult {
	runPhase := func(numRuns int, phaseName string, extraArgs ...string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, nightPath, numRuns, extraArgs...)
		switch {
		case cold == 0:
			avgTime = "TIMEOUT"
		case len(times) == 0:
			avgTime = fmt.Sprintf("%.3fs", cold)
		default:
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: numbers only
	_, noPlotsAvg := runPhase(config.NoPlotsRuns, "No-plots", "--no-plots")

	// Phase 2: numbers and graphics
	coldTime, warmAvg := runPhase(config.PlotRuns, "Plots")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-plots average: %s, Cold time: %s, Warm average: %s\n", noPlotsAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Night:       night,
		Frames:      frames,
		NoPlotsTime: noPlotsAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark retrieves a night multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, nightPath string, numRuns int, extraArgs ...string) (coldTime float64, warmTimes []float64) {
	args := append([]string{"retrieve", nightPath, "--extended", "--results-backend", "none"}, extraArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("aurora", args...)

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Retrieved") && strings.Contains(outputStr, "completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("aurora_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"night", "frames", "no_plots_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Night, strconv.Itoa(result.Frames), result.NoPlotsTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s (%3d frames): No-plots: %s, Cold: %s, Warm: %s\n",
			result.Night, result.Frames, result.NoPlotsTime, result.ColdTime, result.WarmTime)
	}
}
