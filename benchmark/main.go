// Package main provides a performance benchmarking tool for the proneness CLI.
// It measures extraction times across repositories and builders, running each
// test multiple times, treating the first successful run as cold and averaging
// the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - proneness binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Each repository holds a changes.csv (and optionally a snapshots.jsonl) at its root
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Inputs each benchmarked repository provides at its root.
const (
	changesFile   = "changes.csv"
	snapshotsFile = "snapshots.jsonl"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository  string
	Suite       string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     int
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
}

// suite is one extraction variant to time.
type suite struct {
	name string
	args []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		Workers:     14,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"argouml", "jedit", "jhotdraw"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("proneness", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("proneness"); err != nil {
		return fmt.Errorf("proneness binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		path := filepath.Join(config.RepoBase, repo, changesFile)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("change file for %s not found at %s", repo, path)
		}
	}
	return nil
}

// suitesFor lists the extraction variants a repository supports.
func suitesFor(repoPath string) []suite {
	suites := []suite{
		{name: "standard", args: []string{"extract", "--changes-file", changesFile}},
		{name: "group", args: []string{"extract", "--changes-file", changesFile, "--builder", "group", "--measures", "linear,geometric:0.7,weighted"}},
	}
	if _, err := os.Stat(filepath.Join(repoPath, snapshotsFile)); err == nil {
		suites = append(suites, suite{name: "snapshots", args: []string{"extract", "--snapshots-file", snapshotsFile}})
	}
	return suites
}

// runBenchmarks executes all benchmark suites across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, s := range suitesFor(repoPath) {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, s))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a suite
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, s suite) BenchmarkResult {
	fmt.Printf("Running %s extraction on %s\n", s.name, repo)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, s.args, cacheBackend, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Suite:       s.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an extraction multiple times with the given cache backend
// and returns the cold time and the warm times.
func runBenchmark(config BenchmarkConfig, repoPath string, suiteArgs []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, suiteArgs...)
	args = append(args, "--cache-backend", cacheBackend, "--workers", fmt.Sprint(config.Workers), ".")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "proneness", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		if err == nil && isSuccess(output) {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
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
	return strings.Contains(outputStr, "Extraction completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("proneness_benchmark_%s.csv", timestamp))

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

	if err := writer.Write([]string{"repo", "suite", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Suite, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range []string{"standard", "group", "snapshots"} {
		fmt.Printf("%s extraction:\n", name)
		for _, result := range results {
			if result.Suite == name {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
