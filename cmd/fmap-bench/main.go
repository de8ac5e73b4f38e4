// fmap-bench compares the flatmap container against baseline ordered
// maps on insert-then-lookup workloads.
//
// Engines:
//
//	flatmap   pkg/flatmap sorted-vector map (bulk workload uses the
//	          BulkInserter fast path)
//	btree     github.com/tidwall/btree generic B-tree map
//	treemap   github.com/emirpasic/gods/v2 red-black treemap
//	stdmap    builtin map with one final key sort
//
// Workloads control key insertion order: ascending, descending, random,
// and bulk (random keys through the bulk-load path where the engine has
// one).
//
// Results go to stdout as a table, and optionally to --out as JSON
// (written atomically so a watching process never sees a partial file).
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/emirpasic/gods/v2/maps/treemap"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"github.com/tidwall/btree"

	"github.com/calvinalkan/flatmap/pkg/flatmap"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("fmap-bench", flag.ContinueOnError)

	configPath := fs.String("config", "", "JWCC config file")
	sizes := fs.IntSlice("sizes", nil, "element counts to benchmark")
	workloads := fs.StringSlice("workloads", nil, "workloads to run (ascending, descending, random, bulk)")
	engineNames := fs.StringSlice("engines", nil, "engines to run (flatmap, btree, treemap, stdmap)")
	seed := fs.Uint64("seed", 0, "PRNG seed for random workloads")
	lookups := fs.Int("lookups", 0, "lookup probes per run")
	outPath := fs.String("out", "", "write JSON results to this file (atomic)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fmap-bench [options]\n\nOptions:\n%s", fs.FlagUsages())
	}

	err := fs.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// CLI overrides.
	if len(*sizes) > 0 {
		cfg.Sizes = *sizes
	}

	if len(*workloads) > 0 {
		cfg.Workloads = *workloads
	}

	if len(*engineNames) > 0 {
		cfg.Engines = *engineNames
	}

	if *seed != 0 {
		cfg.Seed = *seed
	}

	if *lookups != 0 {
		cfg.Lookups = *lookups
	}

	if *outPath != "" {
		cfg.OutPath = *outPath
	}

	err = validateConfig(cfg)
	if err != nil {
		return err
	}

	results := runAll(cfg)
	printTable(results)

	if cfg.OutPath != "" {
		err = writeResults(cfg.OutPath, results)
		if err != nil {
			return err
		}

		fmt.Printf("\nresults written to %s\n", cfg.OutPath)
	}

	return nil
}

// Result is one engine/workload/size measurement.
type Result struct {
	Engine     string  `json:"engine"`
	Workload   string  `json:"workload"`
	Size       int     `json:"size"`
	LoadNsOp   float64 `json:"load_ns_per_op"`
	LookupNsOp float64 `json:"lookup_ns_per_op"`
}

// workloadGenerators produce the key insertion sequence for a size.
var workloadGenerators = map[string]func(rng *rand.Rand, size int) []int{
	"ascending": func(_ *rand.Rand, size int) []int {
		keys := make([]int, size)
		for i := range keys {
			keys[i] = i
		}

		return keys
	},
	"descending": func(_ *rand.Rand, size int) []int {
		keys := make([]int, size)
		for i := range keys {
			keys[i] = size - i
		}

		return keys
	},
	"random": func(rng *rand.Rand, size int) []int {
		keys := make([]int, size)
		for i := range keys {
			keys[i] = rng.IntN(size * 4)
		}

		return keys
	},
	"bulk": func(rng *rand.Rand, size int) []int {
		keys := make([]int, size)
		for i := range keys {
			keys[i] = rng.IntN(size * 4)
		}

		return keys
	},
}

// engine loads the keys (value = key) and returns a lookup probe.
type engine func(workload string, keys []int) (load time.Duration, lookup func(key int) bool)

var engines = map[string]engine{
	"flatmap": func(workload string, keys []int) (time.Duration, func(int) bool) {
		m := flatmap.New[int, int]()
		m.Reserve(len(keys))

		start := time.Now()

		if workload == "bulk" {
			bulk := m.BeginBulk()
			for _, key := range keys {
				bulk.Insert(key, key)
			}
			bulk.End()
		} else {
			for _, key := range keys {
				m.Insert(key, key)
			}
		}

		return time.Since(start), m.Contains
	},
	"btree": func(_ string, keys []int) (time.Duration, func(int) bool) {
		m := btree.NewMap[int, int](32)

		start := time.Now()

		for _, key := range keys {
			m.Set(key, key)
		}

		return time.Since(start), func(key int) bool {
			_, found := m.Get(key)

			return found
		}
	},
	"treemap": func(_ string, keys []int) (time.Duration, func(int) bool) {
		m := treemap.New[int, int]()

		start := time.Now()

		for _, key := range keys {
			m.Put(key, key)
		}

		return time.Since(start), func(key int) bool {
			_, found := m.Get(key)

			return found
		}
	},
	"stdmap": func(_ string, keys []int) (time.Duration, func(int) bool) {
		m := make(map[int]int, len(keys))

		start := time.Now()

		for _, key := range keys {
			m[key] = key
		}

		// Ordered engines pay their sorting cost during load; charge the
		// builtin map its deferred sort here for a fair comparison.
		sorted := make([]int, 0, len(m))
		for key := range m {
			sorted = append(sorted, key)
		}
		slices.Sort(sorted)

		load := time.Since(start)

		return load, func(key int) bool {
			_, found := m[key]

			return found
		}
	},
}

func runAll(cfg Config) []Result {
	var results []Result

	for _, workload := range cfg.Workloads {
		for _, size := range cfg.Sizes {
			// Same seed per cell so every engine sees identical keys.
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(size)))
			keys := workloadGenerators[workload](rng, size)

			probes := make([]int, cfg.Lookups)
			for i := range probes {
				probes[i] = keys[rng.IntN(len(keys))]
			}

			for _, name := range cfg.Engines {
				loadDur, contains := engines[name](workload, keys)

				lookupStart := time.Now()

				hits := 0
				for _, key := range probes {
					if contains(key) {
						hits++
					}
				}

				lookupDur := time.Since(lookupStart)

				if hits != len(probes) {
					// Probes are drawn from inserted keys; a miss means an
					// engine is broken, which would invalidate the numbers.
					panic(fmt.Sprintf("engine %s lost %d/%d keys", name, len(probes)-hits, len(probes)))
				}

				result := Result{
					Engine:   name,
					Workload: workload,
					Size:     size,
					LoadNsOp: float64(loadDur.Nanoseconds()) / float64(size),
				}

				if len(probes) > 0 {
					result.LookupNsOp = float64(lookupDur.Nanoseconds()) / float64(len(probes))
				}

				results = append(results, result)
			}
		}
	}

	return results
}

func printTable(results []Result) {
	fmt.Printf("%-10s %-12s %10s %14s %14s\n", "engine", "workload", "size", "load ns/op", "lookup ns/op")

	for _, r := range results {
		fmt.Printf("%-10s %-12s %10d %14.1f %14.1f\n", r.Engine, r.Workload, r.Size, r.LoadNsOp, r.LookupNsOp)
	}
}

func writeResults(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	return nil
}
