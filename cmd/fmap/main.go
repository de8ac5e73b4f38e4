// fmap is an interactive explorer for the flatmap container.
//
// It drives a single Map[string, string] and prints the container's
// internal geometry (size, capacity, growth policy) after mutations, so
// the double-ended buffer behavior is easy to observe. Contract
// violations (lookup of a missing key, sorted-order calls during an open
// bulk session) are trapped and shown instead of killing the session.
//
// Usage:
//
//	fmap [--min-grow N] [--max-grow N]
//
// Commands (in REPL):
//
//	put <key> <value>        Insert (duplicates allowed)
//	unique <key> <value>     Insert only if the key is absent
//	get <key>                Look up a value (panics trapped and shown)
//	del <key>                Erase all elements with the key
//	find <key>               Show the index of the first match
//	dup [start]              Find the first adjacent duplicate pair
//	at <index>               Show the key and value at an index
//	len                      Show the element count
//	cap                      Show the capacity
//	bulk <count> [prefix]    Open a bulk session (or add to the open one)
//	                         and insert N random entries
//	end                      Sort and close the open bulk session
//	reserve <n>              Ensure capacity for n more elements
//	trim                     Shrink capacity to size
//	clear                    Remove all elements, keep capacity
//	dump [limit]             List entries in key order
//	info                     Show size, capacity, and growth policy
//	help                     Show this help
//	exit / quit / q          Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

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
	fs := flag.NewFlagSet("fmap", flag.ContinueOnError)

	minGrow := fs.Int("min-grow", flatmap.DefaultMinGrow, "growth policy lower bound")
	maxGrow := fs.Int("max-grow", flatmap.DefaultMaxGrow, "growth policy upper bound")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fmap [options]\n\nOptions:\n%s", fs.FlagUsages())
	}

	err := fs.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	if *minGrow <= 0 || *maxGrow < *minGrow {
		return fmt.Errorf("invalid growth policy: min-grow=%d max-grow=%d", *minGrow, *maxGrow)
	}

	repl := &REPL{
		m:   flatmap.NewWithGrow[string, string](*minGrow, *maxGrow),
		out: os.Stdout,
	}

	return repl.Run()
}

// REPL holds the interactive session state.
type REPL struct {
	m     *flatmap.Map[string, string]
	out   io.Writer
	liner *liner.State

	// bulk is non-nil while a session opened by the bulk command is still
	// waiting for end.
	bulk *flatmap.BulkInserter[string, string]
}

var replCommands = []string{
	"put", "unique", "get", "del", "find", "dup", "at", "len", "cap",
	"bulk", "end", "reserve", "trim", "clear", "dump", "info", "help",
	"exit", "quit",
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".fmap_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(func(line string) []string {
		var matches []string

		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				matches = append(matches, cmd)
			}
		}

		return matches
	})

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(r.out, "fmap - flatmap explorer (min_grow=%d, max_grow=%d)\n", r.m.MinGrow(), r.m.MaxGrow())
	fmt.Fprintln(r.out, "Type 'help' for available commands.")
	fmt.Fprintln(r.out)

	for {
		line, err := r.liner.Prompt(r.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		if line == "exit" || line == "quit" || line == "q" {
			break
		}

		r.dispatch(strings.Fields(line))
	}

	if f, err := os.Create(historyFile()); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}

	return nil
}

// prompt marks an open bulk session so it is obvious why sorted-order
// commands are panicking.
func (r *REPL) prompt() string {
	if r.bulk != nil {
		return "fmap(bulk)> "
	}

	return "fmap> "
}

// dispatch runs one command, trapping contract-violation panics so a
// misuse demonstration does not kill the session.
func (r *REPL) dispatch(fields []string) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(r.out, "contract violation: %v\n", p)
		}
	}()

	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "put":
		r.cmdPut(args)
	case "unique":
		r.cmdUnique(args)
	case "get":
		r.cmdGet(args)
	case "del":
		r.cmdDel(args)
	case "find":
		r.cmdFind(args)
	case "dup":
		r.cmdDup(args)
	case "at":
		r.cmdAt(args)
	case "len":
		fmt.Fprintf(r.out, "len=%d\n", r.m.Len())
	case "cap":
		fmt.Fprintf(r.out, "cap=%d\n", r.m.Capacity())
	case "bulk":
		r.cmdBulk(args)
	case "end":
		r.cmdEnd()
	case "reserve":
		r.cmdReserve(args)
	case "trim":
		r.m.Trim()
		r.printInfo()
	case "clear":
		r.m.Clear()
		r.printInfo()
	case "dump":
		r.cmdDump(args)
	case "info":
		r.printInfo()
	case "help":
		r.printHelp()
	default:
		fmt.Fprintf(r.out, "unknown command %q (try 'help')\n", cmd)
	}
}

func (r *REPL) cmdPut(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "usage: put <key> <value>")

		return
	}

	r.m.Insert(args[0], args[1])
	r.printInfo()
}

func (r *REPL) cmdUnique(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(r.out, "usage: unique <key> <value>")

		return
	}

	if r.m.InsertUnique(args[0], args[1]) {
		r.printInfo()
	} else {
		fmt.Fprintf(r.out, "key %q already present\n", args[0])
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: get <key>")

		return
	}

	// Get panics on absence; the dispatch recover shows that behavior.
	fmt.Fprintf(r.out, "%s = %s\n", args[0], r.m.Get(args[0]))
}

func (r *REPL) cmdDel(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: del <key>")

		return
	}

	before := r.m.Len()
	r.m.Erase(args[0])
	fmt.Fprintf(r.out, "erased %d element(s)\n", before-r.m.Len())
}

func (r *REPL) cmdFind(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: find <key>")

		return
	}

	index := r.m.FindIndex(args[0])
	if index == flatmap.NotFound {
		fmt.Fprintln(r.out, "not found")
	} else {
		fmt.Fprintf(r.out, "index %d\n", index)
	}
}

func (r *REPL) cmdDup(args []string) {
	start := 0

	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 0 {
			fmt.Fprintln(r.out, "usage: dup [start>=0]")

			return
		}

		start = parsed
	}

	index := r.m.FindDuplicate(start)
	if index == flatmap.NotFound {
		fmt.Fprintln(r.out, "no adjacent duplicates")
	} else {
		fmt.Fprintf(r.out, "duplicate key %q at index %d\n", r.m.KeyAt(index), index)
	}
}

func (r *REPL) cmdAt(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: at <index>")

		return
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(r.out, "usage: at <index>")

		return
	}

	// Indexed access trusts its caller, so range-check here instead of
	// handing the container an index that could land in a spare slot.
	if index < 0 || index >= r.m.Len() {
		fmt.Fprintf(r.out, "index %d out of range [0, %d)\n", index, r.m.Len())

		return
	}

	fmt.Fprintf(r.out, "[%d] %s = %s\n", index, r.m.KeyAt(index), *r.m.ValueAt(index))
}

func (r *REPL) cmdBulk(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(r.out, "usage: bulk <count> [prefix]")

		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Fprintln(r.out, "count must be a positive integer")

		return
	}

	prefix := "k"
	if len(args) > 1 {
		prefix = args[1]
	}

	if r.bulk == nil {
		r.m.Reserve(count)
		r.bulk = r.m.BeginBulk()
	}

	for range count {
		key := fmt.Sprintf("%s%06d", prefix, rand.IntN(count*4))
		r.bulk.Insert(key, "bulk")
	}

	fmt.Fprintf(r.out, "bulk session open: %d element(s) total, run 'end' to sort\n", r.bulk.Len())
}

func (r *REPL) cmdEnd() {
	if r.bulk == nil {
		fmt.Fprintln(r.out, "no open bulk session (open one with 'bulk')")

		return
	}

	r.bulk.End()
	r.bulk = nil

	fmt.Fprintln(r.out, "bulk session ended, live range sorted")
	r.printInfo()
}

func (r *REPL) cmdReserve(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: reserve <n>")

		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintln(r.out, "n must be a non-negative integer")

		return
	}

	r.m.Reserve(n)
	r.printInfo()
}

func (r *REPL) cmdDump(args []string) {
	limit := 50

	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			fmt.Fprintln(r.out, "usage: dump [limit>0]")

			return
		}

		limit = parsed
	}

	index := 0
	for key, value := range r.m.All() {
		if index >= limit {
			fmt.Fprintf(r.out, "... (%d more)\n", r.m.Len()-index)

			break
		}

		fmt.Fprintf(r.out, "  [%4d] %s = %s\n", index, key, value)
		index++
	}

	if r.m.Len() == 0 {
		fmt.Fprintln(r.out, "  (empty)")
	}
}

func (r *REPL) printInfo() {
	fmt.Fprintf(r.out, "size=%d capacity=%d min_grow=%d max_grow=%d\n",
		r.m.Len(), r.m.Capacity(), r.m.MinGrow(), r.m.MaxGrow())
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `Commands:
  put <key> <value>        Insert (duplicates allowed)
  unique <key> <value>     Insert only if the key is absent
  get <key>                Look up a value (a miss shows the trapped panic)
  del <key>                Erase all elements with the key
  find <key>               Index of the first match, or not found
  dup [start]              First adjacent duplicate pair
  at <index>               Key and value at an index
  len                      Element count
  cap                      Capacity
  bulk <count> [prefix]    Open a bulk session (or add to the open one)
                           and insert N random entries
  end                      Sort and close the open bulk session
  reserve <n>              Ensure capacity for n more elements
  trim                     Shrink capacity to size
  clear                    Remove all elements, keep capacity
  dump [limit]             List entries in key order
  info                     Show size, capacity, and growth policy
  exit                     Exit
`)
}
