// Command colibri-bench is a flag-driven demo/diagnostic CLI generalizing
// the teacher's cmd/cc-backend/main.go bootstrap: load an optional .env
// and tuning document, optionally register a gops diagnostics agent,
// exercise rope/list/map operations, and log generation/collection
// stats before and after.
package main

import (
	"flag"
	"time"

	colibri "github.com/fredericbonnet/colibri-go"
	"github.com/fredericbonnet/colibri-go/internal/corelog"
	"github.com/fredericbonnet/colibri-go/internal/gcmetrics"
	"github.com/fredericbonnet/colibri-go/internal/runtimeconfig"
	"github.com/fredericbonnet/colibri-go/pkg/colmap"
	"github.com/fredericbonnet/colibri-go/pkg/word"
	"github.com/google/gops/agent"
)

func main() {
	var (
		flagTuningFile string
		flagEnvFile    string
		flagGops       bool
		flagLogLevel   string
		flagElements   int
	)
	flag.StringVar(&flagTuningFile, "tuning", "./tuning.json", "Overwrite allocator/GC tuning defaults from `tuning.json`")
	flag.StringVar(&flagEnvFile, "env", "./.env", "Load environment variables from `.env` before startup")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.StringVar(&flagLogLevel, "loglevel", "info", "Sets the logging level: debug, info, notice, warn, err, crit")
	flag.IntVar(&flagElements, "n", 10000, "Number of elements to exercise the rope/list/map engines with")
	flag.Parse()

	corelog.SetLogLevel(flagLogLevel)

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			corelog.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := runtimeconfig.LoadEnv(flagEnvFile); err != nil {
		corelog.Fatalf("loading %s failed: %s", flagEnvFile, err.Error())
	}

	tu, err := runtimeconfig.Load(flagTuningFile)
	if err != nil {
		corelog.Fatalf("loading %s failed: %s", flagTuningFile, err.Error())
	}

	metrics := gcmetrics.New(nil)
	rt := colibri.InitFromTuning(tu, colibri.WithMetrics(metrics))
	defer rt.Cleanup()

	runExercise(rt, flagElements)
}

// runExercise builds a rope, a list and a hash map of n elements and logs
// the wall-clock cost of each, plus the map's final size, so a run of
// this binary doubles as a quick sanity check on a tuning document.
func runExercise(rt *colibri.Runtime, n int) {
	start := time.Now()
	r := rt.Rope.NewRopeFromString(stringOfLength(n))
	corelog.Infof("rope: built %d-character rope in %s", rt.Rope.Length(r), time.Since(start))

	start = time.Now()
	elems := make([]word.Word, n)
	for i := range elems {
		elems[i] = word.True
	}
	l := rt.List.NewList(elems)
	corelog.Infof("list: built %d-element list in %s", rt.List.Length(l), time.Since(start))

	start = time.Now()
	m := rt.Map.NewMap(colmap.BackingHash, colmap.IntKeys)
	for i := 0; i < n; i++ {
		k, _ := word.TryNewIntWord(int64(i))
		rt.Map.Set(m, k, k, colmap.IntKeys)
	}
	corelog.Infof("hashmap: inserted %d entries in %s", rt.Map.Size(m, colmap.IntKeys), time.Since(start))
}

func stringOfLength(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('a' + i%26)
	}
	return string(buf)
}
