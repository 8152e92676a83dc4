// Package runtimeconfig loads the optional allocator/GC tuning document
// SPEC_FULL.md's ambient configuration section calls for: page size,
// hash-map rehash threshold, hash seed and scheduling mode, validated against an
// embedded JSON schema the way the teacher's pkg/schema.Validate checks
// inbound JSON before it is ever decoded into a Go struct.
package runtimeconfig

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/fredericbonnet/colibri-go/internal/corelog"
	"github.com/fredericbonnet/colibri-go/pkg/hashmap"
	"github.com/fredericbonnet/colibri-go/pkg/heap"
	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*
var schemaFiles embed.FS

func loadSchemaFile(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return schemaFiles.Open(u.Path)
}

func init() {
	jsonschema.Loaders["embedFS"] = loadSchemaFile
}

// Tuning holds the knobs a Runtime is willing to take from a document
// instead of compile-time defaults. Zero-value Tuning asks every
// component to keep its own default.
type Tuning struct {
	SchedulingMode   string `json:"scheduling-mode,omitempty"`
	PageCells        int    `json:"page-cells,omitempty"`
	LoadFactorLimit  int    `json:"load-factor-limit,omitempty"`
	HashSeed         uint64 `json:"hash-seed,omitempty"`
	hashSeedProvided bool
}

// Load reads and validates the tuning document at path. A missing file is
// not an error: it reports the zero-value Tuning (every default kept),
// matching the teacher's config.Init treatment of an absent config.json.
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Tuning{}, nil
		}
		return Tuning{}, err
	}

	s, err := jsonschema.Compile("embedFS://schemas/tuning.schema.json")
	if err != nil {
		return Tuning{}, fmt.Errorf("runtimeconfig: compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Tuning{}, fmt.Errorf("runtimeconfig: decode %s: %w", path, err)
	}
	if err := s.Validate(v); err != nil {
		return Tuning{}, fmt.Errorf("runtimeconfig: validate %s: %w", path, err)
	}

	var t Tuning
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return Tuning{}, fmt.Errorf("runtimeconfig: decode %s: %w", path, err)
	}
	var probe map[string]json.RawMessage
	_ = json.Unmarshal(raw, &probe)
	_, t.hashSeedProvided = probe["hash-seed"]
	corelog.Debugf("runtimeconfig: loaded tuning from %s: %+v", path, t)
	return t, nil
}

// Mode translates SchedulingMode into a heap.Mode, defaulting to
// ModeSingleSync when unset or unrecognized.
func (t Tuning) Mode() heap.Mode {
	switch t.SchedulingMode {
	case "single-async":
		return heap.ModeSingleAsync
	case "shared":
		return heap.ModeShared
	default:
		return heap.ModeSingleSync
	}
}

// HeapOptions builds the heap.Option list a Tuning implies, to pass
// straight to heap.Init.
func (t Tuning) HeapOptions() []heap.Option {
	var opts []heap.Option
	if t.PageCells > 0 {
		opts = append(opts, heap.WithPageCells(t.PageCells))
	}
	if t.hashSeedProvided {
		opts = append(opts, heap.WithHashSeed(t.HashSeed))
	}
	return opts
}

// HashMapOptions builds the hashmap.Option list a Tuning implies.
func (t Tuning) HashMapOptions() []hashmap.Option {
	if t.LoadFactorLimit > 0 {
		return []hashmap.Option{hashmap.WithLoadFactorLimit(t.LoadFactorLimit)}
	}
	return nil
}

// LoadEnv seeds the process environment from a .env file the way the
// teacher's cmd/cc-backend bootstraps local runs, via godotenv rather
// than a hand-rolled parser. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
