package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
	"github.com/Varietyz/phigo-transpiler/internal/history"
	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
	"github.com/Varietyz/phigo-transpiler/internal/transpile"
)

// Config wires a Runner to the transpile pipeline.
type Config struct {
	OutDir   string
	Compiled *symbols.Compiled
	Detector *threat.Detector
	Bypass   bool
	Profile  string

	// Audit and History are optional; nil disables recording.
	Audit   *audit.Log
	History *history.Store
}

// Runner transpiles watched source files into the output directory.
type Runner struct {
	cfg Config
}

// NewRunner creates a Runner for the given pipeline config.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

// Handle transpiles one source file. Blocked or failed files are reported
// on stderr and skipped; the watcher keeps running.
func (r *Runner) Handle(path string) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "phigo: read %s: %v\n", path, err)
		return
	}
	source := string(data)

	res, err := transpile.Run(source, r.cfg.Compiled, r.cfg.Detector, r.cfg.Bypass)
	elapsed := time.Since(start)

	if err != nil {
		var blocked *transpile.SecurityBlockedError
		if errors.As(err, &blocked) {
			fmt.Fprintf(os.Stderr, "phigo: blocked %s: symbol %q expands to text matching %q\n",
				path, blocked.Symbol, blocked.Pattern)
			r.record(source, "", 0, elapsed, blocked)
			return
		}
		fmt.Fprintf(os.Stderr, "phigo: transpile %s: %v\n", path, err)
		return
	}

	out := r.outPath(path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "phigo: create output directory: %v\n", err)
		return
	}
	if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "phigo: write %s: %v\n", out, err)
		return
	}

	fmt.Fprintf(os.Stderr, "phigo: %s -> %s (%d matches)\n", path, out, res.Matches)
	r.record(source, res.Output, res.Matches, elapsed, nil)
}

// outPath maps in/foo.phi to <OutDir>/foo.py.
func (r *Runner) outPath(in string) string {
	name := filepath.Base(in)
	name = strings.TrimSuffix(name, ".phi") + ".py"
	return filepath.Join(r.cfg.OutDir, name)
}

func (r *Runner) record(source, output string, matches int, elapsed time.Duration, blocked *transpile.SecurityBlockedError) {
	decision := audit.DecisionOK
	if blocked != nil {
		decision = audit.DecisionBlocked
	}

	if r.cfg.Audit != nil {
		entry := audit.Entry{
			SourceHash: audit.HashSource(source),
			Profile:    r.cfg.Profile,
			Symbols:    r.cfg.Compiled.Len(),
			Matches:    matches,
			Decision:   decision,
			Bypass:     r.cfg.Bypass,
			DurationMS: elapsed.Milliseconds(),
		}
		if blocked != nil {
			entry.BlockedSymbol = blocked.Symbol
			entry.BlockedPattern = blocked.Pattern
		}
		if err := r.cfg.Audit.Record(entry); err != nil {
			fmt.Fprintf(os.Stderr, "phigo: audit: %v\n", err)
		}
	}

	if r.cfg.History != nil {
		rec := history.Record{
			Profile:     r.cfg.Profile,
			SourceBytes: len(source),
			OutputBytes: len(output),
			Matches:     matches,
			Blocked:     blocked != nil,
			Bypass:      r.cfg.Bypass,
			DurationMS:  elapsed.Milliseconds(),
		}
		if err := r.cfg.History.Save(rec); err != nil {
			fmt.Fprintf(os.Stderr, "phigo: history: %v\n", err)
		}
	}
}
