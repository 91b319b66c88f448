package phigo

import (
	"errors"
	"fmt"

	"github.com/Varietyz/phigo-transpiler/internal/profile"
	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
	"github.com/Varietyz/phigo-transpiler/internal/transpile"
)

// Transpiler holds a compiled mapping and detector. Immutable after New;
// safe for concurrent Transpile calls.
type Transpiler struct {
	cfg      config
	compiled *symbols.Compiled
	detector *threat.Detector
}

// New creates a Transpiler with the given options.
func New(opts ...Option) (*Transpiler, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	mapping := symbols.Mapping{}

	if cfg.profileName != "" {
		prof, err := profile.Load(cfg.profileName)
		if err != nil {
			return nil, fmt.Errorf("phigo: failed to load profile %q: %w", cfg.profileName, err)
		}
		mapping = mapping.Merge(prof.Mapping())
	}

	if cfg.symbolsFile != "" {
		m, err := symbols.LoadFile(cfg.symbolsFile)
		if err != nil {
			return nil, fmt.Errorf("phigo: %w", err)
		}
		mapping = mapping.Merge(m)
	}

	if cfg.symbols != nil {
		mapping = mapping.Merge(symbols.Mapping(cfg.symbols))
	}

	compiled, err := symbols.Compile(mapping, symbols.Strategy(cfg.strategy))
	if err != nil {
		return nil, fmt.Errorf("phigo: failed to compile mapping: %w", err)
	}

	detector, err := threat.Load(cfg.denylistPath)
	if err != nil {
		return nil, fmt.Errorf("phigo: failed to load denylist: %w", err)
	}

	return &Transpiler{
		cfg:      cfg,
		compiled: compiled,
		detector: detector,
	}, nil
}

// Transpile converts a symbolic source document to plain source. A
// replacement matching the denylist returns a *BlockedError and no output.
func (t *Transpiler) Transpile(source string) (string, error) {
	res, err := t.Run(source)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Run is Transpile with match statistics.
func (t *Transpiler) Run(source string) (Result, error) {
	res, err := transpile.Run(source, t.compiled, t.detector, t.cfg.bypass)
	if err != nil {
		var blocked *transpile.SecurityBlockedError
		if errors.As(err, &blocked) {
			return Result{}, &BlockedError{
				Symbol:      blocked.Symbol,
				Replacement: blocked.Replacement,
				Pattern:     blocked.Pattern,
			}
		}
		return Result{}, err
	}
	return Result{Output: res.Output, Matches: res.Matches}, nil
}

// IsDangerous reports whether text contains a denylisted construct, using
// the Transpiler's active denylist.
func (t *Transpiler) IsDangerous(text string) bool {
	return t.detector.IsDangerous(text)
}

// Symbols returns the active symbols in match-priority order.
func (t *Transpiler) Symbols() []string {
	return t.compiled.Keys()
}
