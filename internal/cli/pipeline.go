package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/profile"
	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
)

// pipelineFlags are the mapping/denylist flags shared by run, check,
// symbols and watch.
type pipelineFlags struct {
	profileName string
	symbolsJSON string
	symbolsFile string
	denylist    string
	strategy    string
}

// buildCompiled assembles the active mapping and compiles it. Merge order
// is profile, then symbols file, then inline JSON; later sources win on
// collision.
func (f *pipelineFlags) buildCompiled() (*symbols.Compiled, error) {
	mapping := symbols.Mapping{}

	if f.profileName != "" {
		prof, err := profile.Load(f.profileName)
		if err != nil {
			return nil, err
		}
		mapping = mapping.Merge(prof.Mapping())
	}

	if f.symbolsFile != "" {
		m, err := symbols.LoadFile(f.symbolsFile)
		if err != nil {
			return nil, err
		}
		mapping = mapping.Merge(m)
	}

	if f.symbolsJSON != "" {
		m, err := symbols.ParseJSON([]byte(f.symbolsJSON))
		if err != nil {
			return nil, err
		}
		mapping = mapping.Merge(m)
	}

	compiled, err := symbols.Compile(mapping, symbols.Strategy(f.strategy))
	if err != nil {
		return nil, fmt.Errorf("failed to compile mapping: %w", err)
	}
	return compiled, nil
}

// buildDetector loads the threat denylist.
func (f *pipelineFlags) buildDetector() (*threat.Detector, error) {
	det, err := threat.Load(f.denylist)
	if err != nil {
		return nil, fmt.Errorf("failed to load denylist: %w", err)
	}
	return det, nil
}

// register adds the shared flags to a command.
func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profileName, "profile", "", "Symbol profile to load (e.g., phicode)")
	cmd.Flags().StringVarP(&f.symbolsJSON, "symbols", "s", "", "Inline JSON symbol mapping")
	cmd.Flags().StringVar(&f.symbolsFile, "symbols-file", "", "Path to a JSON or YAML symbol mapping")
	cmd.Flags().StringVar(&f.denylist, "denylist", "", "Path to denylist YAML (default: ~/.phigo/denylist.yaml)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "regex", "Matcher strategy: regex or automaton")
}
