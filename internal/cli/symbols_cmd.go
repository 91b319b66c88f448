package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/profile"
)

var symbolsFlags pipelineFlags

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsFlags.register(symbolsCmd)

	symbolsCmd.AddCommand(symbolsProfilesCmd)
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the active symbol mapping",
	Long:  "Prints the merged mapping (profile, symbols file, inline JSON) in\nmatch-priority order: longest symbols first.",
	RunE:  runSymbols,
}

func runSymbols(cmd *cobra.Command, args []string) error {
	compiled, err := symbolsFlags.buildCompiled()
	if err != nil {
		return err
	}

	type pair struct {
		Symbol      string `json:"symbol"`
		Replacement string `json:"replacement"`
	}
	keys := compiled.Keys()
	pairs := make([]pair, len(keys))
	for i, k := range keys {
		rep, _ := compiled.Replacement(k)
		pairs[i] = pair{Symbol: k, Replacement: rep}
	}

	out, _ := json.MarshalIndent(map[string]any{
		"count":   len(pairs),
		"symbols": pairs,
	}, "", "  ")
	fmt.Println(string(out))
	return nil
}

var symbolsProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available symbol profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range profile.List() {
			prof, err := profile.Load(name)
			if err != nil {
				fmt.Printf("%s (unreadable: %v)\n", name, err)
				continue
			}
			fmt.Printf("%s  %s (%d symbols)\n", name, prof.Description, len(prof.Symbols))
		}
		return nil
	},
}
