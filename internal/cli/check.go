package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/transpile"
)

var checkFlags pipelineFlags

func init() {
	rootCmd.AddCommand(checkCmd)
	checkFlags.register(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Dry-run a source document against the security gate",
	Long:  "Runs the full pipeline without producing output. Prints the decision as\nJSON. Exit code 77 indicates the document would be blocked.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	compiled, err := checkFlags.buildCompiled()
	if err != nil {
		return err
	}
	detector, err := checkFlags.buildDetector()
	if err != nil {
		return err
	}

	var source string
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		source = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		source = string(data)
	}

	res, runErr := transpile.Run(source, compiled, detector, false)
	if runErr != nil {
		var blocked *transpile.SecurityBlockedError
		if errors.As(runErr, &blocked) {
			resp := map[string]any{
				"decision": "blocked",
				"symbol":   blocked.Symbol,
				"pattern":  blocked.Pattern,
			}
			out, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Println(string(out))
			os.Exit(exitBlocked)
		}
		return runErr
	}

	resp := map[string]any{
		"decision": "ok",
		"matches":  res.Matches,
	}
	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	return nil
}
