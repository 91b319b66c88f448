package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
	"github.com/Varietyz/phigo-transpiler/internal/history"
	"github.com/Varietyz/phigo-transpiler/internal/transpile"
)

var (
	runFlags     pipelineFlags
	runBypass    bool
	runBenchmark bool
	runAuditLog  string
	runNoHistory bool
	runOutput    string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runFlags.register(runCmd)
	runCmd.Flags().BoolVar(&runBypass, "bypass", false, "Skip the security gate (prints a warning)")
	runCmd.Flags().BoolVar(&runBenchmark, "benchmark", false, "Print throughput stats to stderr")
	runCmd.Flags().StringVar(&runAuditLog, "audit-log", "", "Append a hash-chained audit entry to this JSONL file")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Do not record this run in the local history database")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Write output to file instead of stdout")
}

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Transpile symbolic source",
	Long:  "Reads source from the given file or stdin and writes transpiled output\nto stdout. Exit code 77 indicates a replacement hit the threat denylist.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	compiled, err := runFlags.buildCompiled()
	if err != nil {
		return err
	}
	detector, err := runFlags.buildDetector()
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

	if runBypass {
		fmt.Fprintln(os.Stderr, "WARNING: security gate bypassed, replacements are not checked")
	}

	start := time.Now()
	res, runErr := transpile.Run(source, compiled, detector, runBypass)
	elapsed := time.Since(start)

	var blocked *transpile.SecurityBlockedError
	if runErr != nil && !errors.As(runErr, &blocked) {
		return runErr
	}

	recordRun(source, res, blocked, elapsed, compiled.Len())

	if blocked != nil {
		resp := map[string]any{
			"blocked": true,
			"symbol":  blocked.Symbol,
			"pattern": blocked.Pattern,
		}
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(os.Stderr, string(out))
		os.Exit(exitBlocked)
	}

	if runBenchmark {
		secs := elapsed.Seconds()
		rate := 0.0
		if secs > 0 {
			rate = float64(len(source)) / secs
		}
		fmt.Fprintf(os.Stderr, "benchmark: %d chars in %s (%.0f chars/sec, %d matches)\n",
			len(source), elapsed, rate, res.Matches)
	}

	if runOutput != "" {
		return os.WriteFile(runOutput, []byte(res.Output), 0o644)
	}
	_, err = io.WriteString(os.Stdout, res.Output)
	return err
}

// recordRun writes audit and history entries when enabled. Recording
// failures are reported but never change the transpile outcome.
func recordRun(source string, res transpile.Result, blocked *transpile.SecurityBlockedError, elapsed time.Duration, symbolCount int) {
	decision := audit.DecisionOK
	if blocked != nil {
		decision = audit.DecisionBlocked
	}

	if runAuditLog != "" {
		log, err := audit.Open(runAuditLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "phigo: audit: %v\n", err)
		} else {
			entry := audit.Entry{
				SourceHash: audit.HashSource(source),
				Profile:    runFlags.profileName,
				Symbols:    symbolCount,
				Matches:    res.Matches,
				Decision:   decision,
				Bypass:     runBypass,
				DurationMS: elapsed.Milliseconds(),
			}
			if blocked != nil {
				entry.BlockedSymbol = blocked.Symbol
				entry.BlockedPattern = blocked.Pattern
			}
			if err := log.Record(entry); err != nil {
				fmt.Fprintf(os.Stderr, "phigo: audit: %v\n", err)
			}
			log.Close()
		}
	}

	if !runNoHistory {
		store, err := history.Open("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "phigo: history: %v\n", err)
			return
		}
		defer store.Close()
		rec := history.Record{
			Profile:     runFlags.profileName,
			SourceBytes: len(source),
			OutputBytes: len(res.Output),
			Matches:     res.Matches,
			Blocked:     blocked != nil,
			Bypass:      runBypass,
			DurationMS:  elapsed.Milliseconds(),
		}
		if err := store.Save(rec); err != nil {
			fmt.Fprintf(os.Stderr, "phigo: history: %v\n", err)
		}
	}
}
