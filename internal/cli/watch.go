package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
	"github.com/Varietyz/phigo-transpiler/internal/history"
	"github.com/Varietyz/phigo-transpiler/internal/watch"
)

var (
	watchFlags        pipelineFlags
	watchIn           string
	watchOut          string
	watchBypass       bool
	watchPoll         bool
	watchPollInterval time.Duration
	watchAuditLog     string
	watchNoHistory    bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.register(watchCmd)
	watchCmd.Flags().StringVar(&watchIn, "in", ".", "Directory to watch for .phi files")
	watchCmd.Flags().StringVar(&watchOut, "out", "out", "Directory for transpiled output")
	watchCmd.Flags().BoolVar(&watchBypass, "bypass", false, "Skip the security gate (prints a warning)")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "Poll for changes instead of using inotify")
	watchCmd.Flags().DurationVar(&watchPollInterval, "poll-interval", 2*time.Second, "Polling interval with --poll")
	watchCmd.Flags().StringVar(&watchAuditLog, "audit-log", "", "Append hash-chained audit entries to this JSONL file")
	watchCmd.Flags().BoolVar(&watchNoHistory, "no-history", false, "Do not record runs in the local history database")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Transpile .phi files as they appear in a directory",
	Long:  "Watches --in for new or rewritten .phi files and writes transpiled .py\nfiles to --out. Files already present at startup are processed first.\nBlocked files are reported on stderr and skipped.",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	compiled, err := watchFlags.buildCompiled()
	if err != nil {
		return err
	}
	detector, err := watchFlags.buildDetector()
	if err != nil {
		return err
	}

	if watchBypass {
		fmt.Fprintln(os.Stderr, "WARNING: security gate bypassed, replacements are not checked")
	}

	cfg := watch.Config{
		OutDir:   watchOut,
		Compiled: compiled,
		Detector: detector,
		Bypass:   watchBypass,
		Profile:  watchFlags.profileName,
	}

	if watchAuditLog != "" {
		log, err := audit.Open(watchAuditLog)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer log.Close()
		cfg.Audit = log
	}

	if !watchNoHistory {
		store, err := history.Open("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "phigo: history disabled: %v\n", err)
		} else {
			defer store.Close()
			cfg.History = store
		}
	}

	runner := watch.NewRunner(cfg)

	if err := watch.ScanExisting(watchIn, runner.Handle); err != nil {
		return fmt.Errorf("scan %s: %w", watchIn, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down watcher...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "phigo: watching %s -> %s (%d symbols)\n", watchIn, watchOut, compiled.Len())

	if watchPoll {
		return watch.NewPollWatcher(watchIn, runner.Handle, watchPollInterval).Run(ctx)
	}
	return watch.NewDirWatcher(watchIn, runner.Handle).Run(ctx)
}
