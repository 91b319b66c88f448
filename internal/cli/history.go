package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/history"
)

var (
	historyDB     string
	historyLimit  int
	historySearch string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.PersistentFlags().StringVar(&historyDB, "db", "", "Path to history database (default: ~/.phigo/history/history.db)")

	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show (0 for all)")
	historyListCmd.Flags().StringVar(&historySearch, "search", "", "Filter by profile name")

	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local transpile history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDB)
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Records(historyLimit, historySearch)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "no history")
			return nil
		}
		out, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(out))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDB)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Clear()
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all runs to a JSONL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDB)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.ExportJSON(args[0])
	},
}
