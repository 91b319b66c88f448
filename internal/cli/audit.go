package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Work with hash-chained audit logs",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify the hash chain of an audit log",
	Long:  "Replays the JSONL audit log and checks that every entry's prev_hash\nmatches the hash of the previous line. Exit code 1 indicates a broken chain.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := audit.Verify(args[0])
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		if !result.Valid {
			os.Exit(1)
		}
		return nil
	},
}
