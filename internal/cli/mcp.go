package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	phimcp "github.com/Varietyz/phigo-transpiler/internal/mcp"
)

var (
	mcpProfile  string
	mcpSymbols  string
	mcpDenylist string
	mcpStrategy string
	mcpAuditLog string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpProfile, "profile", "", "Symbol profile to load (e.g., phicode)")
	mcpCmd.Flags().StringVar(&mcpSymbols, "symbols-file", "", "Path to a JSON or YAML symbol mapping")
	mcpCmd.Flags().StringVar(&mcpDenylist, "denylist", "", "Path to denylist YAML")
	mcpCmd.Flags().StringVar(&mcpStrategy, "strategy", "regex", "Matcher strategy: regex or automaton")
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Append hash-chained audit entries to this JSONL file")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs phigo as an MCP (Model Context Protocol) server over stdio.\nExposes tools: phigo_transpile, phigo_check, phigo_symbols.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := phimcp.Config{
		ProfileName:  mcpProfile,
		SymbolsFile:  mcpSymbols,
		DenylistPath: mcpDenylist,
		Strategy:     mcpStrategy,
		AuditLogPath: mcpAuditLog,
	}

	srv, err := phimcp.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "phigo MCP server running on stdio")
	if mcpProfile != "" {
		fmt.Fprintf(os.Stderr, "Profile: %s\n", mcpProfile)
	}

	return srv.Run(ctx)
}
