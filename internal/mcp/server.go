// Package mcp exposes the transpiler as MCP tools over stdio, so agent
// hosts can transpile symbolic source without shelling out.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
	"github.com/Varietyz/phigo-transpiler/internal/profile"
	"github.com/Varietyz/phigo-transpiler/internal/symbols"
	"github.com/Varietyz/phigo-transpiler/internal/threat"
)

// Config holds MCP server configuration.
type Config struct {
	ProfileName  string
	SymbolsFile  string
	DenylistPath string
	Strategy     string
	AuditLogPath string
}

// Server wraps the MCP SDK server around the transpile pipeline.
type Server struct {
	mcpServer *mcpsdk.Server
	compiled  *symbols.Compiled
	detector  *threat.Detector
	profile   string
	auditLog  *audit.Log
}

// New creates an MCP server with a compiled mapping and detector.
func New(cfg Config) (*Server, error) {
	mapping := symbols.Mapping{}

	if cfg.ProfileName != "" {
		prof, err := profile.Load(cfg.ProfileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %q: %w", cfg.ProfileName, err)
		}
		mapping = mapping.Merge(prof.Mapping())
	}

	if cfg.SymbolsFile != "" {
		fileMapping, err := symbols.LoadFile(cfg.SymbolsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load symbols file: %w", err)
		}
		mapping = mapping.Merge(fileMapping)
	}

	strategy := symbols.Strategy(cfg.Strategy)
	if strategy == "" {
		strategy = symbols.StrategyRegex
	}
	compiled, err := symbols.Compile(mapping, strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to compile mapping: %w", err)
	}

	detector, err := threat.Load(cfg.DenylistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load denylist: %w", err)
	}

	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
	}

	s := &Server{
		compiled: compiled,
		detector: detector,
		profile:  cfg.ProfileName,
		auditLog: auditLog,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "phigo",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the audit log if configured.
func (s *Server) Close() error {
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

// registerTools adds all phigo tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phigo_transpile",
		Description: "Transpile symbolic source into plain source. Substitutions whose replacement matches the threat denylist return an error with the blocked pattern.",
	}, s.handleTranspile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phigo_check",
		Description: "Check a source document for symbols that would expand to denylisted text, without producing output (dry-run).",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "phigo_symbols",
		Description: "List the active symbol mapping, longest symbols first.",
	}, s.handleSymbols)
}

func (s *Server) recordAudit(source string, matches int, decision, blockedSymbol, blockedPattern string, durationMS int64) {
	if s.auditLog == nil {
		return
	}
	_ = s.auditLog.Record(audit.Entry{
		SourceHash:     audit.HashSource(source),
		Profile:        s.profile,
		Symbols:        s.compiled.Len(),
		Matches:        matches,
		Decision:       decision,
		BlockedSymbol:  blockedSymbol,
		BlockedPattern: blockedPattern,
		DurationMS:     durationMS,
	})
}
