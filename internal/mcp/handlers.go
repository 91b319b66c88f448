package mcp

import (
	"context"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Varietyz/phigo-transpiler/internal/audit"
	"github.com/Varietyz/phigo-transpiler/internal/transpile"
)

// --- Input/Output types ---

// TranspileInput defines parameters for the phigo_transpile tool.
type TranspileInput struct {
	Source string `json:"source" jsonschema:"symbolic source to transpile"`
}

// TranspileOutput contains the transpiled source or block details.
type TranspileOutput struct {
	Output  string `json:"output,omitempty"`
	Matches int    `json:"matches"`
	Blocked bool   `json:"blocked,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// CheckInput defines parameters for the phigo_check tool.
type CheckInput struct {
	Source string `json:"source" jsonschema:"symbolic source to check"`
}

// CheckOutput contains the dry-run decision.
type CheckOutput struct {
	Decision string `json:"decision"`
	Matches  int    `json:"matches"`
	Symbol   string `json:"symbol,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// SymbolsInput is empty, no parameters needed.
type SymbolsInput struct{}

// SymbolsOutput lists the active mapping.
type SymbolsOutput struct {
	Count   int          `json:"count"`
	Symbols []SymbolItem `json:"symbols"`
}

// SymbolItem is one symbol to replacement pair.
type SymbolItem struct {
	Symbol      string `json:"symbol"`
	Replacement string `json:"replacement"`
}

// --- Handlers ---

func (s *Server) handleTranspile(ctx context.Context, req *mcpsdk.CallToolRequest, input TranspileInput) (*mcpsdk.CallToolResult, TranspileOutput, error) {
	start := time.Now()
	res, err := transpile.Run(input.Source, s.compiled, s.detector, false)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		var blocked *transpile.SecurityBlockedError
		if errors.As(err, &blocked) {
			s.recordAudit(input.Source, 0, audit.DecisionBlocked, blocked.Symbol, blocked.Pattern, elapsed)
			out := TranspileOutput{
				Blocked: true,
				Symbol:  blocked.Symbol,
				Pattern: blocked.Pattern,
			}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}
		s.recordAudit(input.Source, 0, audit.DecisionError, "", "", elapsed)
		return nil, TranspileOutput{}, err
	}

	s.recordAudit(input.Source, res.Matches, audit.DecisionOK, "", "", elapsed)
	return nil, TranspileOutput{
		Output:  res.Output,
		Matches: res.Matches,
	}, nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	start := time.Now()
	res, err := transpile.Run(input.Source, s.compiled, s.detector, false)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		var blocked *transpile.SecurityBlockedError
		if errors.As(err, &blocked) {
			s.recordAudit(input.Source, 0, audit.DecisionBlocked, blocked.Symbol, blocked.Pattern, elapsed)
			return nil, CheckOutput{
				Decision: audit.DecisionBlocked,
				Symbol:   blocked.Symbol,
				Pattern:  blocked.Pattern,
			}, nil
		}
		return nil, CheckOutput{}, err
	}

	s.recordAudit(input.Source, res.Matches, audit.DecisionOK, "", "", elapsed)
	return nil, CheckOutput{
		Decision: audit.DecisionOK,
		Matches:  res.Matches,
	}, nil
}

func (s *Server) handleSymbols(ctx context.Context, req *mcpsdk.CallToolRequest, input SymbolsInput) (*mcpsdk.CallToolResult, SymbolsOutput, error) {
	keys := s.compiled.Keys()
	items := make([]SymbolItem, len(keys))
	for i, k := range keys {
		rep, _ := s.compiled.Replacement(k)
		items[i] = SymbolItem{Symbol: k, Replacement: rep}
	}
	return nil, SymbolsOutput{Count: len(items), Symbols: items}, nil
}
