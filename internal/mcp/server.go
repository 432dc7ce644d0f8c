package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"samsara/internal/debug"
	"samsara/internal/game/evaluator"
	"samsara/internal/game/puzzle"
	"samsara/internal/game/session"
)

// PuzzleServer exposes a player's puzzle orchestrator as MCP tools.
type PuzzleServer struct {
	orchestrator *session.Orchestrator
	server       *mcp.Server
	debug        *debug.Logger
}

type PuzzleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Hints       int    `json:"hints"`
	Completed   bool   `json:"completed"`
}

type NoArgs struct{}

type StartArgs struct {
	PuzzleID string `json:"puzzle_id" jsonschema:"id of the puzzle to start"`
}

type SubmitArgs struct {
	SessionID string         `json:"session_id" jsonschema:"session returned by start_puzzle"`
	Input     map[string]any `json:"input" jsonschema:"structured input for the puzzle's mechanics type"`
}

type SessionArgs struct {
	SessionID string `json:"session_id" jsonschema:"session returned by start_puzzle"`
}

func NewPuzzleServer(o *session.Orchestrator, version string, debugLogger *debug.Logger) *PuzzleServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "samsara-puzzles",
		Version: version,
	}, nil)

	p := &PuzzleServer{orchestrator: o, server: server, debug: debugLogger}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_puzzles",
		Description: "List every puzzle with its mechanics type and whether the player has completed it",
	}, p.listPuzzles)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_puzzle",
		Description: "Open a session for a puzzle, resuming saved progress where the puzzle keeps it",
	}, p.startPuzzle)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_input",
		Description: "Evaluate one input against an open puzzle session",
	}, p.submitInput)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "request_hint",
		Description: "Reveal the next hint for an open puzzle session",
	}, p.requestHint)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "abandon_puzzle",
		Description: "Discard a puzzle session",
	}, p.abandonPuzzle)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_player_state",
		Description: "Return the player's rewards, attributes, access flags and puzzle progress",
	}, p.getPlayerState)

	return p
}

// Server returns the underlying MCP server, e.g. to connect a custom transport.
func (p *PuzzleServer) Server() *mcp.Server {
	return p.server
}

// Run serves over stdio until the client disconnects or ctx is done.
func (p *PuzzleServer) Run(ctx context.Context) error {
	return p.server.Run(ctx, mcp.NewStdioTransport())
}

func (p *PuzzleServer) listPuzzles(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[NoArgs]) (*mcp.CallToolResultFor[any], error) {
	state := p.orchestrator.Player()
	defs := p.orchestrator.Registry().List()
	out := make([]PuzzleSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, PuzzleSummary{
			ID:          def.ID,
			Name:        def.Name,
			Type:        string(def.Type),
			MaxAttempts: def.MaxAttempts,
			Hints:       len(def.Hints),
			Completed:   state.IsCompleted(def.ID),
		})
	}
	return jsonResult(out)
}

func (p *PuzzleServer) startPuzzle(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[StartArgs]) (*mcp.CallToolResultFor[any], error) {
	s, err := p.orchestrator.Start(ctx, params.Arguments.PuzzleID)
	if err != nil {
		return p.toolError("start_puzzle", err), nil
	}
	return jsonResult(s)
}

func (p *PuzzleServer) submitInput(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SubmitArgs]) (*mcp.CallToolResultFor[any], error) {
	out, err := p.orchestrator.Submit(ctx, params.Arguments.SessionID, evaluator.Input(params.Arguments.Input))
	if err != nil {
		return p.toolError("submit_input", err), nil
	}
	return jsonResult(out)
}

func (p *PuzzleServer) requestHint(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SessionArgs]) (*mcp.CallToolResultFor[any], error) {
	hint, err := p.orchestrator.Hint(ctx, params.Arguments.SessionID)
	if err != nil {
		return p.toolError("request_hint", err), nil
	}
	return textResult(hint), nil
}

func (p *PuzzleServer) abandonPuzzle(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[SessionArgs]) (*mcp.CallToolResultFor[any], error) {
	if err := p.orchestrator.Abandon(ctx, params.Arguments.SessionID); err != nil {
		return p.toolError("abandon_puzzle", err), nil
	}
	return textResult("Session discarded"), nil
}

func (p *PuzzleServer) getPlayerState(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[NoArgs]) (*mcp.CallToolResultFor[any], error) {
	return jsonResult(p.orchestrator.Player())
}

// toolError maps orchestrator errors onto tool results so that clients see a
// readable notice instead of a transport failure.
func (p *PuzzleServer) toolError(tool string, err error) *mcp.CallToolResultFor[any] {
	p.debug.Printf("MCP %s failed: %v", tool, err)

	msg := err.Error()
	switch {
	case errors.Is(err, puzzle.ErrUnknownPuzzle):
		msg = "puzzle data missing: " + err.Error()
	case errors.Is(err, session.ErrAttemptsExhausted):
		msg = "out of attempts"
	case errors.Is(err, session.ErrSessionClosed):
		msg = "this puzzle session is already finished"
	case errors.Is(err, session.ErrNoMoreHints):
		msg = "no more hints for this puzzle"
	}
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func jsonResult(v any) (*mcp.CallToolResultFor[any], error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
