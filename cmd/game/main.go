// Samsara Saga puzzle runner. Puzzles are played in a terminal UI, served to
// agents over MCP, and recorded in a local SQLite database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"samsara/cmd/game/ui"
	"samsara/internal/llm"
	"samsara/internal/mcp"
)

const version = "0.3.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mode := "play"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	var err error
	switch mode {
	case "play":
		err = runGame(ctx)
	case "mcp", "--mcp":
		err = runMCPServer(ctx)
	case "review", "--review":
		err = runReviewMode(ctx, os.Args[2:])
	case "progress":
		err = runProgressMode(ctx)
	default:
		fmt.Println("Usage: game [play | mcp | review [limit] [--all] [--hints] | progress]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGame(ctx context.Context) error {
	a, cleanup, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	a.debug.Printf("Starting Samsara Saga for %s", a.config.Player)
	p := tea.NewProgram(ui.NewModel(a.orchestrator, a.debug), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func runMCPServer(ctx context.Context) error {
	a, cleanup, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	a.debug.Printf("Serving puzzles for %s over MCP stdio", a.config.Player)
	return mcp.NewPuzzleServer(a.orchestrator, version, a.debug).Run(ctx)
}

func runReviewMode(ctx context.Context, args []string) error {
	a, cleanup, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	limit := 20
	playerName := a.config.Player
	hints := false
	for _, arg := range args {
		switch arg {
		case "--all":
			playerName = ""
			continue
		case "--hints":
			hints = true
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid limit %q", arg)
		}
		limit = n
	}

	if hints {
		return reviewHints(ctx, a, limit)
	}

	evs, err := a.store.RecentEvents(ctx, playerName, limit)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	if len(evs) == 0 {
		fmt.Println("No puzzle events found. Play a puzzle first!")
		return nil
	}

	fmt.Printf("Recent puzzle events (%d):\n\n", len(evs))
	for _, ev := range evs {
		fmt.Printf("%s | %-10s | %-12s | %-20s | attempt %d\n",
			ev.Timestamp.Format("2006-01-02 15:04:05"),
			ev.Player,
			ev.Type,
			ev.PuzzleID,
			ev.Attempt)
		if ev.Content != "" {
			fmt.Printf("    %s\n", ev.Content)
		}
	}
	return nil
}

func reviewHints(ctx context.Context, a *app, limit int) error {
	completions, err := a.store.RecentCompletions(ctx, limit)
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		fmt.Println("No generated hints found. Hints are generated once a puzzle's written hints run out.")
		return nil
	}

	fmt.Printf("Recent generated hints (%d):\n\n", len(completions))
	for _, comp := range completions {
		var metadata llm.CompletionMetadata
		if err := json.Unmarshal([]byte(comp.Metadata), &metadata); err == nil {
			fmt.Printf("[%d] %s | %dms | %s\n",
				comp.ID,
				comp.Timestamp.Format("15:04:05"),
				metadata.ResponseTimeMs,
				comp.PuzzleID)
			if metadata.Error != nil {
				fmt.Printf("Error: %s\n", *metadata.Error)
			}
		} else {
			fmt.Printf("[%d] %s | %s\n", comp.ID, comp.Timestamp.Format("15:04:05"), comp.PuzzleID)
		}
		fmt.Printf("Hint: %s\n", comp.Response)
		fmt.Println(strings.Repeat("-", 50))
	}
	return nil
}

func runProgressMode(ctx context.Context) error {
	a, cleanup, err := createApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	state := a.orchestrator.Player()
	registry := a.orchestrator.Registry()

	fmt.Printf("Player: %s\n\n", state.Name)
	completed := 0
	for _, def := range registry.List() {
		p := state.Progress(def.ID)
		mark := " "
		if p.Completed {
			mark = "✓"
			completed++
		}
		line := fmt.Sprintf("[%s] %-20s attempts %d", mark, def.ID, p.Attempts)
		if snap, ok := state.Snapshot(def.SnapshotKey()); ok && def.PersistProgress && !p.Completed {
			line += fmt.Sprintf(", saved at stage %d", snap.Stage)
		}
		fmt.Println(line)
	}
	fmt.Printf("\n%d of %d puzzles completed\n", completed, registry.Len())

	abilities, err := a.store.Abilities(ctx, state.Name)
	if err != nil {
		return fmt.Errorf("failed to get abilities: %w", err)
	}
	if len(abilities) > 0 {
		fmt.Printf("Abilities: %s\n", strings.Join(abilities, ", "))
	}
	if len(state.Rewards.Items) > 0 {
		fmt.Printf("Items: %s\n", strings.Join(state.Rewards.Items, ", "))
	}
	return nil
}
