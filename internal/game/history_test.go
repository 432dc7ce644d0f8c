package game

import (
	"strings"
	"testing"

	"samsara/internal/game/puzzle"
)

func TestHistoryKeepsMostRecent(t *testing.T) {
	h := NewHistory(2)
	h.AddPlayerInput("play Sa Ga")
	h.AddOutcome("raga_gate", "not yet")
	h.AddHint("Begin at Sa.")

	got := h.GetEntries()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != "raga_gate: not yet" || got[1] != "Hint: Begin at Sa." {
		t.Errorf("entries = %v", got)
	}
}

func TestBuildHintContext(t *testing.T) {
	def := puzzle.Definition{ID: "sphinx_riddle", Name: "Riddle", Type: puzzle.PhilosophicalRiddle, MaxAttempts: 3}
	ctx := BuildHintContext(def, 2, []string{"It has no body."}, []string{"Player: answer wind"})

	for _, want := range []string{"Riddle (sphinx_riddle)", "Attempts so far: 2 of 3", "- It has no body.", "Player: answer wind"} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q:\n%s", want, ctx)
		}
	}
}
