package ui

import (
	"errors"
	"slices"
	"testing"
	"time"

	"samsara/internal/game/evaluator"
	"samsara/internal/game/puzzle"
)

func TestParseSlashCommands(t *testing.T) {
	d := newDraft(time.Now())
	tests := []struct {
		line string
		kind commandKind
		arg  string
	}{
		{"/puzzles", cmdPuzzles, ""},
		{"/start raga_gate", cmdStart, "raga_gate"},
		{"  /HINT ", cmdHint, ""},
		{"/abandon", cmdAbandon, ""},
		{"/state", cmdState, ""},
		{"/help", cmdHelp, ""},
		{"submit", cmdSubmit, ""},
		{"", cmdNone, ""},
	}
	for _, tt := range tests {
		c, err := parseCommand(tt.line, d)
		if err != nil {
			t.Errorf("parseCommand(%q) error: %v", tt.line, err)
			continue
		}
		if c.kind != tt.kind || c.arg != tt.arg {
			t.Errorf("parseCommand(%q) = %+v, want kind %d arg %q", tt.line, c, tt.kind, tt.arg)
		}
	}
	if !d.empty() {
		t.Errorf("slash commands wrote to the draft: %v", d.fields)
	}
}

func TestParseErrors(t *testing.T) {
	d := newDraft(time.Now())
	if _, err := parseCommand("dance wildly", d); !errors.Is(err, errUnknownVerb) {
		t.Errorf("unknown verb: got %v, want errUnknownVerb", err)
	}
	if _, err := parseCommand("/start", d); !errors.Is(err, errMissingArgs) {
		t.Errorf("/start without id: got %v, want errMissingArgs", err)
	}
	if _, err := parseCommand("answer", d); !errors.Is(err, errMissingArgs) {
		t.Errorf("answer without text: got %v, want errMissingArgs", err)
	}
	if _, err := parseCommand("rotate outer ninety", d); err == nil {
		t.Error("rotate with a non-numeric angle: got nil error")
	}
	if _, err := parseCommand("place truth", d); !errors.Is(err, errMissingArgs) {
		t.Errorf("place without slot: got %v, want errMissingArgs", err)
	}
}

func TestImmediateVerbs(t *testing.T) {
	tests := []struct {
		line string
		key  string
		want any
	}{
		{"answer fire", "answer", "fire"},
		{"drop Sacred Ash", "item", "Sacred Ash"},
		{"accuse the ferryman", "accusation", "the ferryman"},
	}
	for _, tt := range tests {
		d := newDraft(time.Now())
		c, err := parseCommand(tt.line, d)
		if err != nil {
			t.Fatalf("parseCommand(%q) error: %v", tt.line, err)
		}
		if c.kind != cmdSubmit {
			t.Errorf("parseCommand(%q) kind = %d, want cmdSubmit", tt.line, c.kind)
		}
		if got := d.fields[tt.key]; got != tt.want {
			t.Errorf("parseCommand(%q) %s = %v, want %v", tt.line, tt.key, got, tt.want)
		}
	}
}

func TestPlaySplitsNotes(t *testing.T) {
	d := newDraft(time.Now())
	if _, err := parseCommand("play Sa, Ga Pa,Dha Ni", d); err != nil {
		t.Fatalf("parseCommand() error: %v", err)
	}
	notes, ok := evaluator.Input(d.fields).Strings("notes")
	if !ok || !slices.Equal(notes, []string{"Sa", "Ga", "Pa", "Dha", "Ni"}) {
		t.Errorf("notes = %v, want Sa Ga Pa Dha Ni", notes)
	}
}

func TestAdvanceWithAndWithoutItem(t *testing.T) {
	d := newDraft(time.Now())
	if _, err := parseCommand("advance", d); err != nil {
		t.Fatalf("advance error: %v", err)
	}
	in := d.take(time.Now())
	if !in.Bool("advance") {
		t.Error("advance flag not set")
	}
	if _, ok := in["item"]; ok {
		t.Errorf("bare advance set an item: %v", in["item"])
	}

	if _, err := parseCommand("advance Colored Sand", d); err != nil {
		t.Fatalf("advance with item error: %v", err)
	}
	in = d.take(time.Now())
	if item, _ := in.String("item"); item != "Colored Sand" {
		t.Errorf("item = %q, want Colored Sand", item)
	}
}

func TestDraftAccumulatesUntilTaken(t *testing.T) {
	d := newDraft(time.Now())
	for _, line := range []string{
		"favor the merchant",
		"favor the priest",
		"ally Queen Mother",
		"rotate outer 350",
		"rotate inner 2",
		"level Muladhara 48",
		"place truth = heart",
	} {
		if _, err := parseCommand(line, d); err != nil {
			t.Fatalf("parseCommand(%q) error: %v", line, err)
		}
	}

	in := d.take(time.Now())
	if favorable, _ := in.Strings("favorable"); len(favorable) != 2 {
		t.Errorf("favorable = %v, want 2 entries", favorable)
	}
	if allies, _ := in.Strings("allies"); !slices.Equal(allies, []string{"Queen Mother"}) {
		t.Errorf("allies = %v", allies)
	}
	rotations, _ := in.FloatMap("rotations")
	if rotations["outer"] != 350 || rotations["inner"] != 2 {
		t.Errorf("rotations = %v", rotations)
	}
	if levels, _ := in.FloatMap("levels"); levels["Muladhara"] != 48 {
		t.Errorf("levels = %v", levels)
	}
	if placements, _ := in.StringMap("placements"); placements["truth"] != "heart" {
		t.Errorf("placements = %v", placements)
	}
	if !d.empty() {
		t.Errorf("draft not reset after take: %v", d.fields)
	}
}

func TestGatherRecordsElapsed(t *testing.T) {
	start := time.Now()
	d := newDraft(start)
	parseCommand("gather lotus", d)
	parseCommand("gather ghee lamp", d)

	in := d.take(start.Add(42 * time.Second))
	elapsed, ok := in.Float("elapsed")
	if !ok || elapsed != 42 {
		t.Errorf("elapsed = %v (%v), want 42", elapsed, ok)
	}

	d = newDraft(start)
	parseCommand("gather lotus", d)
	parseCommand("set elapsed = 5", d)
	if elapsed, _ := d.take(start.Add(time.Minute)).Float("elapsed"); elapsed != 5 {
		t.Errorf("explicit elapsed = %v, want 5", elapsed)
	}
}

func TestFillListsAddsMissingFields(t *testing.T) {
	in := fillLists(puzzle.DiplomaticNavigation, evaluator.Input{"favorable": []string{"a"}})
	if allies, ok := in.Strings("allies"); !ok || len(allies) != 0 {
		t.Errorf("allies = %v (%v), want empty list", allies, ok)
	}
	if favorable, _ := in.Strings("favorable"); len(favorable) != 1 {
		t.Errorf("existing favorable list overwritten: %v", favorable)
	}

	in = fillLists(puzzle.PhilosophicalRiddle, evaluator.Input{"answer": "fire"})
	if len(in) != 1 {
		t.Errorf("answer puzzle gained fields: %v", in)
	}
}
