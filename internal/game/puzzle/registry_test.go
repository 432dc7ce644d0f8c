package puzzle

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogCoversEveryMechanicsType(t *testing.T) {
	defs, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error: %v", err)
	}

	reg, err := NewRegistry(defs...)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}

	seen := make(map[MechanicsType]bool)
	for _, def := range reg.List() {
		seen[def.Type] = true
	}
	for _, mt := range AllMechanicsTypes {
		if !seen[mt] {
			t.Errorf("catalog has no puzzle of type %s", mt)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	_, err = reg.Get("missing")
	if !errors.Is(err, ErrUnknownPuzzle) {
		t.Errorf("Get(missing) error = %v, want ErrUnknownPuzzle", err)
	}
}

func TestRegistryRejectsMismatchedCriteria(t *testing.T) {
	_, err := NewRegistry(Definition{
		ID:       "bad",
		Type:     MusicalSequence,
		Criteria: ItemCriteria{ValidItems: []string{"Lotus Petal"}},
	})
	if err == nil {
		t.Fatal("NewRegistry() accepted item criteria on a musical puzzle")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	def := Definition{ID: "dup", Type: MusicalSequence, Criteria: SequenceCriteria{Notes: []string{"Sa"}}}
	if _, err := NewRegistry(def, def); err == nil {
		t.Fatal("NewRegistry() accepted duplicate ids")
	}
}

func TestLoadCatalogDecodesCriteriaByType(t *testing.T) {
	src := `
puzzles:
  - id: rings
    mechanics:
      type: rotational_alignment
      criteria:
        tolerance: 7.5
        rings:
          - id: a
            target: 90
    max_attempts: 4
    hints: [one, two]
  - id: altar
    mechanics:
      type: purity_alignment
      criteria:
        valid_items: [Pure Crystal]
`
	defs, err := LoadCatalog(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}

	rot, ok := defs[0].Criteria.(RotationCriteria)
	if !ok {
		t.Fatalf("criteria type = %T, want RotationCriteria", defs[0].Criteria)
	}
	if rot.Tolerance != 7.5 || len(rot.Rings) != 1 || rot.Rings[0].Target != 90 {
		t.Errorf("rotation criteria = %+v", rot)
	}
	if defs[0].MaxAttempts != 4 || len(defs[0].Hints) != 2 {
		t.Errorf("definition = %+v", defs[0])
	}
	if defs[0].SnapshotKey() != "rings_progress" {
		t.Errorf("SnapshotKey() = %q, want rings_progress", defs[0].SnapshotKey())
	}

	items, ok := defs[1].Criteria.(ItemCriteria)
	if !ok || len(items.ValidItems) != 1 {
		t.Errorf("item criteria = %#v", defs[1].Criteria)
	}
}

func TestLoadCatalogUnknownType(t *testing.T) {
	src := `
puzzles:
  - id: odd
    mechanics:
      type: juggling
`
	if _, err := LoadCatalog(strings.NewReader(src)); err == nil {
		t.Fatal("LoadCatalog() accepted an unknown mechanics type")
	}
}

func TestRotationDefaultTolerance(t *testing.T) {
	c := RotationCriteria{}
	if got := c.EffectiveTolerance(); got != DefaultRotationTolerance {
		t.Errorf("EffectiveTolerance() = %v, want %v", got, DefaultRotationTolerance)
	}
}
