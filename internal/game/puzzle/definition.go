package puzzle

import "fmt"

// MechanicsType selects the evaluation algorithm and the input shape a puzzle expects.
type MechanicsType string

const (
	RotationalAlignment      MechanicsType = "rotational_alignment"
	ItemApplication          MechanicsType = "item_application"
	PurityAlignment          MechanicsType = "purity_alignment"
	MultiStageCrafting       MechanicsType = "multi_stage_crafting"
	MusicalSequence          MechanicsType = "musical_sequence"
	DiplomaticNavigation     MechanicsType = "diplomatic_navigation"
	MysteryInvestigation     MechanicsType = "mystery_investigation"
	RitualPreparation        MechanicsType = "ritual_preparation"
	SelfReflectiveNavigation MechanicsType = "self_reflective_navigation"
	ConceptualDragAndDrop    MechanicsType = "conceptual_drag_and_drop"
	VisualUnification        MechanicsType = "visual_unification"
	ConceptualSelection      MechanicsType = "conceptual_selection"
	PhilosophicalRiddle      MechanicsType = "philosophical_riddle"
	PhilosophicalInquiry     MechanicsType = "philosophical_inquiry"
	LogicalAnalysis          MechanicsType = "logical_analysis"
	ExperientialParadox      MechanicsType = "experiential_paradox"
	UltimateInquiry          MechanicsType = "ultimate_inquiry"
	EnergyBalancing          MechanicsType = "energy_balancing"
)

// AllMechanicsTypes lists every known mechanics type in declaration order.
var AllMechanicsTypes = []MechanicsType{
	RotationalAlignment,
	ItemApplication,
	PurityAlignment,
	MultiStageCrafting,
	MusicalSequence,
	DiplomaticNavigation,
	MysteryInvestigation,
	RitualPreparation,
	SelfReflectiveNavigation,
	ConceptualDragAndDrop,
	VisualUnification,
	ConceptualSelection,
	PhilosophicalRiddle,
	PhilosophicalInquiry,
	LogicalAnalysis,
	ExperientialParadox,
	UltimateInquiry,
	EnergyBalancing,
}

// Valid reports whether t is one of the known mechanics types.
func (t MechanicsType) Valid() bool {
	for _, known := range AllMechanicsTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Rewards declares what a player receives when a puzzle is completed.
type Rewards struct {
	Items        []string       `yaml:"items,omitempty" json:"items,omitempty"`
	Abilities    []string       `yaml:"abilities,omitempty" json:"abilities,omitempty"`
	Knowledge    []string       `yaml:"knowledge,omitempty" json:"knowledge,omitempty"`
	Insights     []string       `yaml:"insights,omitempty" json:"insights,omitempty"`
	Achievements []string       `yaml:"achievements,omitempty" json:"achievements,omitempty"`
	Access       []string       `yaml:"access,omitempty" json:"access,omitempty"`
	Attributes   map[string]int `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Empty reports whether the declaration grants nothing.
func (r Rewards) Empty() bool {
	return len(r.Items) == 0 && len(r.Abilities) == 0 && len(r.Knowledge) == 0 &&
		len(r.Insights) == 0 && len(r.Achievements) == 0 && len(r.Access) == 0 &&
		len(r.Attributes) == 0
}

// Definition is the immutable, author-provided description of one puzzle.
type Definition struct {
	ID              string
	Name            string
	Type            MechanicsType
	Criteria        Criteria
	MaxAttempts     int // 0 means unbounded
	Rewards         Rewards
	Hints           []string
	ProgressKey     string
	PersistProgress bool
}

// Bounded reports whether the puzzle limits the number of evaluations.
func (d Definition) Bounded() bool {
	return d.MaxAttempts > 0
}

// SnapshotKey returns the world-state key under which progress snapshots are stored.
func (d Definition) SnapshotKey() string {
	if d.ProgressKey != "" {
		return d.ProgressKey
	}
	return d.ID + "_progress"
}

func (d Definition) validate() error {
	if d.ID == "" {
		return fmt.Errorf("puzzle definition has empty id")
	}
	if !d.Type.Valid() {
		return fmt.Errorf("puzzle %s: unknown mechanics type %q", d.ID, d.Type)
	}
	if d.Criteria == nil {
		return fmt.Errorf("puzzle %s: missing criteria", d.ID)
	}
	if !CriteriaMatches(d.Type, d.Criteria) {
		return fmt.Errorf("puzzle %s: criteria %T do not belong to mechanics type %s", d.ID, d.Criteria, d.Type)
	}
	if d.MaxAttempts < 0 {
		return fmt.Errorf("puzzle %s: max attempts must not be negative", d.ID)
	}
	return nil
}
