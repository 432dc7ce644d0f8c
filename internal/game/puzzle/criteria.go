package puzzle

// Criteria holds the mechanics-specific solution parameters of a puzzle.
// Every implementation belongs to exactly one family of mechanics types.
type Criteria interface {
	criteria()
}

const (
	DefaultRotationTolerance = 5.0
)

type Ring struct {
	ID      string  `yaml:"id"`
	Target  float64 `yaml:"target"`
	Initial float64 `yaml:"initial"`
}

// RotationCriteria is solved when the average angular distance of all rings
// to their targets is within Tolerance degrees.
type RotationCriteria struct {
	Rings     []Ring  `yaml:"rings"`
	Tolerance float64 `yaml:"tolerance"`
}

// EffectiveTolerance returns Tolerance, or the default when none was declared.
func (c RotationCriteria) EffectiveTolerance() float64 {
	if c.Tolerance <= 0 {
		return DefaultRotationTolerance
	}
	return c.Tolerance
}

type ItemCriteria struct {
	ValidItems []string `yaml:"valid_items"`
}

type Stage struct {
	Name     string `yaml:"name"`
	Requires string `yaml:"requires,omitempty"`
}

// CraftingCriteria advances one stage per evaluation. Strict enables
// per-stage checks against Stage.Requires.
type CraftingCriteria struct {
	Stages []Stage `yaml:"stages"`
	Strict bool    `yaml:"strict"`
}

type SequenceCriteria struct {
	Notes []string `yaml:"notes"`
}

// AnswerCriteria accepts any of Answers. Aliases maps an alternative phrasing
// onto the canonical answer it stands for.
type AnswerCriteria struct {
	Answers []string          `yaml:"answers"`
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

type DiplomacyCriteria struct {
	MinFavorable     int      `yaml:"min_favorable"`
	RequiredAllies   []string `yaml:"required_allies"`
	AvoidAdversaries []string `yaml:"avoid_adversaries"`
}

type InvestigationCriteria struct {
	RequiredClues []string `yaml:"required_clues"`
	Culprit       string   `yaml:"culprit"`
}

// RitualCriteria requires every component to be gathered, in order when
// Ordered is set, within TimeLimit seconds when TimeLimit is positive.
type RitualCriteria struct {
	Components []string `yaml:"components"`
	Ordered    bool     `yaml:"ordered"`
	TimeLimit  float64  `yaml:"time_limit"`
}

// NavigationCriteria describes a directed graph of reflective choices.
type NavigationCriteria struct {
	Start string              `yaml:"start"`
	Goal  string              `yaml:"goal"`
	Paths map[string][]string `yaml:"paths"`
}

type PlacementCriteria struct {
	Placements map[string]string `yaml:"placements"`
}

type UnificationCriteria struct {
	Fragments map[string]float64 `yaml:"fragments"`
	Tolerance float64            `yaml:"tolerance"`
}

type SelectionCriteria struct {
	Required  []string `yaml:"required"`
	Forbidden []string `yaml:"forbidden"`
}

type EnergyCriteria struct {
	Channels  map[string]float64 `yaml:"channels"`
	Tolerance float64            `yaml:"tolerance"`
}

func (RotationCriteria) criteria()      {}
func (ItemCriteria) criteria()          {}
func (CraftingCriteria) criteria()      {}
func (SequenceCriteria) criteria()      {}
func (AnswerCriteria) criteria()        {}
func (DiplomacyCriteria) criteria()     {}
func (InvestigationCriteria) criteria() {}
func (RitualCriteria) criteria()        {}
func (NavigationCriteria) criteria()    {}
func (PlacementCriteria) criteria()     {}
func (UnificationCriteria) criteria()   {}
func (SelectionCriteria) criteria()     {}
func (EnergyCriteria) criteria()        {}

// CriteriaMatches reports whether c is the variant used by mechanics type t.
func CriteriaMatches(t MechanicsType, c Criteria) bool {
	switch c.(type) {
	case RotationCriteria:
		return t == RotationalAlignment
	case ItemCriteria:
		return t == ItemApplication || t == PurityAlignment
	case CraftingCriteria:
		return t == MultiStageCrafting
	case SequenceCriteria:
		return t == MusicalSequence
	case AnswerCriteria:
		switch t {
		case PhilosophicalRiddle, PhilosophicalInquiry, LogicalAnalysis, ExperientialParadox, UltimateInquiry:
			return true
		}
		return false
	case DiplomacyCriteria:
		return t == DiplomaticNavigation
	case InvestigationCriteria:
		return t == MysteryInvestigation
	case RitualCriteria:
		return t == RitualPreparation
	case NavigationCriteria:
		return t == SelfReflectiveNavigation
	case PlacementCriteria:
		return t == ConceptualDragAndDrop
	case UnificationCriteria:
		return t == VisualUnification
	case SelectionCriteria:
		return t == ConceptualSelection
	case EnergyCriteria:
		return t == EnergyBalancing
	}
	return false
}
