package evaluator

import (
	"fmt"
	"maps"

	"samsara/internal/game/puzzle"
)

// State is the mechanics-relevant slice of a puzzle session.
type State struct {
	Stage    int
	Mechanic map[string]any
}

func (s State) clone() State {
	if s.Stage < 1 {
		s.Stage = 1
	}
	s.Mechanic = maps.Clone(s.Mechanic)
	if s.Mechanic == nil {
		s.Mechanic = make(map[string]any)
	}
	return s
}

// Result is the outcome of a single evaluation. Malformed is set when the
// input could not be read for the puzzle's mechanics type; Solved is then false
// and the state is returned unchanged.
type Result struct {
	Solved    bool
	Stage     int
	Mechanic  map[string]any
	Malformed error
}

type Mechanic interface {
	Types() []puzzle.MechanicsType
	Validate(in Input) error
	Evaluate(criteria puzzle.Criteria, state State, in Input) Result
}

var mechanicRegistry = make(map[puzzle.MechanicsType]Mechanic)

func init() {
	RegisterMechanic(&RotationMechanic{})
	RegisterMechanic(&ItemMechanic{})
	RegisterMechanic(&CraftingMechanic{})
	RegisterMechanic(&SequenceMechanic{})
	RegisterMechanic(&AnswerMechanic{})
	RegisterMechanic(&DiplomacyMechanic{})
	RegisterMechanic(&InvestigationMechanic{})
	RegisterMechanic(&RitualMechanic{})
	RegisterMechanic(&NavigationMechanic{})
	RegisterMechanic(&PlacementMechanic{})
	RegisterMechanic(&UnificationMechanic{})
	RegisterMechanic(&SelectionMechanic{})
	RegisterMechanic(&EnergyMechanic{})
}

func RegisterMechanic(m Mechanic) {
	for _, t := range m.Types() {
		mechanicRegistry[t] = m
	}
}

func GetMechanic(t puzzle.MechanicsType) (Mechanic, bool) {
	m, exists := mechanicRegistry[t]
	return m, exists
}

// Evaluate dispatches on the definition's mechanics type. It never mutates
// state and never panics on bad input.
func Evaluate(def puzzle.Definition, state State, in Input) Result {
	state = state.clone()
	unchanged := Result{Stage: state.Stage, Mechanic: state.Mechanic}

	m, exists := GetMechanic(def.Type)
	if !exists {
		unchanged.Malformed = fmt.Errorf("%w: no evaluator for %s", ErrMalformedInput, def.Type)
		return unchanged
	}
	if def.Criteria == nil || !puzzle.CriteriaMatches(def.Type, def.Criteria) {
		unchanged.Malformed = fmt.Errorf("%w: criteria %T do not fit %s", ErrMalformedInput, def.Criteria, def.Type)
		return unchanged
	}
	if in == nil {
		unchanged.Malformed = malformed("no input")
		return unchanged
	}
	if err := m.Validate(in); err != nil {
		unchanged.Malformed = err
		return unchanged
	}
	return m.Evaluate(def.Criteria, state, in)
}

func solvedIf(ok bool, state State) Result {
	return Result{Solved: ok, Stage: state.Stage, Mechanic: state.Mechanic}
}
