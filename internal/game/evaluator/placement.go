package evaluator

import (
	"maps"

	"samsara/internal/game/puzzle"
)

type PlacementMechanic struct{}

func (m *PlacementMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.ConceptualDragAndDrop}
}

func (m *PlacementMechanic) Validate(in Input) error {
	if _, ok := in.StringMap("placements"); !ok {
		return malformed("%q must map concepts to slots", "placements")
	}
	return nil
}

func (m *PlacementMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.PlacementCriteria)
	placements, _ := in.StringMap("placements")
	state.Mechanic["placements"] = maps.Clone(placements)
	return solvedIf(len(c.Placements) > 0 && maps.Equal(placements, c.Placements), state)
}

type SelectionMechanic struct{}

func (m *SelectionMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.ConceptualSelection}
}

func (m *SelectionMechanic) Validate(in Input) error {
	return requireStrings(in, "selected")
}

// Evaluate requires every required concept and rejects any forbidden one.
func (m *SelectionMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.SelectionCriteria)
	selected, _ := in.Strings("selected")
	chosen := setOf(selected)
	ok := containsAll(chosen, c.Required) && !containsAny(chosen, c.Forbidden)
	return solvedIf(ok, state)
}
