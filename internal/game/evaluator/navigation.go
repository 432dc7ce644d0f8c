package evaluator

import (
	"slices"

	"samsara/internal/game/puzzle"
)

type NavigationMechanic struct{}

func (m *NavigationMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.SelfReflectiveNavigation}
}

func (m *NavigationMechanic) Validate(in Input) error {
	return requireStrings(in, "choices")
}

// Evaluate walks the submitted choices from the start node. Every step must
// follow a declared edge and the walk must end on the goal.
func (m *NavigationMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.NavigationCriteria)
	choices, _ := in.Strings("choices")

	position := c.Start
	for _, next := range choices {
		if !slices.Contains(c.Paths[position], next) {
			state.Mechanic["position"] = position
			return solvedIf(false, state)
		}
		position = next
	}
	state.Mechanic["position"] = position
	return solvedIf(c.Goal != "" && position == c.Goal, state)
}
