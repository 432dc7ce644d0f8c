package evaluator

import (
	"samsara/internal/game/puzzle"
)

type CraftingMechanic struct{}

func (m *CraftingMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.MultiStageCrafting}
}

func (m *CraftingMechanic) Validate(in Input) error {
	if !in.Bool("advance") {
		return malformed("crafting expects %q", "advance")
	}
	return nil
}

// Evaluate moves to the next stage. Advancement is unconditional unless the
// criteria are strict, in which case the stage's required item must be supplied.
// The puzzle is solved once the stage counter passes the last stage.
func (m *CraftingMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.CraftingCriteria)

	if state.Stage > len(c.Stages) {
		return solvedIf(true, state)
	}

	if c.Strict {
		required := c.Stages[state.Stage-1].Requires
		if required != "" {
			item, _ := in.String("item")
			if item != required {
				return solvedIf(false, state)
			}
		}
	}

	state.Stage++
	return solvedIf(state.Stage > len(c.Stages), state)
}
