package evaluator

import (
	"math"

	"samsara/internal/game/puzzle"
)

// withinTolerance reports whether every target has a submitted value no
// further than tolerance away. Missing values fail.
func withinTolerance(targets, values map[string]float64, tolerance float64) bool {
	if len(targets) == 0 {
		return false
	}
	for name, target := range targets {
		v, ok := values[name]
		if !ok || math.Abs(v-target) > tolerance {
			return false
		}
	}
	return true
}

func mergeLevels(state State, key string, submitted map[string]float64) map[string]float64 {
	merged, _ := Input(state.Mechanic).FloatMap(key)
	out := make(map[string]float64, len(merged)+len(submitted))
	for k, v := range merged {
		out[k] = v
	}
	for k, v := range submitted {
		out[k] = v
	}
	state.Mechanic[key] = out
	return out
}

type UnificationMechanic struct{}

func (m *UnificationMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.VisualUnification}
}

func (m *UnificationMechanic) Validate(in Input) error {
	return requireFloatMap(in, "offsets")
}

func (m *UnificationMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.UnificationCriteria)
	submitted, _ := in.FloatMap("offsets")
	offsets := mergeLevels(state, "offsets", submitted)
	return solvedIf(withinTolerance(c.Fragments, offsets, c.Tolerance), state)
}

type EnergyMechanic struct{}

func (m *EnergyMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.EnergyBalancing}
}

func (m *EnergyMechanic) Validate(in Input) error {
	return requireFloatMap(in, "levels")
}

func (m *EnergyMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.EnergyCriteria)
	submitted, _ := in.FloatMap("levels")
	levels := mergeLevels(state, "levels", submitted)
	return solvedIf(withinTolerance(c.Channels, levels, c.Tolerance), state)
}
