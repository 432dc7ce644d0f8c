package evaluator

import (
	"math"

	"samsara/internal/game/puzzle"
)

const rotationsKey = "rotations"

type RotationMechanic struct{}

func (m *RotationMechanic) Types() []puzzle.MechanicsType {
	return []puzzle.MechanicsType{puzzle.RotationalAlignment}
}

func (m *RotationMechanic) Validate(in Input) error {
	return requireFloatMap(in, rotationsKey)
}

// Evaluate merges the submitted ring rotations over the last known ones and
// compares the average distance to the targets against the tolerance.
func (m *RotationMechanic) Evaluate(criteria puzzle.Criteria, state State, in Input) Result {
	c := criteria.(puzzle.RotationCriteria)

	current := RingRotations(c, state)
	submitted, _ := in.FloatMap(rotationsKey)
	for _, ring := range c.Rings {
		if v, ok := submitted[ring.ID]; ok {
			current[ring.ID] = v
		}
	}
	state.Mechanic[rotationsKey] = current

	if len(c.Rings) == 0 {
		return solvedIf(false, state)
	}
	return solvedIf(AverageDistance(c, current) <= c.EffectiveTolerance(), state)
}

// RingRotations returns the current rotation of every declared ring, falling
// back to the ring's initial rotation when none has been recorded yet.
func RingRotations(c puzzle.RotationCriteria, state State) map[string]float64 {
	stored, _ := Input(state.Mechanic).FloatMap(rotationsKey)
	current := make(map[string]float64, len(c.Rings))
	for _, ring := range c.Rings {
		if v, ok := stored[ring.ID]; ok {
			current[ring.ID] = v
			continue
		}
		current[ring.ID] = ring.Initial
	}
	return current
}

func AverageDistance(c puzzle.RotationCriteria, rotations map[string]float64) float64 {
	if len(c.Rings) == 0 {
		return 0
	}
	var total float64
	for _, ring := range c.Rings {
		total += AngularDistance(rotations[ring.ID], ring.Target)
	}
	return total / float64(len(c.Rings))
}

// AngularDistance is the shortest way around the circle from v to target, in degrees.
func AngularDistance(v, target float64) float64 {
	d := math.Mod(math.Abs(v-target), 360)
	return math.Min(d, 360-d)
}
