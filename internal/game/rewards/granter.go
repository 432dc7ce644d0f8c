package rewards

import (
	"context"
	"slices"
	"strings"

	"samsara/internal/debug"
	"samsara/internal/game/player"
	"samsara/internal/game/puzzle"
)

// AbilityUnlocker is told about every ability a player gains for the first time.
type AbilityUnlocker interface {
	UnlockAbility(ctx context.Context, playerName, ability string) error
}

// Grant lists what a single Grant call newly added to the player.
type Grant struct {
	PuzzleID     string         `json:"puzzle_id"`
	Items        []string       `json:"items,omitempty"`
	Abilities    []string       `json:"abilities,omitempty"`
	Knowledge    []string       `json:"knowledge,omitempty"`
	Insights     []string       `json:"insights,omitempty"`
	Achievements []string       `json:"achievements,omitempty"`
	Access       []string       `json:"access,omitempty"`
	Attributes   map[string]int `json:"attributes,omitempty"`
}

func (g Grant) Empty() bool {
	return len(g.Items) == 0 && len(g.Abilities) == 0 && len(g.Knowledge) == 0 &&
		len(g.Insights) == 0 && len(g.Achievements) == 0 && len(g.Access) == 0 &&
		len(g.Attributes) == 0
}

type Granter struct {
	unlocker AbilityUnlocker
	debug    *debug.Logger
}

func NewGranter(unlocker AbilityUnlocker, debugLogger *debug.Logger) *Granter {
	return &Granter{unlocker: unlocker, debug: debugLogger}
}

// Grant applies def's rewards to state. Every list is deduplicated, so a
// second call for the same definition adds nothing but attributes; callers
// guard against that by granting only on the completion edge.
func (g *Granter) Grant(ctx context.Context, def puzzle.Definition, state *player.State) Grant {
	state.Normalize()
	out := Grant{PuzzleID: def.ID}
	r := def.Rewards

	state.Rewards.Items, out.Items = appendNew(state.Rewards.Items, r.Items)
	state.Rewards.Abilities, out.Abilities = appendNew(state.Rewards.Abilities, r.Abilities)
	state.Rewards.Knowledge, out.Knowledge = appendNew(state.Rewards.Knowledge, r.Knowledge)
	state.Rewards.Insights, out.Insights = appendNew(state.Rewards.Insights, r.Insights)
	state.Rewards.Achievements, out.Achievements = appendNew(state.Rewards.Achievements, r.Achievements)

	for _, access := range r.Access {
		flag := AccessFlag(access)
		if flag == "" || state.Access[flag] {
			continue
		}
		state.Access[flag] = true
		out.Access = append(out.Access, flag)
	}

	if len(r.Attributes) > 0 {
		out.Attributes = make(map[string]int, len(r.Attributes))
		for name, delta := range r.Attributes {
			state.Attributes[name] += delta
			out.Attributes[name] = delta
		}
	}

	if g.unlocker != nil {
		for _, ability := range out.Abilities {
			if err := g.unlocker.UnlockAbility(ctx, state.Name, ability); err != nil {
				g.debug.Printf("Failed to unlock ability %s for %s: %v", ability, state.Name, err)
			}
		}
	}

	g.debug.Printf("Granted rewards for %s: %+v", def.ID, out)
	return out
}

func appendNew(have, add []string) (updated, added []string) {
	updated = have
	for _, v := range add {
		if v == "" || slices.Contains(updated, v) {
			continue
		}
		updated = append(updated, v)
		added = append(added, v)
	}
	return updated, added
}

// AccessFlag turns a reward access name into its flag key: lowercase, spaces
// replaced by underscores.
func AccessFlag(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
