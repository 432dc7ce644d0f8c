package player

import (
	"maps"
	"slices"
	"time"
)

// Rewards is the accumulated, append-only reward record of a player.
type Rewards struct {
	Items        []string `json:"items"`
	Abilities    []string `json:"abilities"`
	Knowledge    []string `json:"knowledge"`
	Insights     []string `json:"insights"`
	Achievements []string `json:"achievements"`
}

// Progress is the durable record of one puzzle for one player.
type Progress struct {
	Completed    bool `json:"completed"`
	Attempts     int  `json:"attempts"`
	CurrentStage int  `json:"current_stage"`
}

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is an opaque, versioned copy of a puzzle session's progress kept
// under a world-state key. Writes overwrite the previous snapshot.
type Snapshot struct {
	Version   int            `json:"version"`
	PuzzleID  string         `json:"puzzle_id"`
	Stage     int            `json:"stage"`
	Attempts  int            `json:"attempts"`
	Mechanic  map[string]any `json:"mechanic,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type State struct {
	Name       string              `json:"name"`
	Rewards    Rewards             `json:"rewards"`
	Attributes map[string]int      `json:"attributes"`
	Access     map[string]bool     `json:"access"`
	Puzzles    map[string]Progress `json:"puzzles"`
	World      map[string]Snapshot `json:"world"`
}

func New(name string) *State {
	s := &State{Name: name}
	s.ensure()
	return s
}

// Normalize fills in maps left nil by decoding.
func (s *State) Normalize() {
	s.ensure()
}

func (s *State) ensure() {
	if s.Attributes == nil {
		s.Attributes = make(map[string]int)
	}
	if s.Access == nil {
		s.Access = make(map[string]bool)
	}
	if s.Puzzles == nil {
		s.Puzzles = make(map[string]Progress)
	}
	if s.World == nil {
		s.World = make(map[string]Snapshot)
	}
}

func (s *State) Progress(puzzleID string) Progress {
	p, ok := s.Puzzles[puzzleID]
	if !ok {
		return Progress{CurrentStage: 1}
	}
	return p
}

func (s *State) SetProgress(puzzleID string, p Progress) {
	s.ensure()
	s.Puzzles[puzzleID] = p
}

func (s *State) IsCompleted(puzzleID string) bool {
	return s.Puzzles[puzzleID].Completed
}

func (s *State) HasItem(name string) bool {
	return slices.Contains(s.Rewards.Items, name)
}

func (s *State) HasAbility(name string) bool {
	return slices.Contains(s.Rewards.Abilities, name)
}

func (s *State) HasAccess(flag string) bool {
	return s.Access[flag]
}

// PutSnapshot stores snap under key, replacing whatever was there.
func (s *State) PutSnapshot(key string, snap Snapshot) {
	s.ensure()
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	s.World[key] = snap
}

func (s *State) Snapshot(key string) (Snapshot, bool) {
	snap, ok := s.World[key]
	return snap, ok
}

// Clone returns a deep copy safe to hand to callers outside the owning lock.
func (s *State) Clone() *State {
	c := &State{
		Name: s.Name,
		Rewards: Rewards{
			Items:        slices.Clone(s.Rewards.Items),
			Abilities:    slices.Clone(s.Rewards.Abilities),
			Knowledge:    slices.Clone(s.Rewards.Knowledge),
			Insights:     slices.Clone(s.Rewards.Insights),
			Achievements: slices.Clone(s.Rewards.Achievements),
		},
		Attributes: maps.Clone(s.Attributes),
		Access:     maps.Clone(s.Access),
		Puzzles:    maps.Clone(s.Puzzles),
		World:      make(map[string]Snapshot, len(s.World)),
	}
	for k, snap := range s.World {
		snap.Mechanic = maps.Clone(snap.Mechanic)
		c.World[k] = snap
	}
	c.ensure()
	return c
}
