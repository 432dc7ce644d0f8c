package puzzle

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPuzzle = errors.New("unknown puzzle")

// Registry is the read-only catalog of puzzle definitions. It is built once
// and handed to whoever needs lookups.
type Registry struct {
	definitions map[string]Definition
}

// NewRegistry validates every definition and indexes it by id.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, exists := r.definitions[def.ID]; exists {
			return nil, fmt.Errorf("duplicate puzzle id %q", def.ID)
		}
		def.Hints = append([]string(nil), def.Hints...)
		r.definitions[def.ID] = def
	}
	return r, nil
}

func (r *Registry) Get(id string) (Definition, error) {
	def, exists := r.definitions[id]
	if !exists {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownPuzzle, id)
	}
	return def, nil
}

// List returns all definitions ordered by id.
func (r *Registry) List() []Definition {
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

func (r *Registry) Len() int {
	return len(r.definitions)
}
