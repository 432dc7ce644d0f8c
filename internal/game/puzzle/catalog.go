package puzzle

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/puzzles.yaml
var defaultCatalog []byte

type catalogFile struct {
	Puzzles []catalogEntry `yaml:"puzzles"`
}

type catalogEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Mechanics struct {
		Type     MechanicsType `yaml:"type"`
		Criteria yaml.Node     `yaml:"criteria"`
	} `yaml:"mechanics"`
	MaxAttempts     int      `yaml:"max_attempts"`
	Rewards         Rewards  `yaml:"rewards"`
	Hints           []string `yaml:"hints"`
	ProgressKey     string   `yaml:"progress_key"`
	PersistProgress bool     `yaml:"persist_progress"`
}

// DefaultCatalog returns the definitions bundled with the game.
func DefaultCatalog() ([]Definition, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog decodes a YAML catalog. Each entry's criteria block is decoded
// into the variant selected by its mechanics type.
func LoadCatalog(r io.Reader) ([]Definition, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	defs := make([]Definition, 0, len(file.Puzzles))
	for _, entry := range file.Puzzles {
		criteria, err := decodeCriteria(entry.Mechanics.Type, &entry.Mechanics.Criteria)
		if err != nil {
			return nil, fmt.Errorf("puzzle %s: %w", entry.ID, err)
		}
		defs = append(defs, Definition{
			ID:              entry.ID,
			Name:            entry.Name,
			Type:            entry.Mechanics.Type,
			Criteria:        criteria,
			MaxAttempts:     entry.MaxAttempts,
			Rewards:         entry.Rewards,
			Hints:           entry.Hints,
			ProgressKey:     entry.ProgressKey,
			PersistProgress: entry.PersistProgress,
		})
	}
	return defs, nil
}

func decodeCriteria(t MechanicsType, node *yaml.Node) (Criteria, error) {
	switch t {
	case RotationalAlignment:
		return decodeInto[RotationCriteria](node)
	case ItemApplication, PurityAlignment:
		return decodeInto[ItemCriteria](node)
	case MultiStageCrafting:
		return decodeInto[CraftingCriteria](node)
	case MusicalSequence:
		return decodeInto[SequenceCriteria](node)
	case DiplomaticNavigation:
		return decodeInto[DiplomacyCriteria](node)
	case MysteryInvestigation:
		return decodeInto[InvestigationCriteria](node)
	case RitualPreparation:
		return decodeInto[RitualCriteria](node)
	case SelfReflectiveNavigation:
		return decodeInto[NavigationCriteria](node)
	case ConceptualDragAndDrop:
		return decodeInto[PlacementCriteria](node)
	case VisualUnification:
		return decodeInto[UnificationCriteria](node)
	case ConceptualSelection:
		return decodeInto[SelectionCriteria](node)
	case PhilosophicalRiddle, PhilosophicalInquiry, LogicalAnalysis, ExperientialParadox, UltimateInquiry:
		return decodeInto[AnswerCriteria](node)
	case EnergyBalancing:
		return decodeInto[EnergyCriteria](node)
	}
	return nil, fmt.Errorf("unknown mechanics type %q", t)
}

func decodeInto[C Criteria](node *yaml.Node) (Criteria, error) {
	var c C
	if node.Kind == 0 {
		return c, nil
	}
	if err := node.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode criteria: %w", err)
	}
	return c, nil
}
