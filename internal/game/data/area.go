package data

import (
	"errors"
	"fmt"
)

// RequirementType enumerates the gate kinds for area entry.
type RequirementType string

const (
	// RequireSkillLevel gates on a minimum skill level.
	RequireSkillLevel RequirementType = "skill_level"
	// RequireItem gates on owning (or having equipped) an item.
	RequireItem RequirementType = "item"
	// RequireDungeonCompletions gates on a minimum completion count for a sequence.
	RequireDungeonCompletions RequirementType = "dungeon_completions"
	// RequirePurchase gates on a prior shop purchase.
	RequirePurchase RequirementType = "purchase"
)

// Requirement is one entry gate for a slayer area or sequence.
type Requirement struct {
	Type RequirementType `yaml:"type"`

	Skill Skill `yaml:"skill"`
	Level int   `yaml:"level"`

	ItemID string `yaml:"item"`

	SequenceID string `yaml:"sequence"`
	Count      int    `yaml:"count"`

	PurchaseID string `yaml:"purchase"`
}

// Describe returns the human-readable reason reported when the requirement
// is unmet.
func (r Requirement) Describe() string {
	switch r.Type {
	case RequireSkillLevel:
		return fmt.Sprintf("requires %s level %d", r.Skill, r.Level)
	case RequireItem:
		return fmt.Sprintf("requires item %s", r.ItemID)
	case RequireDungeonCompletions:
		return fmt.Sprintf("requires %d completions of %s", r.Count, r.SequenceID)
	case RequirePurchase:
		return fmt.Sprintf("requires purchase %s", r.PurchaseID)
	default:
		return fmt.Sprintf("unknown requirement %q", r.Type)
	}
}

// Validate checks one requirement entry.
func (r Requirement) Validate() error {
	switch r.Type {
	case RequireSkillLevel:
		if r.Skill == "" || r.Level < 1 {
			return errors.New("skill_level requirement needs a skill and level >= 1")
		}
	case RequireItem:
		if r.ItemID == "" {
			return errors.New("item requirement needs an item id")
		}
	case RequireDungeonCompletions:
		if r.SequenceID == "" || r.Count < 1 {
			return errors.New("dungeon_completions requirement needs a sequence id and count >= 1")
		}
	case RequirePurchase:
		if r.PurchaseID == "" {
			return errors.New("purchase requirement needs a purchase id")
		}
	default:
		return fmt.Errorf("unknown requirement type %q", r.Type)
	}
	return nil
}

// SequenceKind distinguishes the two ordered-run area types.
type SequenceKind string

const (
	KindDungeon    SequenceKind = "dungeon"
	KindStronghold SequenceKind = "stronghold"
)

// SequenceDef is an ordered, non-player-chosen run of monsters.
type SequenceDef struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	Kind         SequenceKind  `yaml:"kind"`
	MonsterIDs   []string      `yaml:"monsters"`
	Requirements []Requirement `yaml:"requirements"`
	// CompletionDrops are rolled once per full clear.
	CompletionDrops DropTable `yaml:"completion_drops"`
}

// Validate checks that the SequenceDef satisfies its invariants.
//
// Precondition: s is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (s *SequenceDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if s.Kind != KindDungeon && s.Kind != KindStronghold {
		errs = append(errs, fmt.Errorf("Kind must be dungeon or stronghold, got %q", s.Kind))
	}
	if len(s.MonsterIDs) == 0 {
		errs = append(errs, errors.New("MonsterIDs must not be empty"))
	}
	for i, id := range s.MonsterIDs {
		if id == "" {
			errs = append(errs, fmt.Errorf("monster[%d] id must not be empty", i))
		}
	}
	for i, req := range s.Requirements {
		if err := req.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("requirement[%d]: %w", i, err))
		}
	}
	if err := s.CompletionDrops.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("sequence validation failed: %v", errs)
	}
	return nil
}

// SlayerAreaDef is an area offering free monster choice among an unlocked
// set, gated uniformly by a requirement list.
type SlayerAreaDef struct {
	ID           string        `yaml:"id"`
	Name         string        `yaml:"name"`
	MonsterIDs   []string      `yaml:"monsters"`
	Requirements []Requirement `yaml:"requirements"`
}

// Validate checks that the SlayerAreaDef satisfies its invariants.
//
// Precondition: a is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (a *SlayerAreaDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if len(a.MonsterIDs) == 0 {
		errs = append(errs, errors.New("MonsterIDs must not be empty"))
	}
	for i, req := range a.Requirements {
		if err := req.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("requirement[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("slayer area validation failed: %v", errs)
	}
	return nil
}
