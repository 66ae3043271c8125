package data

import (
	"fmt"
	"sort"
)

// Registry holds all loaded game-data definitions indexed by ID. It is
// read-only from the engine's perspective: registration happens at load
// time, lookups thereafter.
type Registry struct {
	monsters    map[string]*MonsterDef
	items       map[string]*ItemDef
	recipes     map[string]*RecipeDef
	crops       map[string]*CropDef
	sequences   map[string]*SequenceDef
	slayerAreas map[string]*SlayerAreaDef
	buildings   map[string]*BuildingDef
	tasks       map[string]*TownshipTaskDef
	deities     map[string]*DeityDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		monsters:    make(map[string]*MonsterDef),
		items:       make(map[string]*ItemDef),
		recipes:     make(map[string]*RecipeDef),
		crops:       make(map[string]*CropDef),
		sequences:   make(map[string]*SequenceDef),
		slayerAreas: make(map[string]*SlayerAreaDef),
		buildings:   make(map[string]*BuildingDef),
		tasks:       make(map[string]*TownshipTaskDef),
		deities:     make(map[string]*DeityDef),
	}
}

// RegisterMonster adds m to the registry.
//
// Precondition:  m must not be nil.
// Postcondition: Monster(m.ID) returns (m, true); returns error if m.ID already registered.
func (r *Registry) RegisterMonster(m *MonsterDef) error {
	if _, exists := r.monsters[m.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterMonster: monster ID %q already registered", m.ID)
	}
	r.monsters[m.ID] = m
	return nil
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// RegisterRecipe adds rec to the registry.
func (r *Registry) RegisterRecipe(rec *RecipeDef) error {
	if _, exists := r.recipes[rec.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterRecipe: recipe ID %q already registered", rec.ID)
	}
	r.recipes[rec.ID] = rec
	return nil
}

// RegisterCrop adds c to the registry.
func (r *Registry) RegisterCrop(c *CropDef) error {
	if _, exists := r.crops[c.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterCrop: crop ID %q already registered", c.ID)
	}
	r.crops[c.ID] = c
	return nil
}

// RegisterSequence adds s to the registry.
func (r *Registry) RegisterSequence(s *SequenceDef) error {
	if _, exists := r.sequences[s.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterSequence: sequence ID %q already registered", s.ID)
	}
	r.sequences[s.ID] = s
	return nil
}

// RegisterSlayerArea adds a to the registry.
func (r *Registry) RegisterSlayerArea(a *SlayerAreaDef) error {
	if _, exists := r.slayerAreas[a.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterSlayerArea: area ID %q already registered", a.ID)
	}
	r.slayerAreas[a.ID] = a
	return nil
}

// RegisterBuilding adds b to the registry.
func (r *Registry) RegisterBuilding(b *BuildingDef) error {
	if _, exists := r.buildings[b.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterBuilding: building ID %q already registered", b.ID)
	}
	r.buildings[b.ID] = b
	return nil
}

// RegisterTask adds t to the registry.
func (r *Registry) RegisterTask(t *TownshipTaskDef) error {
	if _, exists := r.tasks[t.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterTask: task ID %q already registered", t.ID)
	}
	r.tasks[t.ID] = t
	return nil
}

// RegisterDeity adds d to the registry.
func (r *Registry) RegisterDeity(d *DeityDef) error {
	if _, exists := r.deities[d.ID]; exists {
		return fmt.Errorf("data: Registry.RegisterDeity: deity ID %q already registered", d.ID)
	}
	r.deities[d.ID] = d
	return nil
}

// Monster returns the MonsterDef for the given id and whether it was found.
func (r *Registry) Monster(id string) (*MonsterDef, bool) {
	m, ok := r.monsters[id]
	return m, ok
}

// Item returns the ItemDef for the given id and whether it was found.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Recipe returns the RecipeDef for the given id and whether it was found.
func (r *Registry) Recipe(id string) (*RecipeDef, bool) {
	rec, ok := r.recipes[id]
	return rec, ok
}

// Crop returns the CropDef for the given id and whether it was found.
func (r *Registry) Crop(id string) (*CropDef, bool) {
	c, ok := r.crops[id]
	return c, ok
}

// Sequence returns the SequenceDef for the given id and whether it was found.
func (r *Registry) Sequence(id string) (*SequenceDef, bool) {
	s, ok := r.sequences[id]
	return s, ok
}

// SlayerArea returns the SlayerAreaDef for the given id and whether it was found.
func (r *Registry) SlayerArea(id string) (*SlayerAreaDef, bool) {
	a, ok := r.slayerAreas[id]
	return a, ok
}

// Building returns the BuildingDef for the given id and whether it was found.
func (r *Registry) Building(id string) (*BuildingDef, bool) {
	b, ok := r.buildings[id]
	return b, ok
}

// Task returns the TownshipTaskDef for the given id and whether it was found.
func (r *Registry) Task(id string) (*TownshipTaskDef, bool) {
	t, ok := r.tasks[id]
	return t, ok
}

// Deity returns the DeityDef for the given id and whether it was found.
func (r *Registry) Deity(id string) (*DeityDef, bool) {
	d, ok := r.deities[id]
	return d, ok
}

// RecipesForSkill returns all recipes for the given skill, ordered by level
// then ID for stable display.
//
// Postcondition: the returned slice is a new allocation.
func (r *Registry) RecipesForSkill(skill Skill) []*RecipeDef {
	var out []*RecipeDef
	for _, rec := range r.recipes {
		if rec.Skill == skill {
			out = append(out, rec)
		}
	}
	sortRecipes(out)
	return out
}

// RecipesForCategory returns all recipes in the given category, ordered by
// level then ID.
func (r *Registry) RecipesForCategory(category string) []*RecipeDef {
	var out []*RecipeDef
	for _, rec := range r.recipes {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	sortRecipes(out)
	return out
}

// BuildingsForBiome returns all buildings belonging to the given biome,
// ordered by ID.
func (r *Registry) BuildingsForBiome(biome string) []*BuildingDef {
	var out []*BuildingDef
	for _, b := range r.buildings {
		if b.Biome == biome {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllTasks returns all township tasks ordered by ID.
func (r *Registry) AllTasks() []*TownshipTaskDef {
	out := make([]*TownshipTaskDef, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortRecipes(recipes []*RecipeDef) {
	sort.Slice(recipes, func(i, j int) bool {
		if recipes[i].Level != recipes[j].Level {
			return recipes[i].Level < recipes[j].Level
		}
		return recipes[i].ID < recipes[j].ID
	})
}
