package township

// Snapshot is the serializable township state.
type Snapshot struct {
	Buildings    map[string]BuildingStack `json:"buildings"`
	Resources    map[string]float64       `json:"resources"`
	Season       Season                   `json:"season"`
	SeasonTicks  int                      `json:"season_ticks"`
	DeityID      string                   `json:"deity_id,omitempty"`
	Worship      int                      `json:"worship"`
	ClaimedTasks []string                 `json:"claimed_tasks,omitempty"`
}

// Snapshot returns a deep copy of the town's mutable state.
//
// Postcondition: mutations of the returned value do not affect the town.
func (t *Town) Snapshot() Snapshot {
	snap := Snapshot{
		Buildings:   make(map[string]BuildingStack, len(t.buildings)),
		Resources:   make(map[string]float64, len(t.resources)),
		Season:      t.season,
		SeasonTicks: t.seasonTicks,
		DeityID:     t.deityID,
		Worship:     t.worship,
	}
	for id, stack := range t.buildings {
		snap.Buildings[id] = *stack
	}
	for id, qty := range t.resources {
		snap.Resources[id] = qty
	}
	for id := range t.claimedTasks {
		snap.ClaimedTasks = append(snap.ClaimedTasks, id)
	}
	return snap
}

// Restore replaces the town's mutable state with the snapshot's.
func (t *Town) Restore(snap Snapshot) {
	t.buildings = make(map[string]*BuildingStack, len(snap.Buildings))
	for id, stack := range snap.Buildings {
		s := stack
		t.buildings[id] = &s
	}
	t.resources = make(map[string]float64, len(snap.Resources))
	for id, qty := range snap.Resources {
		t.resources[id] = qty
	}
	t.season = snap.Season
	if t.season == "" {
		t.season = SeasonSpring
	}
	t.seasonTicks = snap.SeasonTicks
	t.deityID = snap.DeityID
	t.worship = snap.Worship
	t.claimedTasks = make(map[string]bool, len(snap.ClaimedTasks))
	for _, id := range snap.ClaimedTasks {
		t.claimedTasks[id] = true
	}
}
