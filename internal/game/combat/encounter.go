package combat

import (
	"fmt"

	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/modifier"
	"github.com/embervale/engine/internal/game/rng"
)

// Phase is the encounter lifecycle state.
type Phase int

const (
	// PhaseSpawning is the brief window before a monster becomes attackable.
	PhaseSpawning Phase = iota
	// PhaseActive is the attack-exchange state.
	PhaseActive
)

// String returns the human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// HitEffects are the side effects a monster's on-hit script may produce.
type HitEffects struct {
	// StunTicks blocks the player's attack resolution for this many ticks.
	StunTicks int
	// BonusDamage is extra damage added on top of the rolled hit.
	BonusDamage int
}

// HookFunc evaluates a monster's on-hit script and returns its effects.
type HookFunc func(script string) (HitEffects, error)

// TickContext carries the per-tick inputs the encounter resolves against.
// The player profile and modifier set are rebuilt by the engine whenever a
// source changes; the encounter never caches them across ticks.
type TickContext struct {
	Stats           PlayerStats
	Mods            *modifier.Set
	Roller          *rng.Roller
	SpawnDelayTicks int
	// OnHit evaluates monster special-attack scripts. Nil disables hooks.
	OnHit HookFunc
}

// AttackOutcome records one resolved attack for logging and UI.
type AttackOutcome struct {
	Attacker string // "player" or "monster"
	Hit      bool
	Crit     bool
	Damage   int
	Heal     int // lifesteal healing credited to the attacker
}

// TickEvents reports everything that happened during one encounter tick.
// The engine applies player HP changes, XP, and loot to the ledger.
type TickEvents struct {
	Spawned           bool
	PlayerAttack      *AttackOutcome
	MonsterAttack     *AttackOutcome
	StunApplied       int
	MonsterKilled     bool
	KilledMonsterID   string
	XP                int
	Loot              *LootResult
	SequenceAdvanced  bool
	SequenceCompleted bool
	CompletionLoot    *LootResult
}

// Encounter is the mutable per-encounter combat state. It is owned
// exclusively by the engine: created when combat starts, discarded when
// combat stops or the player flees.
type Encounter struct {
	reg *data.Registry

	monster   *data.MonsterDef
	MonsterHP int

	phase               Phase
	spawnTicksRemaining int

	// playerCharge and monsterCharge count down independently; each
	// combatant attacks when its own charge reaches zero and then resets
	// to its own attack speed.
	playerCharge  int
	monsterCharge int

	stunTicksRemaining int

	// Sequence is non-nil while running a dungeon or stronghold.
	Sequence *SequenceContext
}

// NewEncounter starts combat against a single monster that respawns on death.
//
// Precondition: reg must be non-nil; spawnDelayTicks >= 0.
// Postcondition: the encounter is in PhaseSpawning, or an error if the
// monster ID is unknown.
func NewEncounter(reg *data.Registry, monsterID string, spawnDelayTicks int) (*Encounter, error) {
	m, ok := reg.Monster(monsterID)
	if !ok {
		return nil, fmt.Errorf("combat: unknown monster %q", monsterID)
	}
	e := &Encounter{reg: reg}
	e.beginSpawn(m, spawnDelayTicks)
	return e, nil
}

// NewSequenceEncounter starts a dungeon or stronghold run at its first monster.
//
// Precondition: reg and def must be non-nil.
func NewSequenceEncounter(reg *data.Registry, def *data.SequenceDef, spawnDelayTicks int) (*Encounter, error) {
	seq := NewSequenceContext(def)
	m, ok := reg.Monster(seq.Current())
	if !ok {
		return nil, fmt.Errorf("combat: sequence %q references unknown monster %q", def.ID, seq.Current())
	}
	e := &Encounter{reg: reg, Sequence: seq}
	e.beginSpawn(m, spawnDelayTicks)
	return e, nil
}

// ResumeSequenceEncounter restarts a saved run at the given monster index.
// The monster respawns at full HP with a fresh spawn delay.
//
// Precondition: reg and def must be non-nil; index in [0, len(MonsterIDs)).
func ResumeSequenceEncounter(reg *data.Registry, def *data.SequenceDef, index, spawnDelayTicks int) (*Encounter, error) {
	if index < 0 || index >= len(def.MonsterIDs) {
		return nil, fmt.Errorf("combat: sequence %q has no monster at index %d", def.ID, index)
	}
	e, err := NewSequenceEncounter(reg, def, spawnDelayTicks)
	if err != nil {
		return nil, err
	}
	e.Sequence.Index = index
	m, ok := reg.Monster(e.Sequence.Current())
	if !ok {
		return nil, fmt.Errorf("combat: sequence %q references unknown monster %q", def.ID, e.Sequence.Current())
	}
	e.beginSpawn(m, spawnDelayTicks)
	return e, nil
}

func (e *Encounter) beginSpawn(m *data.MonsterDef, delay int) {
	e.monster = m
	e.MonsterHP = m.MaxHP
	e.phase = PhaseSpawning
	e.spawnTicksRemaining = delay
	e.playerCharge = 0
	e.monsterCharge = 0
}

// Monster returns the static definition of the monster currently fought.
func (e *Encounter) Monster() *data.MonsterDef { return e.monster }

// Phase returns the current lifecycle phase.
func (e *Encounter) Phase() Phase { return e.phase }

// IsSpawning reports whether the monster is not yet attackable.
func (e *Encounter) IsSpawning() bool { return e.phase == PhaseSpawning }

// StunTicksRemaining returns how many ticks the player remains stunned.
func (e *Encounter) StunTicksRemaining() int { return e.stunTicksRemaining }

// Stunned reports whether the player's attacks are currently blocked.
func (e *Encounter) Stunned() bool { return e.stunTicksRemaining > 0 }

// PlayerChargeTicks returns the ticks until the player's next attack.
func (e *Encounter) PlayerChargeTicks() int { return e.playerCharge }

// MonsterChargeTicks returns the ticks until the monster's next attack.
func (e *Encounter) MonsterChargeTicks() int { return e.monsterCharge }

// ApplyStun blocks the player's attacks for the given number of ticks.
// Overlapping stuns keep the longer remainder.
//
// Precondition: ticks >= 0.
func (e *Encounter) ApplyStun(ticks int) {
	if ticks > e.stunTicksRemaining {
		e.stunTicksRemaining = ticks
	}
}

// Tick advances the encounter by one simulation tick. The returned events
// tell the engine what to apply to the ledger; playerDamage is the total
// damage the player took this tick.
//
// Precondition: ctx.Roller must be non-nil; ctx.Stats.AttackSpeedTicks >= 1.
// Postcondition: MonsterHP >= 0; at most one player and one monster attack
// resolve per tick.
func (e *Encounter) Tick(ctx TickContext) (events TickEvents, playerDamage int) {
	switch e.phase {
	case PhaseSpawning:
		e.spawnTicksRemaining--
		if e.spawnTicksRemaining <= 0 {
			e.phase = PhaseActive
			e.playerCharge = playerInterval(ctx)
			e.monsterCharge = e.monster.AttackSpeedTicks
			events.Spawned = true
		}
		if e.stunTicksRemaining > 0 {
			e.stunTicksRemaining--
		}
		return events, 0

	case PhaseActive:
		// Player cadence. Stun freezes the charge; the attack neither
		// resolves nor recharges while stunned.
		if e.stunTicksRemaining > 0 {
			e.stunTicksRemaining--
		} else {
			e.playerCharge--
			if e.playerCharge <= 0 {
				outcome := e.resolvePlayerAttack(ctx)
				events.PlayerAttack = &outcome
				e.playerCharge = playerInterval(ctx)

				if e.MonsterHP <= 0 {
					e.onMonsterDeath(ctx, &events)
					return events, 0
				}
			}
		}

		// Monster cadence runs independently of the player's.
		e.monsterCharge--
		if e.monsterCharge <= 0 {
			outcome, stun := e.resolveMonsterAttack(ctx)
			events.MonsterAttack = &outcome
			events.StunApplied = stun
			playerDamage = outcome.Damage
			e.monsterCharge = e.monster.AttackSpeedTicks
		}
		return events, playerDamage
	}
	return events, 0
}

func (e *Encounter) resolvePlayerAttack(ctx TickContext) AttackOutcome {
	outcome := AttackOutcome{Attacker: "player"}

	chance := PlayerHitChance(ctx.Stats, e.monster)
	if !ctx.Roller.Chance(chance) {
		return outcome
	}
	outcome.Hit = true

	dmg := RollDamage(ctx.Roller.Source(), ctx.Stats.MinHit, ctx.Stats.MaxHit)
	if ctx.Mods != nil && ctx.Roller.Chance(ctx.Mods.CritChance(ctx.Stats.Style)/100) {
		outcome.Crit = true
		dmg *= 2
	}
	if dmg > e.MonsterHP {
		dmg = e.MonsterHP
	}
	e.MonsterHP -= dmg
	outcome.Damage = dmg

	if ctx.Mods != nil {
		if pct := ctx.Mods.Lifesteal(ctx.Stats.Style); pct > 0 {
			outcome.Heal = int(float64(dmg) * pct / 100)
		}
	}
	return outcome
}

func (e *Encounter) resolveMonsterAttack(ctx TickContext) (AttackOutcome, int) {
	outcome := AttackOutcome{Attacker: "monster"}

	chance := MonsterHitChance(e.monster, ctx.Stats)
	if !ctx.Roller.Chance(chance) {
		return outcome, 0
	}
	outcome.Hit = true
	outcome.Damage = RollDamage(ctx.Roller.Source(), e.monster.MinHit, e.monster.MaxHit)

	stun := 0
	if e.monster.OnHit != "" && ctx.OnHit != nil {
		effects, err := ctx.OnHit(e.monster.OnHit)
		if err == nil {
			outcome.Damage += effects.BonusDamage
			if effects.StunTicks > 0 {
				e.ApplyStun(effects.StunTicks)
				stun = effects.StunTicks
			}
		}
	}
	return outcome, stun
}

// onMonsterDeath rolls loot and XP, then either advances the sequence or
// schedules a respawn of the same monster.
func (e *Encounter) onMonsterDeath(ctx TickContext, events *TickEvents) {
	events.MonsterKilled = true
	events.KilledMonsterID = e.monster.ID

	xp := e.monster.XP
	if ctx.Mods != nil {
		xp += int(float64(xp) * ctx.Mods.CombatXPBonusPct() / 100)
	}
	events.XP = xp

	gpBonus := 0.0
	if ctx.Mods != nil {
		gpBonus = ctx.Mods.GPFromMonstersPct()
	}
	loot := GenerateLoot(e.monster.Drops, ctx.Roller.Source(), gpBonus)
	events.Loot = &loot

	next := e.monster
	if e.Sequence != nil {
		nextID, completed := e.Sequence.Advance()
		events.SequenceAdvanced = true
		if completed {
			events.SequenceCompleted = true
			if seq, ok := e.reg.Sequence(e.Sequence.SequenceID); ok {
				completionLoot := GenerateLoot(seq.CompletionDrops, ctx.Roller.Source(), gpBonus)
				events.CompletionLoot = &completionLoot
			}
		}
		if m, ok := e.reg.Monster(nextID); ok {
			next = m
		}
	}
	e.beginSpawn(next, ctx.SpawnDelayTicks)
}

func playerInterval(ctx TickContext) int {
	interval := ctx.Stats.AttackSpeedTicks
	if ctx.Mods != nil {
		interval += ctx.Mods.AttackIntervalTicks()
	}
	if interval < 1 {
		interval = 1
	}
	return interval
}
