// Package modifier aggregates additive stat contributions from equipment,
// summons, deities, and seasonal effects into a single provider consulted
// by combat and skill resolution.
package modifier

// Style identifies a combat damage style.
type Style string

const (
	// StyleMelee is close-quarters physical damage.
	StyleMelee Style = "melee"
	// StyleRanged is projectile physical damage.
	StyleRanged Style = "ranged"
	// StyleMagic is spell damage.
	StyleMagic Style = "magic"
)

// ValidStyle reports whether s is one of the three damage styles.
func ValidStyle(s Style) bool {
	return s == StyleMelee || s == StyleRanged || s == StyleMagic
}

// Contribution is one source's additive stat bonuses. All fields default to
// zero; a zero Contribution has no effect when applied.
type Contribution struct {
	Accuracy int `yaml:"accuracy"`
	MaxHit   int `yaml:"max_hit"`

	MeleeEvasion  int `yaml:"melee_evasion"`
	RangedEvasion int `yaml:"ranged_evasion"`
	MagicEvasion  int `yaml:"magic_evasion"`

	// Lifesteal and CritChance are percentage points applied to every style.
	Lifesteal  float64 `yaml:"lifesteal"`
	CritChance float64 `yaml:"crit_chance"`

	// MeleeLifesteal etc. are style-specific percentage-point components,
	// summed on top of the base value for matching attacks.
	MeleeLifesteal  float64 `yaml:"melee_lifesteal"`
	RangedLifesteal float64 `yaml:"ranged_lifesteal"`
	MagicLifesteal  float64 `yaml:"magic_lifesteal"`

	MeleeCritChance  float64 `yaml:"melee_crit_chance"`
	RangedCritChance float64 `yaml:"ranged_crit_chance"`
	MagicCritChance  float64 `yaml:"magic_crit_chance"`

	// SkillIntervalPct is a percentage reduction of skill action durations,
	// keyed by skill identifier. Negative values slow the action down.
	SkillIntervalPct map[string]float64 `yaml:"skill_interval_pct"`

	FarmingYieldPct     float64 `yaml:"farming_yield_pct"`
	TownshipProduction  float64 `yaml:"township_production_pct"`
	HarvestChanceBonus  float64 `yaml:"harvest_chance_bonus"`
	FoodHealingPct      float64 `yaml:"food_healing_pct"`
	MasteryXPBonusPct   float64 `yaml:"mastery_xp_bonus_pct"`
	CombatXPBonusPct    float64 `yaml:"combat_xp_bonus_pct"`
	GPFromMonstersPct   float64 `yaml:"gp_from_monsters_pct"`
	AttackIntervalTicks int     `yaml:"attack_interval_ticks"`
}

// Set is the aggregated sum of every active Contribution. It is rebuilt from
// scratch whenever a source changes; it is never mutated incrementally.
type Set struct {
	total Contribution
}

// NewSet aggregates the given contributions into a Set.
//
// Postcondition: the Set's accessors reflect the field-wise sum of all
// contributions; an empty argument list yields a neutral Set.
func NewSet(contributions ...Contribution) *Set {
	s := &Set{}
	for _, c := range contributions {
		s.add(c)
	}
	return s
}

func (s *Set) add(c Contribution) {
	s.total.Accuracy += c.Accuracy
	s.total.MaxHit += c.MaxHit
	s.total.MeleeEvasion += c.MeleeEvasion
	s.total.RangedEvasion += c.RangedEvasion
	s.total.MagicEvasion += c.MagicEvasion
	s.total.Lifesteal += c.Lifesteal
	s.total.CritChance += c.CritChance
	s.total.MeleeLifesteal += c.MeleeLifesteal
	s.total.RangedLifesteal += c.RangedLifesteal
	s.total.MagicLifesteal += c.MagicLifesteal
	s.total.MeleeCritChance += c.MeleeCritChance
	s.total.RangedCritChance += c.RangedCritChance
	s.total.MagicCritChance += c.MagicCritChance
	s.total.FarmingYieldPct += c.FarmingYieldPct
	s.total.TownshipProduction += c.TownshipProduction
	s.total.HarvestChanceBonus += c.HarvestChanceBonus
	s.total.FoodHealingPct += c.FoodHealingPct
	s.total.MasteryXPBonusPct += c.MasteryXPBonusPct
	s.total.CombatXPBonusPct += c.CombatXPBonusPct
	s.total.GPFromMonstersPct += c.GPFromMonstersPct
	s.total.AttackIntervalTicks += c.AttackIntervalTicks

	if len(c.SkillIntervalPct) > 0 && s.total.SkillIntervalPct == nil {
		s.total.SkillIntervalPct = make(map[string]float64)
	}
	for skill, pct := range c.SkillIntervalPct {
		s.total.SkillIntervalPct[skill] += pct
	}
}

// Accuracy returns the aggregate accuracy bonus.
func (s *Set) Accuracy() int { return s.total.Accuracy }

// MaxHit returns the aggregate max-hit bonus.
func (s *Set) MaxHit() int { return s.total.MaxHit }

// Evasion returns the aggregate evasion bonus against the given style.
//
// Postcondition: returns 0 for an unknown style.
func (s *Set) Evasion(style Style) int {
	switch style {
	case StyleMelee:
		return s.total.MeleeEvasion
	case StyleRanged:
		return s.total.RangedEvasion
	case StyleMagic:
		return s.total.MagicEvasion
	default:
		return 0
	}
}

// Lifesteal returns base lifesteal plus the style-specific component,
// in percentage points.
func (s *Set) Lifesteal(style Style) float64 {
	base := s.total.Lifesteal
	switch style {
	case StyleMelee:
		return base + s.total.MeleeLifesteal
	case StyleRanged:
		return base + s.total.RangedLifesteal
	case StyleMagic:
		return base + s.total.MagicLifesteal
	default:
		return base
	}
}

// CritChance returns base crit chance plus the style-specific component,
// in percentage points.
func (s *Set) CritChance(style Style) float64 {
	base := s.total.CritChance
	switch style {
	case StyleMelee:
		return base + s.total.MeleeCritChance
	case StyleRanged:
		return base + s.total.RangedCritChance
	case StyleMagic:
		return base + s.total.MagicCritChance
	default:
		return base
	}
}

// SkillIntervalPct returns the aggregate duration reduction for skill,
// in percent. Positive values shorten the action.
func (s *Set) SkillIntervalPct(skill string) float64 {
	return s.total.SkillIntervalPct[skill]
}

// FarmingYieldPct returns the aggregate farming yield bonus in percent.
func (s *Set) FarmingYieldPct() float64 { return s.total.FarmingYieldPct }

// TownshipProductionPct returns the aggregate township production bonus in percent.
func (s *Set) TownshipProductionPct() float64 { return s.total.TownshipProduction }

// HarvestChanceBonus returns the aggregate harvest success bonus as a
// probability delta in [0, …); the caller caps the final chance at 1.
func (s *Set) HarvestChanceBonus() float64 { return s.total.HarvestChanceBonus }

// FoodHealingPct returns the aggregate food healing bonus in percent.
func (s *Set) FoodHealingPct() float64 { return s.total.FoodHealingPct }

// MasteryXPBonusPct returns the aggregate mastery XP bonus in percent.
func (s *Set) MasteryXPBonusPct() float64 { return s.total.MasteryXPBonusPct }

// CombatXPBonusPct returns the aggregate combat XP bonus in percent.
func (s *Set) CombatXPBonusPct() float64 { return s.total.CombatXPBonusPct }

// GPFromMonstersPct returns the aggregate GP-drop bonus in percent.
func (s *Set) GPFromMonstersPct() float64 { return s.total.GPFromMonstersPct }

// AttackIntervalTicks returns the aggregate attack interval adjustment in
// ticks. Negative values attack faster.
func (s *Set) AttackIntervalTicks() int { return s.total.AttackIntervalTicks }
