package curio

import (
	"fmt"
	"strings"
)

type Quality int

const (
	QualityGood Quality = iota
	QualityMixed
	QualityBad
)

var qualityNames = []string{"Good", "Mixed", "Bad"}

func (q Quality) String() string {
	if int(q) < 0 || int(q) >= len(qualityNames) {
		return "Mixed"
	}
	return qualityNames[q]
}

func ParseQuality(s string) (Quality, error) {
	for i, name := range qualityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown curio quality %q", s)
}

// Region is where a curio spawns. RegionAll is the wildcard matched by every
// region's spawn table.
type Region int

const (
	RegionAll Region = iota
	RegionTown
	RegionRuins
	RegionWarrens
	RegionWeald
	RegionCove
	RegionCourtyard
	RegionFarmstead
	RegionDarkestDungeon
)

var regionNames = []string{"All", "Town", "Ruins", "Warrens", "Weald", "Cove", "Courtyard", "Farmstead", "Darkest Dungeon"}

func (r Region) String() string {
	if int(r) < 0 || int(r) >= len(regionNames) {
		return ""
	}
	return regionNames[r]
}

func ParseRegion(s string) (Region, error) {
	key := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for i, name := range regionNames {
		if strings.EqualFold(strings.ReplaceAll(name, " ", ""), key) {
			return Region(i), nil
		}
	}
	return 0, fmt.Errorf("unknown curio region %q", s)
}

type EffectType int

const (
	EffectNothing EffectType = iota
	EffectLoot
	EffectQuirk
	EffectEffect
	EffectPurge
	EffectScouting
	EffectTeleport
	EffectDisease
	EffectSummon
)

var effectTypeNames = []string{"Nothing", "Loot", "Quirk", "Effect", "Purge", "Scouting", "Teleport", "Disease", "Summon"}

func (t EffectType) String() string {
	if int(t) < 0 || int(t) >= len(effectTypeNames) {
		return ""
	}
	return effectTypeNames[t]
}

func ParseEffectType(s string) (EffectType, error) {
	for i, name := range effectTypeNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return EffectType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown curio effect type %q", s)
}

// Tracker is the curio tracker icon id. Unknown ids are kept verbatim.
type Tracker string

const (
	TrackerNothing       Tracker = "nothing"
	TrackerLoot          Tracker = "loot"
	TrackerHealGeneral   Tracker = "heal_gen"
	TrackerHealStress    Tracker = "heal_stress"
	TrackerPurgeNegative Tracker = "purge_neg"
	TrackerBuff          Tracker = "buff"
	TrackerDebuff        Tracker = "debuff"
	TrackerQuirkPositive Tracker = "quirk_pos"
	TrackerQuirkNegative Tracker = "quirk_neg"
	TrackerSummon        Tracker = "summon"
)

// Result is one outcome of an effect. For loot, Weight is the number of
// draws from the Value loot table; otherwise it is a relative weight.
type Result struct {
	Value  string
	Weight int
}

type Effect struct {
	Type    EffectType
	Results [3]Result
	Tracker Tracker
	Notes   string
}

// WeightedEffect is an effect plus the weight of picking it over the other
// slots of the same curio.
type WeightedEffect struct {
	Effect
	Weight int
}

// Slot names one of the eight fixed outcome categories of a curio.
type Slot int

const (
	SlotNothing Slot = iota
	SlotLoot
	SlotQuirk
	SlotEffect
	SlotPurge
	SlotScouting
	SlotTeleport
	SlotDisease
	SlotCount
)

func (s Slot) String() string {
	return EffectType(s).String()
}

// EffectSet holds one weighted effect per slot, indexed by Slot.
type EffectSet [SlotCount]WeightedEffect

// TotalWeight sums the selection weights of every slot.
func (s EffectSet) TotalWeight() int {
	total := 0
	for _, effect := range s {
		total += effect.Weight
	}
	return total
}

type Interaction struct {
	Item   string
	Effect Effect
}

// MaxInteractions is the number of item interaction rows a record reserves.
const MaxInteractions = 4

const tagCount = 6

type Curio struct {
	ID           int
	Name         string
	IDString     string
	Quality      Quality
	Region       Region
	Full         bool
	Tags         [tagCount]string
	Effects      EffectSet
	Interactions []Interaction
}

func (c Curio) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Library is the parsed curio type library.
type Library struct {
	Curios []Curio
}

// Find returns the curio with the given id string.
func (l *Library) Find(idString string) (Curio, bool) {
	for _, c := range l.Curios {
		if c.IDString == idString {
			return c, true
		}
	}
	return Curio{}, false
}
