package randomize

import (
	"slices"
	"strconv"

	"ddrand/internal/curio"
	"ddrand/internal/darkest"
	"ddrand/internal/fault"
	"ddrand/internal/gamedata"
	"ddrand/internal/shuffle"
)

const treasureTag = "Treasure"

// regionDungeons maps each curio region to the dungeon whose props file
// holds its spawn tables, in rebuild order.
var regionDungeons = []struct {
	region  curio.Region
	dungeon string
}{
	{curio.RegionCove, "cove"},
	{curio.RegionRuins, "crypts"},
	{curio.RegionWarrens, "warrens"},
	{curio.RegionWeald, "weald"},
	{curio.RegionDarkestDungeon, "darkestdungeon"},
	{curio.RegionTown, "town"},
}

// shuffleCurios permutes the region column, then each effect slot column,
// then one interaction column per item across the curios in rotation. Held
// out curios are appended back unchanged.
func (e *engine) shuffleCurios() error {
	lib, err := e.data.Curios()
	if err != nil {
		return err
	}
	rotation, held := e.splitRotation(lib.Curios)

	var columns []shuffle.Column[curio.Curio]
	if e.opts.CurioRegions {
		columns = append(columns, shuffle.Field(
			func(c curio.Curio) curio.Region { return c.Region },
			func(c curio.Curio, r curio.Region) curio.Curio { c.Region = r; return c },
		))
	}
	if e.opts.CurioEffects {
		for slot := curio.SlotNothing; slot < curio.SlotCount; slot++ {
			columns = append(columns, slotColumn(slot))
		}
	}
	if e.opts.CurioInteractions {
		items := interactionItems(rotation)
		for _, item := range items {
			columns = append(columns, interactionColumn(item, items))
		}
	}

	rotation = shuffle.ColumnShuffle(e.src, rotation, columns...)
	for i := range rotation {
		if len(rotation[i].Interactions) > curio.MaxInteractions {
			rotation[i].Interactions = rotation[i].Interactions[:curio.MaxInteractions]
		}
	}

	e.rotation = rotation
	e.data.SetCurios(&curio.Library{Curios: append(append([]curio.Curio{}, rotation...), held...)})
	return nil
}

func (e *engine) splitRotation(curios []curio.Curio) (rotation, held []curio.Curio) {
	for _, c := range curios {
		switch {
		case !e.opts.IncludeExcludedCurio && c.IDString == e.rules.ExcludedCurio:
			held = append(held, c)
		case !e.opts.IncludeStoryCurios && !c.Full:
			held = append(held, c)
		default:
			rotation = append(rotation, c)
		}
	}
	return rotation, held
}

func slotColumn(slot curio.Slot) shuffle.Column[curio.Curio] {
	return shuffle.Field(
		func(c curio.Curio) curio.WeightedEffect { return c.Effects[slot] },
		func(c curio.Curio, w curio.WeightedEffect) curio.Curio { c.Effects[slot] = w; return c },
	)
}

// interactionItems lists every interaction item in first-seen order.
func interactionItems(curios []curio.Curio) []string {
	var items []string
	for _, c := range curios {
		for _, in := range c.Interactions {
			if !slices.Contains(items, in.Item) {
				items = append(items, in.Item)
			}
		}
	}
	return items
}

// interactionColumn shuffles the effect of one item, absence included. The
// rebuilt interaction list is kept in item order.
func interactionColumn(item string, items []string) shuffle.Column[curio.Curio] {
	get := func(c curio.Curio) *curio.Effect {
		for _, in := range c.Interactions {
			if in.Item == item {
				effect := in.Effect
				return &effect
			}
		}
		return nil
	}
	set := func(c curio.Curio, effect *curio.Effect) curio.Curio {
		var out []curio.Interaction
		for _, in := range c.Interactions {
			if in.Item != item {
				out = append(out, in)
			}
		}
		if effect != nil {
			out = append(out, curio.Interaction{Item: item, Effect: *effect})
		}
		slices.SortStableFunc(out, func(a, b curio.Interaction) int {
			return slices.Index(items, a.Item) - slices.Index(items, b.Item)
		})
		c.Interactions = out
		return c
	}
	return shuffle.Field(get, set)
}

// rebuildRegions regenerates the hall, room and treasure spawn tables of
// every region props file from the shuffled regions.
func (e *engine) rebuildRegions() error {
	for _, rd := range regionDungeons {
		path := gamedata.RegionPropsPath(rd.dungeon)
		doc, err := e.data.Darkest(path)
		if err != nil {
			return err
		}

		var candidates []curio.Curio
		for _, c := range e.rotation {
			if c.Region == rd.region || c.Region == curio.RegionAll {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			return fault.Reconcile("no curio can spawn in %s", rd.region)
		}
		candidates = shuffle.Shuffle(e.src, candidates)

		var treasures, others []curio.Curio
		for _, c := range candidates {
			if c.HasTag(treasureTag) {
				treasures = append(treasures, c)
			} else {
				others = append(others, c)
			}
		}
		hallCount := e.src.Range(8, 13)
		treasureCount := e.src.Range(4, 8)

		hall := e.spawnEntries("hall_curios", window(others, 6, hallCount))
		if !e.opts.IncludeExcludedCurio {
			hall = append(hall, spawnEntry("hall_curios", e.rules.ExcludedCurio, 1))
		}
		room := e.spawnEntries("room_curios", window(others, 0, 6))
		treasure := e.spawnEntries("room_treasures", window(treasures, 0, treasureCount))

		doc = doc.WithEntries("hall_curios", hall).
			WithEntries("room_curios", room).
			WithEntries("room_treasures", treasure)
		e.data.SetDarkest(path, doc)
	}
	return nil
}

func (e *engine) spawnEntries(typ string, curios []curio.Curio) []darkest.Entry {
	entries := make([]darkest.Entry, 0, len(curios))
	for _, c := range curios {
		entries = append(entries, spawnEntry(typ, c.IDString, e.src.Range(1, 11)))
	}
	return entries
}

func spawnEntry(typ, id string, chance int) darkest.Entry {
	return darkest.NewEntry(typ).
		With("chance", strconv.Itoa(chance)).
		With("types", id)
}

// window returns up to n items starting at skip.
func window[T any](items []T, skip, n int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if n < len(items) {
		items = items[:n]
	}
	return items
}
