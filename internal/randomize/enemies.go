package randomize

import (
	"fmt"
	"slices"
	"strings"

	"ddrand/internal/darkest"
	"ddrand/internal/fault"
	"ddrand/internal/gamedata"
	"ddrand/internal/shuffle"
)

// enemySets are the mash entry types whose enemies are relabelled, each with
// its own size-bucketed map.
var enemySets = []string{"hall", "room", "stall"}

const bossSet = "boss"

// shuffleEnemies relabels the hall, room and stall enemies of every dungeon
// at each level. An enemy only ever trades places with one of its size.
func (e *engine) shuffleEnemies() error {
	for _, level := range gamedata.MashLevels {
		docs, err := e.mashes(level)
		if err != nil {
			return err
		}
		for _, set := range enemySets {
			mapping, err := shuffle.BucketedShuffle(e.src, collectEnemies(docs, set), e.monsterSize)
			if err != nil {
				return fmt.Errorf("level %d %s enemies: %w", level, set, err)
			}
			for i, doc := range docs {
				if !doc.Has(set) {
					continue
				}
				docs[i], err = doc.Replace(set, "types", func(name string, _, _ int) (string, error) {
					return mapping[name], nil
				})
				if err != nil {
					return err
				}
			}
		}
		e.storeMashes(level, docs)
	}
	return nil
}

func (e *engine) monsterSize(name string) (int, error) {
	m, ok := e.data.Monster(name)
	if !ok {
		return 0, fault.Reconcile("enemy %q is not in the monster table", name)
	}
	return m.Size, nil
}

// collectEnemies returns every enemy named by set entries, in first-seen
// order across the dungeons.
func collectEnemies(docs []*darkest.Document, set string) []string {
	var names []string
	seen := map[string]bool{}
	for _, doc := range docs {
		entries, err := doc.Entries(set)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			types, _ := entry.Property("types")
			for _, name := range types {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	return names
}

// shuffleBosses deals the unprotected boss layouts of each level back out
// across the dungeons and points quest goals at the layouts that replaced
// the ones they named.
func (e *engine) shuffleBosses() error {
	for _, level := range gamedata.MashLevels {
		docs, err := e.mashes(level)
		if err != nil {
			return err
		}

		var layouts [][]string
		for _, doc := range docs {
			if !doc.Has(bossSet) {
				continue
			}
			entries, _ := doc.Entries(bossSet)
			for i, entry := range entries {
				types, ok := entry.Property("types")
				if !ok {
					return fault.CorruptWrap(darkest.ErrMissingProperty, "%s.types in entry %d", bossSet, i)
				}
				if !e.protectedLayout(types) {
					layouts = append(layouts, types)
				}
			}
		}
		shuffled := shuffle.Shuffle(e.src, layouts)

		next := 0
		for i, doc := range docs {
			if !doc.Has(bossSet) {
				continue
			}
			entries, _ := doc.Entries(bossSet)
			for j, entry := range entries {
				types, _ := entry.Property("types")
				if e.protectedLayout(types) {
					continue
				}
				entries[j] = entry.With("types", shuffled[next]...)
				next++
			}
			docs[i] = doc.WithEntries(bossSet, entries)
		}
		e.storeMashes(level, docs)

		if err := e.rematchQuests(layouts, shuffled); err != nil {
			return fmt.Errorf("level %d quests: %w", level, err)
		}
	}
	return nil
}

func (e *engine) protectedLayout(types []string) bool {
	return slices.ContainsFunc(types, func(name string) bool {
		return strings.HasPrefix(name, e.rules.ProtectedBossPrefix)
	})
}

// rematchQuests rewrites each goal's monster ids to the shuffled layout of
// the first original layout sharing a monster with the goal.
func (e *engine) rematchQuests(original, shuffled [][]string) error {
	quest, err := e.data.JSON(gamedata.QuestTypesPath)
	if err != nil {
		return err
	}

	first := map[string]int{}
	for i, layout := range original {
		for _, name := range layout {
			if _, ok := first[name]; !ok {
				first[name] = i
			}
		}
	}

	for i := 0; i < quest.Len("goals"); i++ {
		path := fmt.Sprintf("goals.%d.data.monster_class_ids", i)
		if !quest.Exists(path) {
			continue
		}
		match := -1
		for _, id := range quest.Strings(path) {
			if k, ok := first[id]; ok && (match < 0 || k < match) {
				match = k
			}
		}
		if match < 0 {
			continue
		}
		if quest, err = quest.Set(path, shuffled[match]); err != nil {
			return err
		}
	}
	e.data.SetJSON(gamedata.QuestTypesPath, quest)
	return nil
}

func (e *engine) mashes(level int) ([]*darkest.Document, error) {
	docs := make([]*darkest.Document, 0, len(gamedata.Dungeons))
	for _, dungeon := range gamedata.Dungeons {
		doc, err := e.data.Darkest(gamedata.MashPath(dungeon, level))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e *engine) storeMashes(level int, docs []*darkest.Document) {
	for i, dungeon := range gamedata.Dungeons {
		e.data.SetDarkest(gamedata.MashPath(dungeon, level), docs[i])
	}
}
