package randomize

import (
	"fmt"
	"slices"
	"strconv"

	"ddrand/internal/darkest"
	"ddrand/internal/fault"
	"ddrand/internal/gamedata"
	"ddrand/internal/shuffle"
	"ddrand/internal/strtable"
)

const (
	skillSlots      = 7
	skillsPerMode   = 5
	combatSkillType = "combat_skill"
	riposteType     = "riposte_skill"
)

// riposteDonors names the hero whose riposte block follows a donated skill.
var riposteDonors = map[string]string{
	"retribution":     "man_at_arms",
	"duelist_advance": "highwayman",
}

var riposteGraphics = []string{"anim", "fx", "targchestfx"}

type heroFiles struct {
	info, art *darkest.Document
	// skills are the combat skill ids ordered by icon number.
	skills []string
}

// shuffleHeroSkills hands every hero skill slot to a hero drawn from a per
// slot permutation of the roster, then follows up with names and icons.
func (e *engine) shuffleHeroSkills() error {
	heroes := e.data.Heroes()
	if len(heroes) == 0 {
		return fault.Reconcile("hero roster is empty")
	}
	mapping := e.skillMapping(heroes)

	files := map[string]heroFiles{}
	for _, hero := range heroes {
		f, err := e.loadHero(hero)
		if err != nil {
			return fmt.Errorf("%s: %w", hero, err)
		}
		files[hero] = f
	}

	for _, hero := range heroes {
		info, art, err := e.swapCombatSkills(files, mapping, hero)
		if err != nil {
			return fmt.Errorf("%s: %w", hero, err)
		}
		e.data.SetDarkest(gamedata.HeroInfoPath(hero), info)
		e.data.SetDarkest(gamedata.HeroArtPath(hero), art)
	}

	if err := e.relabelSkills(files, mapping, heroes); err != nil {
		return err
	}
	for _, hero := range heroes {
		for slot, donor := range mapping[hero] {
			if donor != hero {
				e.data.Copy(gamedata.AbilityIconPath(hero, slot), gamedata.AbilityIconPath(donor, slot))
			}
		}
	}
	return nil
}

// skillMapping returns hero -> slot -> donor hero. Slot 0 is dealt over the
// roster without the shapeshifter, who keeps its own.
func (e *engine) skillMapping(heroes []string) map[string][]string {
	mapping := make(map[string][]string, len(heroes))
	for _, hero := range heroes {
		mapping[hero] = make([]string, skillSlots)
	}

	var others []string
	for _, hero := range heroes {
		if hero == e.rules.Shapeshifter {
			mapping[hero][0] = hero
			continue
		}
		others = append(others, hero)
	}
	for k, hero := range shuffle.Shuffle(e.src, others) {
		mapping[hero][0] = others[k]
	}

	for slot := 1; slot < skillSlots; slot++ {
		for k, hero := range shuffle.Shuffle(e.src, heroes) {
			mapping[hero][slot] = heroes[k]
		}
	}
	return mapping
}

func (e *engine) loadHero(hero string) (heroFiles, error) {
	info, err := e.data.Darkest(gamedata.HeroInfoPath(hero))
	if err != nil {
		return heroFiles{}, err
	}
	art, err := e.data.Darkest(gamedata.HeroArtPath(hero))
	if err != nil {
		return heroFiles{}, err
	}
	skills, err := skillsInOrder(art)
	if err != nil {
		return heroFiles{}, err
	}
	if len(skills) < skillSlots {
		return heroFiles{}, fault.Corrupt("%d combat skills in art, need %d", len(skills), skillSlots)
	}
	return heroFiles{info: info, art: art, skills: skills}, nil
}

func skillsInOrder(art *darkest.Document) ([]string, error) {
	entries, err := art.Entries(combatSkillType)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(a, b darkest.Entry) int {
		return iconIndex(a) - iconIndex(b)
	})
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, darkest.Unquote(entry.Value("id")))
	}
	return ids, nil
}

func iconIndex(entry darkest.Entry) int {
	return slices.Index(gamedata.AbilityNumbers, darkest.Unquote(entry.Value("icon")))
}

func (e *engine) swapCombatSkills(files map[string]heroFiles, mapping map[string][]string, hero string) (*darkest.Document, *darkest.Document, error) {
	own := files[hero]

	var combat []darkest.Entry
	riposte := ""
	for slot := 0; slot < skillSlots; slot++ {
		donor := files[mapping[hero][slot]]
		skill := donor.skills[slot]
		if riposte == "" {
			riposte = riposteDonors[skill]
		}

		entries, err := donor.info.Entries(combatSkillType)
		if err != nil {
			return nil, nil, err
		}
		var levels []darkest.Entry
		for _, entry := range entries {
			if darkest.Unquote(entry.Value("id")) == skill {
				levels = append(levels, entry.With("id", darkest.Quote(own.skills[slot])))
			}
		}
		slices.SortStableFunc(levels, func(a, b darkest.Entry) int {
			return skillLevel(a) - skillLevel(b)
		})
		combat = append(combat, levels...)
	}

	info, err := own.info.WithEntries(combatSkillType, combat).WithoutProperty(combatSkillType, "valid_modes")
	if err != nil {
		return nil, nil, err
	}
	if hero == e.rules.Shapeshifter {
		if info, err = info.WithProperty(combatSkillType, "valid_modes", shapeshifterModes); err != nil {
			return nil, nil, err
		}
		info, err = info.WithProperty(combatSkillType, "generation_guaranteed", func(i int) []string {
			return []string{strconv.FormatBool(i == 0)}
		})
		if err != nil {
			return nil, nil, err
		}
	}

	art := own.art
	if riposte != "" && !own.info.Has(riposteType) {
		if info, art, err = graftRiposte(info, art, files, riposte); err != nil {
			return nil, nil, err
		}
	}
	return info, art, nil
}

// shapeshifterModes splits the shapeshifter's combat entries, five levels per
// skill: the first skill works in both forms, the next three in human form,
// the rest in beast form.
func shapeshifterModes(i int) []string {
	switch i / skillsPerMode {
	case 1, 2, 3:
		return []string{"human"}
	case 4, 5, 6:
		return []string{"beast"}
	default:
		return []string{"human", "beast"}
	}
}

func skillLevel(entry darkest.Entry) int {
	level, err := strconv.Atoi(entry.Value("level"))
	if err != nil {
		return -1
	}
	return level
}

// graftRiposte copies the riposte blocks of the donor hero and points the art
// at the receiving hero's own combat graphics.
func graftRiposte(info, art *darkest.Document, files map[string]heroFiles, donor string) (*darkest.Document, *darkest.Document, error) {
	from, ok := files[donor]
	if !ok {
		return nil, nil, fault.Reconcile("riposte donor %q is not in the roster", donor)
	}

	block, err := from.info.First(riposteType)
	if err != nil {
		return nil, nil, err
	}
	info = info.AddEntries(block).WithOrder(from.info.Order())

	entries, err := art.Entries(combatSkillType)
	if err != nil {
		return nil, nil, err
	}
	i := slices.IndexFunc(entries, func(entry darkest.Entry) bool {
		return !slices.ContainsFunc(riposteGraphics, func(name string) bool { return !entry.Has(name) })
	})
	if i < 0 {
		return nil, nil, fault.Reconcile("no combat skill art to reuse for riposte")
	}
	graphics := entries[i]

	artBlock, err := from.art.First(riposteType)
	if err != nil {
		return nil, nil, err
	}
	art = art.AddEntries(artBlock)
	for _, name := range riposteGraphics {
		if art, err = art.Set(riposteType, name, graphics.Value(name)); err != nil {
			return nil, nil, err
		}
	}
	return info, art.WithOrder(from.art.Order()), nil
}

// relabelSkills gives every donated skill the donor's localized name and
// upgrade tree name, read from the table as it was before any change.
func (e *engine) relabelSkills(files map[string]heroFiles, mapping map[string][]string, heroes []string) error {
	original, err := e.data.HeroStrings()
	if err != nil {
		return err
	}
	var edits []strtable.Edit
	for _, hero := range heroes {
		for slot, donor := range mapping[hero] {
			if donor == hero {
				continue
			}
			own, theirs := files[hero].skills[slot], files[donor].skills[slot]
			ids := [][2]string{
				{fmt.Sprintf("combat_skill_name_%s_%s", hero, own), fmt.Sprintf("combat_skill_name_%s_%s", donor, theirs)},
				{fmt.Sprintf("upgrade_tree_name_%s.%s", hero, own), fmt.Sprintf("upgrade_tree_name_%s.%s", donor, theirs)},
			}
			for _, lang := range original.Languages() {
				for _, id := range ids {
					if _, ok := original.Text(lang, id[0]); !ok {
						continue
					}
					if text, ok := original.Text(lang, id[1]); ok {
						edits = append(edits, strtable.Edit{Lang: lang, ID: id[0], Text: text})
					}
				}
			}
		}
	}
	e.data.SetHeroStrings(original.Apply(edits))
	return nil
}
