package randomize

import (
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"ddrand/internal/curio"
	"ddrand/internal/gamedata"
)

var heroSkills = map[string][]string{
	"abomination": {"manacles", "beast_bile", "transform", "absolution", "slam", "rage", "howl"},
	"crusader":    {"smite", "zealous_accusation", "stunning_blow", "bulwark_of_faith", "battle_heal", "holy_lance", "inspiring_cry"},
	"highwayman":  {"wicked_slice", "pistol_shot", "point_blank_shot", "grapeshot_blast", "tracking_shot", "duelist_advance", "open_vein"},
	"man_at_arms": {"crush", "rampart", "bellow", "defender", "retribution", "command", "bolster"},
}

var riposteHeroes = map[string]bool{"highwayman": true, "man_at_arms": true}

var monsterSizes = map[string]int{
	"bone_soldier_A":    1,
	"bone_rabble_A":     1,
	"bone_defender_A":   1,
	"cultist_brawler_A": 1,
	"ghoul_A":           2,
	"swine_chopper_A":   2,
}

var dungeonBosses = map[string]string{
	"cove":    "drowned_crew_A",
	"crypts":  "necromancer_A",
	"warrens": "swine_prince_A",
	"weald":   "hag_A",
}

func put(fs fstest.MapFS, path, text string) {
	fs[path] = &fstest.MapFile{Data: []byte(text)}
}

// gameFixture builds a small but complete game directory.
func gameFixture() fstest.MapFS {
	game := fstest.MapFS{}

	put(game, gamedata.CurioLibraryPath, curioFixture().Serialize())

	for _, rd := range regionDungeons {
		put(game, gamedata.RegionPropsPath(rd.dungeon),
			"hall_curios: .chance 2 .types old_hall\n"+
				"room_curios: .chance 3 .types old_room\n"+
				"room_treasures: .chance 4 .types old_treasure\n"+
				"torch: .level 100\n")
	}

	for _, dungeon := range gamedata.Dungeons {
		for _, level := range gamedata.MashLevels {
			put(game, gamedata.MashPath(dungeon, level), fmt.Sprintf(
				"// level %d\n"+
					"hall: .chance 3 .types bone_soldier_A ghoul_A\n"+
					"hall: .chance 1 .types cultist_brawler_A bone_rabble_A\n"+
					"room: .types bone_defender_A swine_chopper_A bone_soldier_A\n"+
					"stall: .types bone_rabble_A\n"+
					"boss: .types %s\n"+
					"boss: .types crow_A\n",
				level, dungeonBosses[dungeon]))
		}
	}

	for name, size := range monsterSizes {
		family := name[:strings.Index(name, "_")]
		put(game, fmt.Sprintf("monsters/%s/%s/%s.info.darkest", family, name, name), fmt.Sprintf(
			"display: .size %d\nenemy_type: .id \"%s\"\nstats: .hp 20 .def 0%%\n", size, family))
	}

	put(game, gamedata.QuestTypesPath, `{"goals":[`+
		`{"id":"kill_necromancer","data":{"monster_class_ids":["necromancer_A"]}},`+
		`{"id":"kill_crow","data":{"monster_class_ids":["crow_A"]}},`+
		`{"id":"gather","data":{"item":"crate"}}]}`)

	var skills []string
	for i := 0; i < 9; i++ {
		skills = append(skills, fmt.Sprintf(`{"id":"camp_%d","hero_classes":["crusader"]}`, i))
	}
	put(game, gamedata.CampingSkillsPath, `{"configuration":{"class_specific_number_of_classes_threshold":4},"skills":[`+strings.Join(skills, ",")+`]}`)
	put(game, gamedata.CampingLayoutPath, "camping_trainer_class_specific_skill_grid_layout: .skill_spacing 100 140\n")

	var xml strings.Builder
	xml.WriteString("<root>\n<language id=\"english\">\n")
	for hero, names := range heroSkills {
		put(game, gamedata.HeroInfoPath(hero), heroInfo(hero, names))
		put(game, gamedata.HeroArtPath(hero), heroArt(hero, names))
		for slot, skill := range names {
			put(game, gamedata.AbilityIconPath(hero, slot), hero+"-"+skill)
			fmt.Fprintf(&xml, "<entry id=\"combat_skill_name_%s_%s\"><![CDATA[%s %s]]></entry>\n", hero, skill, hero, skill)
			fmt.Fprintf(&xml, "<entry id=\"upgrade_tree_name_%s.%s\"><![CDATA[%s tree]]></entry>\n", hero, skill, skill)
		}
	}
	xml.WriteString("</language>\n</root>\n")
	put(game, gamedata.HeroStringsPath, xml.String())

	return game
}

func heroInfo(hero string, names []string) string {
	var b strings.Builder
	b.WriteString("resistances: .stun 40% .poison 30% .bleed 30% .disease 30% .move 40% .debuff 30% .trap 10%\n")
	b.WriteString("weapon: .atk 0% .dmg 6 12 .crit 3% .spd 1\n")
	b.WriteString("weapon: .atk 5% .dmg 7 14 .crit 4% .spd 2\n")
	b.WriteString("armour: .def 5% .prot 0 .hp 33 .spd 0\n")
	b.WriteString("armour: .def 7.5% .prot 0 .hp 40 .spd 0\n")
	for _, skill := range names {
		for level := 1; level >= 0; level-- {
			fmt.Fprintf(&b, "combat_skill: .id \"%s\" .level %d .type \"melee\" .valid_modes human\n", skill, level)
		}
	}
	if riposteHeroes[hero] {
		b.WriteString("riposte_skill: .id \"riposte1\" .level 0 .type \"melee\"\n")
	}
	b.WriteString("tag: .id \"" + hero + "\"\n")
	return b.String()
}

// heroArt lists the skills out of icon order.
func heroArt(hero string, names []string) string {
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "combat_skill: .id \"%s\" .anim \"%s_%d\" .fx \"fx_%d\" .targchestfx \"chest_%d\" .icon \"%s\"\n",
			names[i], hero, i, i, i, gamedata.AbilityNumbers[i])
	}
	if riposteHeroes[hero] {
		b.WriteString("riposte_skill: .id \"riposte1\" .anim \"riposte\" .fx \"riposte_fx\" .targchestfx \"riposte_chest\"\n")
	}
	return b.String()
}

func curioFixture() *curio.Library {
	regions := []curio.Region{
		curio.RegionAll, curio.RegionAll, curio.RegionCove, curio.RegionRuins,
		curio.RegionWarrens, curio.RegionWeald, curio.RegionDarkestDungeon, curio.RegionTown,
		curio.RegionCove, curio.RegionRuins, curio.RegionAll, curio.RegionWeald,
	}
	lib := &curio.Library{}
	for i, region := range regions {
		c := curio.Curio{
			ID:       i + 1,
			Name:     fmt.Sprintf("Curio %d", i+1),
			IDString: fmt.Sprintf("curio_%d", i+1),
			Quality:  curio.Quality(i % 3),
			Region:   region,
			Full:     true,
		}
		if i%3 == 0 {
			c.Tags[0] = treasureTag
		}
		for slot := curio.SlotLoot; slot < curio.SlotCount; slot++ {
			c.Effects[slot] = curio.WeightedEffect{
				Effect: curio.Effect{
					Type:    curio.EffectType(slot),
					Results: [3]curio.Result{{Value: fmt.Sprintf("r%d_%d", i+1, slot), Weight: 1}},
				},
				Weight: (i+int(slot))%4 + 1,
			}
		}
		lib.Curios = append(lib.Curios, c)
	}
	lib.Curios[0].Interactions = []curio.Interaction{
		{Item: "holy_water", Effect: curio.Effect{Type: curio.EffectType(curio.SlotPurge)}},
		{Item: "shovel", Effect: curio.Effect{Type: curio.EffectType(curio.SlotLoot), Results: [3]curio.Result{{Value: "gold", Weight: 2}}}},
	}
	lib.Curios[4].Interactions = []curio.Interaction{
		{Item: "shovel", Effect: curio.Effect{Type: curio.EffectType(curio.SlotNothing)}},
	}

	lib.Curios = append(lib.Curios,
		curio.Curio{ID: 13, Name: "Altar", IDString: "shamblers_altar", Region: curio.RegionAll, Full: true},
		curio.Curio{ID: 14, Name: "Story", IDString: "story_curio", Region: curio.RegionTown},
	)
	return lib
}

func loadFixture(t *testing.T, game fstest.MapFS) *gamedata.Bundle {
	t.Helper()
	b, err := gamedata.Load(gamedata.Source{Game: game})
	require.NoError(t, err)
	return b
}

func artifactMap(t *testing.T, b *gamedata.Bundle) map[string]string {
	t.Helper()
	arts, err := b.Artifacts()
	require.NoError(t, err)
	out := map[string]string{}
	for _, a := range arts {
		out[a.Path] = string(a.Data)
	}
	return out
}
