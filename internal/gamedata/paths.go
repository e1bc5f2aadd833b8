package gamedata

import (
	"fmt"
	"path"
)

// Game-relative dataset paths. Mod directories mirror the same layout.
const (
	CurioLibraryPath  = "curios/curio_type_library.csv"
	QuestTypesPath    = "campaign/quest/quest.types.json"
	CampingSkillsPath = "raid/camping/default.camping_skills.json"
	CampingLayoutPath = "campaign/town/buildings/camping_trainer/camping_trainer.layout.darkest"
	HeroStringsPath   = "localization/heroes.string_table.xml"

	monstersDir = "monsters"
	heroesDir   = "heroes"
)

// Dungeons holding enemy mashes, in processing order.
var Dungeons = []string{"cove", "crypts", "warrens", "weald"}

// PropsDungeons hold curio spawn tables, one props file each.
var PropsDungeons = []string{"cove", "crypts", "warrens", "weald", "darkestdungeon", "town"}

// MashLevels are the dungeon levels with their own mash file.
var MashLevels = []int{1, 3, 5}

// AbilityNumbers name the seven combat skill icons.
var AbilityNumbers = []string{"one", "two", "three", "four", "five", "six", "seven"}

func RegionPropsPath(dungeon string) string {
	return path.Join("dungeons", dungeon, dungeon+".props.darkest")
}

func MashPath(dungeon string, level int) string {
	return path.Join("dungeons", dungeon, fmt.Sprintf("%s.%d.mash.darkest", dungeon, level))
}

func HeroInfoPath(hero string) string {
	return path.Join(heroesDir, hero, hero+".info.darkest")
}

func HeroArtPath(hero string) string {
	return path.Join(heroesDir, hero, hero+".art.darkest")
}

func AbilityIconPath(hero string, slot int) string {
	return path.Join(heroesDir, hero, fmt.Sprintf("%s.ability.%s.png", hero, AbilityNumbers[slot]))
}

func monsterInfoPath(family, name string) string {
	return path.Join(monstersDir, family, name, name+".info.darkest")
}
