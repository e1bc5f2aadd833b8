package gamedata

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"ddrand/internal/darkest"
	"ddrand/internal/fault"
)

func file(text string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(text)}
}

func gameFS() fstest.MapFS {
	return fstest.MapFS{
		"heroes/crusader/crusader.info.darkest": file("resistances: .stun 40%\n"),
		"heroes/vestal/vestal.info.darkest":     file("resistances: .stun 30%\n"),
		"heroes/vestal/vestal.ability.one.png":  file("PNG"),
		"monsters/bone/bone_soldier_A/bone_soldier_A.info.darkest": file(
			"\ufeff// skeleton\ndisplay: .size 1\nenemy_type: .id \"bone_soldier\"\nstats: .hp 10\n"),
		"monsters/bone/shared/readme.txt":      file("not a monster"),
		"dungeons/cove/cove.1.mash.darkest":    file("hall: .types pelagic_grouper_A\n"),
		"campaign/quest/quest.types.json":      file(`{"goals":[]}`),
		"localization/heroes.string_table.xml": file(`<root><language id="english"><entry id="a">A</entry></language></root>`),
	}
}

func TestLoad(t *testing.T) {
	b, err := Load(Source{Game: gameFS()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !reflect.DeepEqual(b.Heroes(), []string{"crusader", "vestal"}) {
		t.Fatalf("unexpected roster: %v", b.Heroes())
	}

	m, ok := b.Monster("bone_soldier_A")
	if !ok {
		t.Fatalf("expected bone_soldier_A to load")
	}
	want := Monster{Name: "bone_soldier_A", Size: 1, EnemyTypeID: "bone_soldier", HP: 10}
	if m != want {
		t.Fatalf("expected %+v, got %+v", want, m)
	}
	if _, ok := b.Monster("shared"); ok {
		t.Fatalf("expected directories outside the family prefix to be skipped")
	}
}

func TestLoadCorruptMonster(t *testing.T) {
	game := gameFS()
	game["monsters/bone/bone_soldier_A/bone_soldier_A.info.darkest"] = file("display: .size big\n")

	_, err := Load(Source{Game: game})
	if !errors.Is(err, fault.ErrCorruptInput) {
		t.Fatalf("expected corrupt input, got %v", err)
	}
}

func TestModOverlay(t *testing.T) {
	mod := fstest.MapFS{
		"dungeons/cove/cove.1.mash.darkest": file("hall: .types bone_soldier_A\n"),
	}
	b, err := Load(Source{Game: gameFS(), Mod: mod})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	doc, err := b.Darkest(MashPath("cove", 1))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	hall, _ := doc.First("hall")
	if hall.Value("types") != "bone_soldier_A" {
		t.Fatalf("expected mod file to shadow game file, got %q", hall.Value("types"))
	}

	info, err := b.Darkest(HeroInfoPath("vestal"))
	if err != nil {
		t.Fatalf("expected fallback to game file, got %v", err)
	}
	if !info.Has("resistances") {
		t.Fatalf("expected vestal info from game dir")
	}

	if _, err := b.Darkest("missing.darkest"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func TestArtifacts(t *testing.T) {
	b, err := Load(Source{Game: gameFS()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if arts, _ := b.Artifacts(); len(arts) != 0 {
		t.Fatalf("expected no artifacts before edits, got %d", len(arts))
	}

	doc, _ := b.Darkest(MashPath("cove", 1))
	doc, err = doc.Set("hall", "types", "bone_soldier_A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b.SetDarkest(MashPath("cove", 1), doc)

	quest, _ := b.JSON(QuestTypesPath)
	quest, _ = quest.Set("version", 1)
	b.SetJSON(QuestTypesPath, quest)

	table, _ := b.HeroStrings()
	b.SetHeroStrings(table.With("english", "a", "B"))

	b.Copy(AbilityIconPath("crusader", 0), AbilityIconPath("vestal", 0))

	arts, err := b.Artifacts()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var paths []string
	byPath := map[string]string{}
	for _, a := range arts {
		paths = append(paths, a.Path)
		byPath[a.Path] = string(a.Data)
	}
	want := []string{
		"campaign/quest/quest.types.json",
		"dungeons/cove/cove.1.mash.darkest",
		"heroes/crusader/crusader.ability.one.png",
		"localization/heroes.string_table.xml",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	if byPath["heroes/crusader/crusader.ability.one.png"] != "PNG" {
		t.Fatalf("expected icon copied from vestal")
	}
	if !strings.Contains(byPath["dungeons/cove/cove.1.mash.darkest"], ".types bone_soldier_A") {
		t.Fatalf("unexpected mash output: %q", byPath["dungeons/cove/cove.1.mash.darkest"])
	}
	if !strings.Contains(byPath["campaign/quest/quest.types.json"], `"version": 1`) {
		t.Fatalf("unexpected quest output: %q", byPath["campaign/quest/quest.types.json"])
	}
	if !strings.Contains(byPath["localization/heroes.string_table.xml"], "CDATA[B]") {
		t.Fatalf("unexpected strings output: %q", byPath["localization/heroes.string_table.xml"])
	}
}

func TestMonsterFromDocumentMissing(t *testing.T) {
	_, err := MonsterFromDocument("x", darkest.Parse("display: .size 2\n"))
	if !errors.Is(err, darkest.ErrMissingEntryType) {
		t.Fatalf("expected missing entry type, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	tests := map[string]string{
		RegionPropsPath("crypts"):         "dungeons/crypts/crypts.props.darkest",
		MashPath("weald", 5):              "dungeons/weald/weald.5.mash.darkest",
		HeroArtPath("hellion"):            "heroes/hellion/hellion.art.darkest",
		AbilityIconPath("hellion", 6):     "heroes/hellion/hellion.ability.seven.png",
		monsterInfoPath("bone", "bone_A"): "monsters/bone/bone_A/bone_A.info.darkest",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
