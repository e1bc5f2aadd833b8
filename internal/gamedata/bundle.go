// Package gamedata loads the game's datasets, keeps the working copies a run
// edits, and renders the edited ones back to bytes.
package gamedata

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ddrand/internal/curio"
	"ddrand/internal/darkest"
	"ddrand/internal/jsondoc"
	"ddrand/internal/strtable"
)

// Source is where datasets are read from. Files present in Mod shadow the
// ones in Game; directory listings and icon copies always use Game.
type Source struct {
	Game fs.FS
	Mod  fs.FS
}

// Artifact is one rendered file at its game-relative path.
type Artifact struct {
	Path string
	Data []byte
}

// Bundle caches every dataset read during a run. Datasets are loaded on first
// access; setters mark them modified.
type Bundle struct {
	src      Source
	monsters map[string]Monster
	heroes   []string

	docs     map[string]*darkest.Document
	jsons    map[string]*jsondoc.Document
	curios   *curio.Library
	strings  *strtable.Table
	copies   map[string]string
	modified map[string]bool
}

// Load reads the hero roster and the monster table.
func Load(src Source) (*Bundle, error) {
	b := &Bundle{
		src:      src,
		monsters: map[string]Monster{},
		docs:     map[string]*darkest.Document{},
		jsons:    map[string]*jsondoc.Document{},
		copies:   map[string]string{},
		modified: map[string]bool{},
	}

	heroes, err := listDirs(src.Game, heroesDir)
	if err != nil {
		return nil, fmt.Errorf("listing heroes: %w", err)
	}
	b.heroes = heroes

	if err := b.loadMonsters(); err != nil {
		return nil, fmt.Errorf("loading monsters: %w", err)
	}
	return b, nil
}

func (b *Bundle) loadMonsters() error {
	families, err := listDirs(b.src.Game, monstersDir)
	if err != nil {
		return err
	}
	for _, family := range families {
		names, err := listDirs(b.src.Game, monstersDir+"/"+family)
		if err != nil {
			return err
		}
		for _, name := range names {
			if !strings.HasPrefix(name, family) {
				continue
			}
			text, err := readText(b.src.Game, monsterInfoPath(family, name))
			if err != nil {
				return err
			}
			m, err := MonsterFromDocument(name, darkest.Parse(text))
			if err != nil {
				return err
			}
			b.monsters[name] = m
		}
	}
	return nil
}

// Heroes returns the hero roster in directory order.
func (b *Bundle) Heroes() []string {
	return append([]string{}, b.heroes...)
}

func (b *Bundle) Monster(name string) (Monster, bool) {
	m, ok := b.monsters[name]
	return m, ok
}

func (b *Bundle) Darkest(path string) (*darkest.Document, error) {
	if doc, ok := b.docs[path]; ok {
		return doc, nil
	}
	text, err := b.read(path)
	if err != nil {
		return nil, err
	}
	doc := darkest.Parse(text)
	b.docs[path] = doc
	return doc, nil
}

func (b *Bundle) SetDarkest(path string, doc *darkest.Document) {
	b.docs[path] = doc
	b.modified[path] = true
}

func (b *Bundle) JSON(path string) (*jsondoc.Document, error) {
	if doc, ok := b.jsons[path]; ok {
		return doc, nil
	}
	text, err := b.read(path)
	if err != nil {
		return nil, err
	}
	doc, err := jsondoc.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.jsons[path] = doc
	return doc, nil
}

func (b *Bundle) SetJSON(path string, doc *jsondoc.Document) {
	b.jsons[path] = doc
	b.modified[path] = true
}

func (b *Bundle) Curios() (*curio.Library, error) {
	if b.curios != nil {
		return b.curios, nil
	}
	text, err := b.read(CurioLibraryPath)
	if err != nil {
		return nil, err
	}
	lib, err := curio.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CurioLibraryPath, err)
	}
	b.curios = lib
	return lib, nil
}

func (b *Bundle) SetCurios(lib *curio.Library) {
	b.curios = lib
	b.modified[CurioLibraryPath] = true
}

func (b *Bundle) HeroStrings() (*strtable.Table, error) {
	if b.strings != nil {
		return b.strings, nil
	}
	text, err := b.read(HeroStringsPath)
	if err != nil {
		return nil, err
	}
	table, err := strtable.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", HeroStringsPath, err)
	}
	b.strings = table
	return table, nil
}

func (b *Bundle) SetHeroStrings(table *strtable.Table) {
	b.strings = table
	b.modified[HeroStringsPath] = true
}

// Copy schedules the game file at from to be written to to unchanged.
func (b *Bundle) Copy(to, from string) {
	b.copies[to] = from
	b.modified[to] = true
}

// Modified returns the game-relative paths of every edited dataset, sorted.
func (b *Bundle) Modified() []string {
	paths := make([]string, 0, len(b.modified))
	for p := range b.modified {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Artifacts renders every modified dataset, sorted by path.
func (b *Bundle) Artifacts() ([]Artifact, error) {
	var out []Artifact
	for _, p := range b.Modified() {
		data, err := b.render(p)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", p, err)
		}
		out = append(out, Artifact{Path: p, Data: data})
	}
	return out, nil
}

func (b *Bundle) render(path string) ([]byte, error) {
	if from, ok := b.copies[path]; ok {
		return fs.ReadFile(b.src.Game, from)
	}
	switch {
	case path == CurioLibraryPath:
		return []byte(b.curios.Serialize()), nil
	case path == HeroStringsPath:
		return b.strings.Bytes()
	}
	if doc, ok := b.jsons[path]; ok {
		return doc.Bytes(), nil
	}
	if doc, ok := b.docs[path]; ok {
		return doc.Bytes(), nil
	}
	return nil, fmt.Errorf("no dataset loaded")
}

func (b *Bundle) read(path string) (string, error) {
	if b.src.Mod != nil {
		text, err := readText(b.src.Mod, path)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return readText(b.src.Game, path)
}

// readText decodes a text dataset, dropping any byte order mark.
func readText(fsys fs.FS, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// listDirs returns the sorted subdirectory names of dir. A missing dir is
// empty.
func listDirs(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
