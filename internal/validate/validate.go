package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"ddrand/internal/curio"
	"ddrand/internal/darkest"
	"ddrand/internal/gamedata"
	"ddrand/internal/randomize"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDuplicateID         = "duplicate_curio_id"
	codeInvalidID           = "invalid_curio_id"
	codeDuplicateIDString   = "duplicate_curio_id_string"
	codeNegativeWeight      = "negative_weight"
	codeTooManyInteractions = "too_many_interactions"
	codeUnknownCurio        = "unknown_spawn_curio"
	codeChanceOutOfRange    = "chance_out_of_range"
	codeUnknownMonster      = "unknown_monster"
	codeProtectedBoss       = "protected_boss_changed"
)

const (
	minChance = 1
	maxChance = 10
)

var spawnTables = []string{"hall_curios", "room_curios", "room_treasures"}

var mashSets = []string{"hall", "room", "stall", "boss"}

// Issue is one finding. Layer names the dataset kind, Entity the curio,
// monster or entry at fault and FilePath its game-relative path.
type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Layer    string
	Entity   string
	FilePath string
}

type Report struct {
	Issues []Issue
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	return r.bySeverity(SeverityError)
}

func (r *Report) Warnings() []Issue {
	return r.bySeverity(SeverityWarn)
}

func (r *Report) bySeverity(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Run checks the modded datasets for records the game would reject and for
// changes the randomizer never makes. vanilla reads the game files only.
func Run(vanilla, modded *gamedata.Bundle, rules randomize.Rules) (*Report, error) {
	if vanilla == nil || modded == nil {
		return nil, fmt.Errorf("vanilla and modded data are required")
	}
	rules = rules.WithDefaults()

	issues := make([]Issue, 0)

	lib, err := modded.Curios()
	if err != nil {
		return nil, fmt.Errorf("loading curios: %w", err)
	}
	issues = append(issues, validateCurios(lib)...)

	for _, dungeon := range gamedata.PropsDungeons {
		path := gamedata.RegionPropsPath(dungeon)
		doc, err := modded.Darkest(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		issues = append(issues, validateSpawnTables(path, doc, lib)...)
	}

	for _, level := range gamedata.MashLevels {
		for _, dungeon := range gamedata.Dungeons {
			path := gamedata.MashPath(dungeon, level)
			doc, err := modded.Darkest(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("loading %s: %w", path, err)
			}
			issues = append(issues, validateMash(path, doc, vanilla)...)

			original, err := vanilla.Darkest(path)
			if err != nil {
				return nil, fmt.Errorf("loading vanilla %s: %w", path, err)
			}
			issues = append(issues, validateProtectedBosses(path, original, doc, rules.ProtectedBossPrefix)...)
		}
	}

	return &Report{Issues: issues}, nil
}

func validateCurios(lib *curio.Library) []Issue {
	var issues []Issue
	ids := map[int]bool{}
	idStrings := map[string]bool{}

	for _, c := range lib.Curios {
		issue := func(severity Severity, code, message string) Issue {
			return Issue{
				Severity: severity,
				Code:     code,
				Message:  message,
				Layer:    "curios",
				Entity:   c.IDString,
				FilePath: gamedata.CurioLibraryPath,
			}
		}

		if c.ID <= 0 {
			issues = append(issues, issue(SeverityError, codeInvalidID, fmt.Sprintf("curio id must be positive, got %d", c.ID)))
		} else if ids[c.ID] {
			issues = append(issues, issue(SeverityError, codeDuplicateID, fmt.Sprintf("curio id %d used more than once", c.ID)))
		}
		ids[c.ID] = true

		if idStrings[c.IDString] {
			issues = append(issues, issue(SeverityError, codeDuplicateIDString, "curio id string used more than once"))
		}
		idStrings[c.IDString] = true

		for slot, effect := range c.Effects {
			if effect.Weight < 0 {
				issues = append(issues, issue(SeverityError, codeNegativeWeight,
					fmt.Sprintf("%s weight is %d", curio.Slot(slot), effect.Weight)))
			}
			for i, result := range effect.Results {
				if result.Weight < 0 {
					issues = append(issues, issue(SeverityError, codeNegativeWeight,
						fmt.Sprintf("%s result %d weight is %d", curio.Slot(slot), i+1, result.Weight)))
				}
			}
		}

		if len(c.Interactions) > curio.MaxInteractions {
			issues = append(issues, issue(SeverityWarn, codeTooManyInteractions,
				fmt.Sprintf("%d item interactions, only %d are written", len(c.Interactions), curio.MaxInteractions)))
		}
	}
	return issues
}

func validateSpawnTables(path string, doc *darkest.Document, lib *curio.Library) []Issue {
	var issues []Issue
	for _, table := range spawnTables {
		if !doc.Has(table) {
			continue
		}
		entries, _ := doc.Entries(table)
		for _, entry := range entries {
			id := entry.Value("types")
			if _, ok := lib.Find(id); !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeUnknownCurio,
					Message:  fmt.Sprintf("%s references an unknown curio", table),
					Layer:    "props",
					Entity:   id,
					FilePath: path,
				})
			}
			chance, err := strconv.Atoi(entry.Value("chance"))
			if err != nil || chance < minChance || chance > maxChance {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeChanceOutOfRange,
					Message:  fmt.Sprintf("%s chance %q outside %d-%d", table, entry.Value("chance"), minChance, maxChance),
					Layer:    "props",
					Entity:   id,
					FilePath: path,
				})
			}
		}
	}
	return issues
}

func validateMash(path string, doc *darkest.Document, vanilla *gamedata.Bundle) []Issue {
	var issues []Issue
	reported := map[string]bool{}
	for _, set := range mashSets {
		if !doc.Has(set) {
			continue
		}
		entries, _ := doc.Entries(set)
		for _, entry := range entries {
			types, _ := entry.Property("types")
			for _, name := range types {
				if _, ok := vanilla.Monster(name); ok || reported[name] {
					continue
				}
				reported[name] = true
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeUnknownMonster,
					Message:  fmt.Sprintf("%s enemy missing from the monster table", set),
					Layer:    "mash",
					Entity:   name,
					FilePath: path,
				})
			}
		}
	}
	return issues
}

// validateProtectedBosses compares boss entries position by position; every
// vanilla layout holding a protected monster must be untouched.
func validateProtectedBosses(path string, original, modded *darkest.Document, prefix string) []Issue {
	if !original.Has("boss") {
		return nil
	}
	before, _ := original.Entries("boss")
	var after []darkest.Entry
	if modded.Has("boss") {
		after, _ = modded.Entries("boss")
	}

	var issues []Issue
	for i, entry := range before {
		types, _ := entry.Property("types")
		if !slices.ContainsFunc(types, func(name string) bool { return strings.HasPrefix(name, prefix) }) {
			continue
		}
		var now []string
		if i < len(after) {
			now, _ = after[i].Property("types")
		}
		if !slices.Equal(types, now) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeProtectedBoss,
				Message:  fmt.Sprintf("boss layout %d changed from %s to %s", i, strings.Join(types, " "), strings.Join(now, " ")),
				Layer:    "bosses",
				Entity:   strings.Join(types, " "),
				FilePath: path,
			})
		}
	}
	return issues
}
