// Package randomize rewrites a game data bundle from a single seeded source.
//
// Every pass draws from the same source, so the order of Stages is part of
// the output: the same seed and options only reproduce a mod when the stages
// run, and draw, in exactly this order.
package randomize

import (
	"fmt"

	"ddrand/internal/curio"
	"ddrand/internal/gamedata"
	"ddrand/internal/options"
	"ddrand/internal/shuffle"
)

// Rules names the game content the passes treat specially.
type Rules struct {
	// ProtectedBossPrefix marks boss layouts that are never moved.
	ProtectedBossPrefix string `yaml:"protected_boss_prefix" json:"protected_boss_prefix"`
	// Shapeshifter always keeps its own slot 0 skill.
	Shapeshifter string `yaml:"shapeshifter" json:"shapeshifter"`
	// ExcludedCurio is held out of rotation unless the options include it.
	ExcludedCurio string `yaml:"excluded_curio" json:"excluded_curio"`
}

func DefaultRules() Rules {
	return Rules{
		ProtectedBossPrefix: "crow",
		Shapeshifter:        "abomination",
		ExcludedCurio:       "shamblers_altar",
	}
}

// WithDefaults fills every empty rule from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.ProtectedBossPrefix == "" {
		r.ProtectedBossPrefix = d.ProtectedBossPrefix
	}
	if r.Shapeshifter == "" {
		r.Shapeshifter = d.Shapeshifter
	}
	if r.ExcludedCurio == "" {
		r.ExcludedCurio = d.ExcludedCurio
	}
	return r
}

// Stage is one named pass. A disabled stage draws nothing.
type Stage struct {
	Name    string
	Enabled func(options.Options) bool
	run     func(*engine) error
}

// Stages is the fixed draw order of a run.
var Stages = []Stage{
	{Name: "curio-columns", Enabled: options.Options.CuriosEnabled, run: (*engine).shuffleCurios},
	{Name: "curio-regions", Enabled: func(o options.Options) bool { return o.CurioRegions }, run: (*engine).rebuildRegions},
	{Name: "enemies", Enabled: func(o options.Options) bool { return o.Monsters }, run: (*engine).shuffleEnemies},
	{Name: "bosses", Enabled: func(o options.Options) bool { return o.Bosses }, run: (*engine).shuffleBosses},
	{Name: "hero-stats", Enabled: func(o options.Options) bool { return o.HeroStatVariance > 0 }, run: (*engine).randomizeHeroStats},
	{Name: "camping-skills", Enabled: func(o options.Options) bool { return o.CampingSkills }, run: (*engine).assignCampingSkills},
	{Name: "hero-skills", Enabled: func(o options.Options) bool { return o.HeroSkills }, run: (*engine).shuffleHeroSkills},
}

// StageReport records what one stage did.
type StageReport struct {
	Name    string
	Skipped bool
	// Draws is the number of source draws the stage consumed.
	Draws int
}

type Result struct {
	Seed   int32
	Stages []StageReport
}

type engine struct {
	src   *shuffle.Source
	opts  options.Options
	rules Rules
	data  *gamedata.Bundle

	// rotation is the curio library after curio-columns, without the held
	// out records; curio-regions builds spawn tables from it.
	rotation []curio.Curio
}

// Run applies every enabled stage to data in order. On error data may hold
// partial edits and must not be written.
func Run(src *shuffle.Source, opts options.Options, rules Rules, data *gamedata.Bundle) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &engine{src: src, opts: opts, rules: rules.WithDefaults(), data: data}

	result := &Result{Seed: src.Seed()}
	for _, stage := range Stages {
		report := StageReport{Name: stage.Name}
		if !stage.Enabled(opts) {
			report.Skipped = true
			result.Stages = append(result.Stages, report)
			continue
		}
		before := src.Draws()
		if err := stage.run(e); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		report.Draws = src.Draws() - before
		result.Stages = append(result.Stages, report)
	}
	return result, nil
}
