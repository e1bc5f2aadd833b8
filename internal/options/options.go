// Package options holds the randomization switches shared by the config
// file, the tag codec and the randomizer.
package options

import "fmt"

// MaxStatVariance is the largest hero stat variance level the tag can carry.
const MaxStatVariance = 7

type Options struct {
	CurioEffects         bool `yaml:"curio_effects" json:"curio_effects"`
	CurioInteractions    bool `yaml:"curio_interactions" json:"curio_interactions"`
	CurioRegions         bool `yaml:"curio_regions" json:"curio_regions"`
	IncludeExcludedCurio bool `yaml:"include_excluded_curio" json:"include_excluded_curio"`
	IncludeStoryCurios   bool `yaml:"include_story_curios" json:"include_story_curios"`
	Monsters             bool `yaml:"monsters" json:"monsters"`
	Bosses               bool `yaml:"bosses" json:"bosses"`
	CampingSkills        bool `yaml:"camping_skills" json:"camping_skills"`
	HeroSkills           bool `yaml:"hero_skills" json:"hero_skills"`
	// HeroStatVariance is a level in [0, MaxStatVariance]; 0 leaves stats alone.
	HeroStatVariance int `yaml:"hero_stat_variance" json:"hero_stat_variance"`
}

// Default enables every pass, keeps the excluded curio out of rotation and
// uses a stat variance factor of 1.
func Default() Options {
	return Options{
		CurioEffects:       true,
		CurioInteractions:  true,
		CurioRegions:       true,
		IncludeStoryCurios: true,
		Monsters:           true,
		Bosses:             true,
		CampingSkills:      true,
		HeroSkills:         true,
		HeroStatVariance:   4,
	}
}

func (o Options) Validate() error {
	if o.HeroStatVariance < 0 || o.HeroStatVariance > MaxStatVariance {
		return fmt.Errorf("hero_stat_variance must be between 0 and %d, got %d", MaxStatVariance, o.HeroStatVariance)
	}
	return nil
}

// StatVarianceFactor is the multiplier fed to the balanced modifier roll.
func (o Options) StatVarianceFactor() float64 {
	return float64(o.HeroStatVariance) / 4
}

// CuriosEnabled reports whether any curio column is shuffled.
func (o Options) CuriosEnabled() bool {
	return o.CurioEffects || o.CurioInteractions || o.CurioRegions
}
