package randomize

import (
	"fmt"

	"ddrand/internal/fault"
	"ddrand/internal/gamedata"
)

const (
	campingSkillsPerHero = 7
	campingLayoutType    = "camping_trainer_class_specific_skill_grid_layout"
)

// assignCampingSkills gives every hero campingSkillsPerHero distinct camping
// skills and widens the trainer grid so the class specific skills fit.
func (e *engine) assignCampingSkills() error {
	doc, err := e.data.JSON(gamedata.CampingSkillsPath)
	if err != nil {
		return err
	}
	count := doc.Len("skills")
	if count < campingSkillsPerHero {
		return fault.Corrupt("%s: need at least %d skills, got %d", gamedata.CampingSkillsPath, campingSkillsPerHero, count)
	}
	if doc, err = doc.Set("configuration.class_specific_number_of_classes_threshold", 100); err != nil {
		return err
	}

	layout, err := e.data.Darkest(gamedata.CampingLayoutPath)
	if err != nil {
		return err
	}
	layout, err = layout.Replace(campingLayoutType, "skill_spacing", func(value string, _, token int) (string, error) {
		if token == 1 {
			return "170", nil
		}
		return value, nil
	})
	if err != nil {
		return err
	}
	e.data.SetDarkest(gamedata.CampingLayoutPath, layout)

	for i := 0; i < count; i++ {
		if doc, err = doc.Set(classesPath(i), []string{}); err != nil {
			return err
		}
	}
	for _, hero := range e.data.Heroes() {
		chosen := map[int]bool{}
		var picks []int
		for len(picks) < campingSkillsPerHero {
			k := e.src.Next(count)
			if !chosen[k] {
				chosen[k] = true
				picks = append(picks, k)
			}
		}
		for _, k := range picks {
			if doc, err = doc.Append(classesPath(k), hero); err != nil {
				return err
			}
		}
	}
	e.data.SetJSON(gamedata.CampingSkillsPath, doc)
	return nil
}

func classesPath(skill int) string {
	return fmt.Sprintf("skills.%d.hero_classes", skill)
}
