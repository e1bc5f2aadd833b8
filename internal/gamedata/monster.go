package gamedata

import (
	"strconv"

	"ddrand/internal/darkest"
	"ddrand/internal/fault"
)

// Monster is the reference data used to bucket enemies.
type Monster struct {
	Name        string
	Size        int
	EnemyTypeID string
	HP          int
}

// MonsterFromDocument reads a monster's info file.
func MonsterFromDocument(name string, doc *darkest.Document) (Monster, error) {
	m := Monster{Name: name}

	display, err := doc.First("display")
	if err != nil {
		return m, err
	}
	if m.Size, err = strconv.Atoi(display.Value("size")); err != nil {
		return m, fault.CorruptWrap(err, "monster %s size", name)
	}

	enemyType, err := doc.First("enemy_type")
	if err != nil {
		return m, err
	}
	m.EnemyTypeID = darkest.Unquote(enemyType.Value("id"))

	stats, err := doc.First("stats")
	if err != nil {
		return m, err
	}
	if m.HP, err = strconv.Atoi(stats.Value("hp")); err != nil {
		return m, fault.CorruptWrap(err, "monster %s hp", name)
	}
	return m, nil
}
