package randomize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ddrand/internal/darkest"
	"ddrand/internal/fault"
	"ddrand/internal/gamedata"
)

const baseResistance = 40

var resistances = []string{"stun", "poison", "bleed", "disease", "move", "debuff", "trap"}

// randomizeHeroStats scales each hero's resistances and battle stats by
// balanced modifiers. Weapon and armour modifiers apply to every level.
func (e *engine) randomizeHeroStats() error {
	factor := e.opts.StatVarianceFactor()
	for _, hero := range e.data.Heroes() {
		res := e.balancedModifiers(len(resistances), factor)
		battle := e.balancedModifiers(5, factor)

		path := gamedata.HeroInfoPath(hero)
		doc, err := e.data.Darkest(path)
		if err != nil {
			return err
		}
		for i, name := range resistances {
			value := fmt.Sprintf("%d%%", int(math.RoundToEven(res[i]*baseResistance)))
			if doc, err = doc.Set("resistances", name, value); err != nil {
				return fmt.Errorf("%s: %w", hero, err)
			}
		}

		scales := []struct {
			typ, prop string
			fn        darkest.ReplaceFunc
		}{
			{"weapon", "dmg", scaleInt(battle[0])},
			{"weapon", "crit", scalePercent(battle[1], 0)},
			{"weapon", "spd", scaleInt(battle[2])},
			{"armour", "def", scalePercent(battle[3], 1)},
			{"armour", "hp", scaleInt(battle[4])},
		}
		for _, s := range scales {
			if doc, err = doc.Replace(s.typ, s.prop, s.fn); err != nil {
				return fmt.Errorf("%s: %w", hero, err)
			}
		}
		e.data.SetDarkest(path, doc)
	}
	return nil
}

// balancedModifiers draws n values in [0, factor) and shifts them so their
// mean is 1.
func (e *engine) balancedModifiers(n int, factor float64) []float64 {
	values := make([]float64, n)
	mean := 0.0
	for i := range values {
		values[i] = e.src.Float64() * factor
		mean += values[i]
	}
	mean /= float64(n)
	for i := range values {
		values[i] = values[i] - mean + 1
	}
	return values
}

func scaleInt(m float64) darkest.ReplaceFunc {
	return func(value string, _, _ int) (string, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fault.CorruptWrap(err, "stat %q", value)
		}
		return strconv.Itoa(int(math.RoundToEven(float64(n) * m))), nil
	}
}

// scalePercent scales a "12%" or "12.5%" token, rounding to digits decimals.
func scalePercent(m float64, digits int) darkest.ReplaceFunc {
	pow := math.Pow(10, float64(digits))
	return func(value string, _, _ int) (string, error) {
		n, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil {
			return "", fault.CorruptWrap(err, "stat %q", value)
		}
		scaled := math.RoundToEven(n*m*pow) / pow
		return strconv.FormatFloat(scaled, 'f', -1, 64) + "%", nil
	}
}
