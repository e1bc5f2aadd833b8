// Package tag packs a run's options and seed into a short identifier that
// reproduces the run.
//
// A tag is hex(options) with leading zeros dropped, followed by the seed as
// exactly eight hex digits of its two's complement. Option bits, from bit 0:
//
//	0     curio effects
//	1     curio interactions
//	2     curio regions
//	3     include excluded curio
//	4     include story curios
//	5     monsters
//	6     bosses
//	7     camping skills
//	8     hero skills
//	9-11  hero stat variance level
package tag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ddrand/internal/options"
)

const (
	seedWidth     = 8
	varianceShift = 9
	varianceMask  = 0x7
	knownBits     = 1<<(varianceShift+3) - 1
)

var (
	ErrInvalidTag      = errors.New("invalid tag")
	ErrIncompatibleTag = errors.New("tag uses options this version does not know")
)

func flags(o *options.Options) []*bool {
	return []*bool{
		&o.CurioEffects,
		&o.CurioInteractions,
		&o.CurioRegions,
		&o.IncludeExcludedCurio,
		&o.IncludeStoryCurios,
		&o.Monsters,
		&o.Bosses,
		&o.CampingSkills,
		&o.HeroSkills,
	}
}

// Pack returns the option bit field.
func Pack(o options.Options) (uint64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	var bits uint64
	for i, flag := range flags(&o) {
		if *flag {
			bits |= 1 << i
		}
	}
	bits |= uint64(o.HeroStatVariance&varianceMask) << varianceShift
	return bits, nil
}

func Unpack(bits uint64) (options.Options, error) {
	if bits&^knownBits != 0 {
		return options.Options{}, fmt.Errorf("%w: bits %#x", ErrIncompatibleTag, bits&^knownBits)
	}
	var o options.Options
	for i, flag := range flags(&o) {
		*flag = bits&(1<<i) != 0
	}
	o.HeroStatVariance = int(bits>>varianceShift) & varianceMask
	return o, nil
}

func Encode(o options.Options, seed int32) (string, error) {
	bits, err := Pack(o)
	if err != nil {
		return "", err
	}
	prefix := strings.TrimLeft(strconv.FormatUint(bits, 16), "0")
	return fmt.Sprintf("%s%0*x", prefix, seedWidth, uint32(seed)), nil
}

func Decode(tag string) (options.Options, int32, error) {
	tag = strings.TrimSpace(tag)
	if len(tag) < seedWidth {
		return options.Options{}, 0, fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidTag, tag, seedWidth)
	}
	split := len(tag) - seedWidth

	seed, err := strconv.ParseUint(tag[split:], 16, 32)
	if err != nil {
		return options.Options{}, 0, fmt.Errorf("%w: seed field %q", ErrInvalidTag, tag[split:])
	}

	var bits uint64
	if split > 0 {
		bits, err = strconv.ParseUint(tag[:split], 16, 64)
		if err != nil {
			return options.Options{}, 0, fmt.Errorf("%w: options field %q", ErrInvalidTag, tag[:split])
		}
	}

	o, err := Unpack(bits)
	if err != nil {
		return options.Options{}, 0, err
	}
	return o, int32(uint32(seed)), nil
}
