package attributes

import (
	"fmt"
	"strings"
)

// nameTable is a bidirectional index <-> display name mapping. Index lookups
// are bounds checked.
type nameTable struct {
	kind  string
	names []string
}

func (t nameTable) name(i int) (string, error) {
	if i < 0 || i >= len(t.names) {
		return "", fmt.Errorf("%s index %d out of range [0,%d)", t.kind, i, len(t.names))
	}
	return t.names[i], nil
}

func (t nameTable) index(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, n := range t.names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

func (t nameTable) mustName(i int) string {
	n, err := t.name(i)
	if err != nil {
		return ""
	}
	return n
}

var (
	classTable       = nameTable{"character class", []string{"Balanced", "Power", "Speed", "Technique"}}
	sideTable        = nameTable{"side", []string{"Right", "Left"}}
	starSwingTable   = nameTable{"star swing", []string{"Standard", "Fire Swing", "Tornado Swing", "Barrel Swing", "Banana Swing", "Heart Swing", "Flower Swing", "Phony Swing", "Liar Swing", "Egg Swing", "Cannon Swing", "Breath Swing", "Graffiti Swing"}}
	fieldingTable    = nameTable{"fielding ability", []string{"None", "Super Dive", "Super Jump", "Tongue Catch", "Suction Catch", "Magical Catch", "Piranha Catch", "Hammer Throw", "Keeper Catch", "Clamber", "Ball Dash", "Laser Beam", "Quick Throw"}}
	baserunningTable = nameTable{"baserunning ability", []string{"None", "Scatter Dive", "Ink Dive", "Angry Attack", "Teleport", "Spin Attack", "Burrow", "Enlarge"}}
	specialTable     = nameTable{"star pitch", []string{"Standard", "Fireball", "Tornado Ball", "Barrel Ball", "Banana Ball", "Heart Ball", "Flower Ball", "Phony Ball", "Liar Ball", "Rainbow Ball", "Suction Ball", "Killer Ball", "Graffiti Ball"}}
	pitchTypeTable   = nameTable{"star pitch type", []string{"None", "Breaking Ball", "Fastball", "Change-Up"}}
)

type CharacterClass int

const (
	ClassBalanced CharacterClass = iota
	ClassPower
	ClassSpeed
	ClassTechnique
)

func CharacterClassFromIndex(i int) (CharacterClass, error) {
	_, err := classTable.name(i)
	return CharacterClass(i), err
}

func ParseCharacterClass(s string) (CharacterClass, bool) {
	i, ok := classTable.index(s)
	return CharacterClass(i), ok
}

func (c CharacterClass) String() string { return classTable.mustName(int(c)) }

// Side is a throwing arm or batting side.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

func SideFromIndex(i int) (Side, error) {
	_, err := sideTable.name(i)
	return Side(i), err
}

func ParseSide(s string) (Side, bool) {
	i, ok := sideTable.index(s)
	return Side(i), ok
}

func (s Side) String() string { return sideTable.mustName(int(s)) }

type StarSwing int

func StarSwingFromIndex(i int) (StarSwing, error) {
	_, err := starSwingTable.name(i)
	return StarSwing(i), err
}

func ParseStarSwing(s string) (StarSwing, bool) {
	i, ok := starSwingTable.index(s)
	return StarSwing(i), ok
}

func (s StarSwing) String() string { return starSwingTable.mustName(int(s)) }

type AbilityKind int

const (
	AbilityNone AbilityKind = iota
	AbilityFielding
	AbilityBaserunning
)

// Ability is either a fielding ability, a baserunning ability, or none. The
// preset format stores it as two indexes of which at most one is nonzero.
type Ability struct {
	Kind  AbilityKind
	Index int
}

// CombineAbility builds the ability from the two preset indexes. A nonzero
// fielding index is checked first.
func CombineAbility(fielding, baserunning int) (Ability, error) {
	if _, err := fieldingTable.name(fielding); err != nil {
		return Ability{}, err
	}
	if _, err := baserunningTable.name(baserunning); err != nil {
		return Ability{}, err
	}
	switch {
	case fielding > 0:
		return Ability{Kind: AbilityFielding, Index: fielding}, nil
	case baserunning > 0:
		return Ability{Kind: AbilityBaserunning, Index: baserunning}, nil
	default:
		return Ability{}, nil
	}
}

// ParseAbility reads a display name. Baserunning names are matched first.
func ParseAbility(s string) (Ability, bool) {
	if i, ok := baserunningTable.index(s); ok && i > 0 {
		return Ability{Kind: AbilityBaserunning, Index: i}, true
	}
	if i, ok := fieldingTable.index(s); ok && i > 0 {
		return Ability{Kind: AbilityFielding, Index: i}, true
	}
	_, isNone := fieldingTable.index(s)
	return Ability{}, isNone || strings.TrimSpace(s) == ""
}

// Split returns the preset's (fielding, baserunning) index pair.
func (a Ability) Split() (fielding, baserunning int) {
	switch a.Kind {
	case AbilityFielding:
		return a.Index, 0
	case AbilityBaserunning:
		return 0, a.Index
	default:
		return 0, 0
	}
}

func (a Ability) String() string {
	switch a.Kind {
	case AbilityFielding:
		return fieldingTable.mustName(a.Index)
	case AbilityBaserunning:
		return baserunningTable.mustName(a.Index)
	default:
		return "None"
	}
}

type StarPitchKind int

const (
	StarPitchNone StarPitchKind = iota
	StarPitchSpecial
	StarPitchType
)

// StarPitch is a special pitch or a plain pitch type.
type StarPitch struct {
	Kind  StarPitchKind
	Index int
}

// CombineStarPitch builds the star pitch from the preset's special-pitch and
// pitch-type indexes. A non-standard special pitch wins.
func CombineStarPitch(special, pitchType int) (StarPitch, error) {
	if _, err := specialTable.name(special); err != nil {
		return StarPitch{}, err
	}
	if _, err := pitchTypeTable.name(pitchType); err != nil {
		return StarPitch{}, err
	}
	switch {
	case special > 0:
		return StarPitch{Kind: StarPitchSpecial, Index: special}, nil
	case pitchType > 0:
		return StarPitch{Kind: StarPitchType, Index: pitchType}, nil
	default:
		return StarPitch{}, nil
	}
}

// ParseStarPitch reads a display name. Special pitches are matched first.
func ParseStarPitch(s string) (StarPitch, bool) {
	if i, ok := specialTable.index(s); ok && i > 0 {
		return StarPitch{Kind: StarPitchSpecial, Index: i}, true
	}
	if i, ok := pitchTypeTable.index(s); ok {
		if i == 0 {
			return StarPitch{}, true
		}
		return StarPitch{Kind: StarPitchType, Index: i}, true
	}
	if _, ok := specialTable.index(s); ok {
		return StarPitch{}, true
	}
	return StarPitch{}, strings.TrimSpace(s) == ""
}

// Split returns the preset's (special, type) index pair.
func (p StarPitch) Split() (special, pitchType int) {
	switch p.Kind {
	case StarPitchSpecial:
		return p.Index, 0
	case StarPitchType:
		return 0, p.Index
	default:
		return 0, 0
	}
}

func (p StarPitch) String() string {
	switch p.Kind {
	case StarPitchSpecial:
		return specialTable.mustName(p.Index)
	case StarPitchType:
		return pitchTypeTable.mustName(p.Index)
	default:
		return "None"
	}
}
