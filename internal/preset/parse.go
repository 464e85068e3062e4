package preset

import (
	"strconv"
	"strings"

	"github.com/clbtools/clbtools/internal/attributes"
)

// Parse reads a whole preset. Every section is validated before Parse
// returns, so a caller that persists only on success never writes a partial
// import. Lines past TotalLines are ignored.
func Parse(text string) (*Preset, error) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if len(lines) < TotalLines {
		return nil, &ParseError{Section: SectionFile, Expected: TotalLines, Actual: len(lines)}
	}

	p := &Preset{}
	for i := 0; i < ChemistryRows; i++ {
		n := chemistryStart + i
		vals, err := parseInts(SectionChemistry, n, lines[n], ChemistryRows)
		if err != nil {
			return nil, err
		}
		for j, v := range vals {
			if v != ValueNegative && v != ValueNeutral && v != ValuePositive {
				return nil, &ParseError{
					Section: SectionChemistry, Line: n + 1,
					Token: strconv.Itoa(v), Reason: "chemistry value must be 0, 1 or 2",
				}
			}
			p.Chemistry[i][j] = v
		}
	}

	for i := 0; i < AttributeRows; i++ {
		n := attributesStart + i
		vals, err := parseInts(SectionAttributes, n, lines[n], AttributeColumns)
		if err != nil {
			return nil, err
		}
		copy(p.Attributes[i][:], vals)
		if _, err := DecodeAttributes(p.Attributes[i]); err != nil {
			return nil, &ParseError{Section: SectionAttributes, Line: n + 1, Token: lines[n], Reason: err.Error()}
		}
	}

	t, err := parseTrajectory(lines[trajectoryStart : trajectoryStart+TrajectoryLines])
	if err != nil {
		return nil, err
	}
	p.Trajectory = t
	return p, nil
}

func parseTrajectory(lines []string) (Trajectory, error) {
	var t Trajectory
	for i := 0; i < TrajectoryRows; i++ {
		n := trajectoryStart + i
		vals, err := parseInts(SectionTrajectory, n, lines[i], TrajectoryColumns)
		if err != nil {
			return t, err
		}
		copy(t.Matrix[i][:], vals)
	}

	names := strings.Split(lines[TrajectoryRows], ",")
	if len(names) != TrajectorySlots {
		return t, &ParseError{Section: SectionTrajectory, Line: trajectoryStart + TrajectoryRows + 1, Expected: TrajectorySlots, Actual: len(names)}
	}
	for i, name := range names {
		t.Names[i] = strings.TrimSpace(name)
	}

	n := trajectoryStart + TrajectoryRows + 1
	usage, err := parseInts(SectionTrajectory, n, lines[TrajectoryRows+1], TrajectorySlots)
	if err != nil {
		return t, err
	}
	copy(t.Usage[:], usage)

	t.Lines = append([]string(nil), lines...)
	return t, nil
}

// parseInts splits one line into exactly want integers. n is the 0-based
// line index.
func parseInts(section string, n int, line string, want int) ([]int, error) {
	tokens := strings.Split(line, ",")
	if len(tokens) != want {
		return nil, &ParseError{Section: section, Line: n + 1, Expected: want, Actual: len(tokens)}
	}
	out := make([]int, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, &ParseError{Section: section, Line: n + 1, Token: tok, Reason: "not an integer"}
		}
		out[i] = v
	}
	return out, nil
}

// Positions of the attribute values inside an AttributeRow.
const (
	idxArmSide           = 0
	idxBattingSide       = 1
	idxClass             = 2
	idxUnused3           = 3
	idxWeight            = 4
	idxCaptain           = 5
	idxStarPitch         = 6
	idxStarSwing         = 7
	idxFieldingAbility   = 8
	idxBaserunning       = 9
	idxSlapContact       = 10
	idxChargeContact     = 11
	idxSlapPower         = 12
	idxChargePower       = 13
	idxBunting           = 14
	idxSpeed             = 15
	idxThrowingSpeed     = 16
	idxFielding          = 17
	idxPitchingOverall   = 18
	idxBattingOverall    = 19
	idxFieldingOverall   = 20
	idxSpeedOverall      = 21
	idxCurveballSpeed    = 22
	idxFastballSpeed     = 23
	idxCurve             = 24
	idxUnused25          = 25
	idxHittingTrajectory = 26
	idxHitCurve          = 27
	idxStamina           = 28
	idxStarPitchType     = 29
)

// DecodeAttributes maps a raw row onto a player. The name and the
// user-maintained columns are left empty.
func DecodeAttributes(row AttributeRow) (attributes.Player, error) {
	var p attributes.Player
	var err error

	if p.ArmSide, err = attributes.SideFromIndex(row[idxArmSide]); err != nil {
		return p, err
	}
	if p.BattingSide, err = attributes.SideFromIndex(row[idxBattingSide]); err != nil {
		return p, err
	}
	if p.Class, err = attributes.CharacterClassFromIndex(row[idxClass]); err != nil {
		return p, err
	}
	if p.StarSwing, err = attributes.StarSwingFromIndex(row[idxStarSwing]); err != nil {
		return p, err
	}
	if p.Ability, err = attributes.CombineAbility(row[idxFieldingAbility], row[idxBaserunning]); err != nil {
		return p, err
	}
	if p.StarPitch, err = attributes.CombineStarPitch(row[idxStarPitch], row[idxStarPitchType]); err != nil {
		return p, err
	}

	p.Captain = row[idxCaptain] == 1
	p.Weight = row[idxWeight]
	p.SlapContact = row[idxSlapContact]
	p.ChargeContact = row[idxChargeContact]
	p.SlapPower = row[idxSlapPower]
	p.ChargePower = row[idxChargePower]
	p.Bunting = row[idxBunting]
	p.Speed = row[idxSpeed]
	p.ThrowingSpeed = row[idxThrowingSpeed]
	p.Fielding = row[idxFielding]
	p.PitchingOverall = row[idxPitchingOverall]
	p.BattingOverall = row[idxBattingOverall]
	p.FieldingOverall = row[idxFieldingOverall]
	p.SpeedOverall = row[idxSpeedOverall]
	p.CurveballSpeed = row[idxCurveballSpeed]
	p.FastballSpeed = row[idxFastballSpeed]
	p.Curve = row[idxCurve]
	p.HittingTrajectory = row[idxHittingTrajectory]
	p.HitCurve = row[idxHitCurve]
	p.Stamina = row[idxStamina]
	return p, nil
}

// EncodeAttributes is the inverse of DecodeAttributes. The two unused
// positions are written as 0.
func EncodeAttributes(p attributes.Player) AttributeRow {
	var row AttributeRow
	row[idxArmSide] = int(p.ArmSide)
	row[idxBattingSide] = int(p.BattingSide)
	row[idxClass] = int(p.Class)
	row[idxUnused3] = 0
	row[idxWeight] = p.Weight
	if p.Captain {
		row[idxCaptain] = 1
	}
	row[idxStarPitch], row[idxStarPitchType] = p.StarPitch.Split()
	row[idxStarSwing] = int(p.StarSwing)
	row[idxFieldingAbility], row[idxBaserunning] = p.Ability.Split()
	row[idxSlapContact] = p.SlapContact
	row[idxChargeContact] = p.ChargeContact
	row[idxSlapPower] = p.SlapPower
	row[idxChargePower] = p.ChargePower
	row[idxBunting] = p.Bunting
	row[idxSpeed] = p.Speed
	row[idxThrowingSpeed] = p.ThrowingSpeed
	row[idxFielding] = p.Fielding
	row[idxPitchingOverall] = p.PitchingOverall
	row[idxBattingOverall] = p.BattingOverall
	row[idxFieldingOverall] = p.FieldingOverall
	row[idxSpeedOverall] = p.SpeedOverall
	row[idxCurveballSpeed] = p.CurveballSpeed
	row[idxFastballSpeed] = p.FastballSpeed
	row[idxCurve] = p.Curve
	row[idxUnused25] = 0
	row[idxHittingTrajectory] = p.HittingTrajectory
	row[idxHitCurve] = p.HitCurve
	row[idxStamina] = p.Stamina
	return row
}
