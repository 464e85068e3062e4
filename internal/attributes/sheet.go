package attributes

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/clbtools/clbtools/internal/sheets"
)

// Attribute sheet columns, in sheet order.
const (
	ColName              = "Name"
	ColCharacterClass    = "Character Class"
	ColCaptain           = "Captain"
	ColMii               = "Mii"
	ColMiiColor          = "Mii Color"
	ColArmSide           = "Arm Side"
	ColBattingSide       = "Batting Side"
	ColWeight            = "Weight"
	ColAbility           = "Ability"
	ColPitchingOverall   = "Pitching Overall"
	ColBattingOverall    = "Batting Overall"
	ColFieldingOverall   = "Fielding Overall"
	ColSpeedOverall      = "Speed Overall"
	ColStarSwing         = "Star Swing"
	ColHitCurve          = "Hit Curve"
	ColHittingTrajectory = "Hitting Trajectory"
	ColSlapContact       = "Slap Hit Contact"
	ColChargeContact     = "Charge Hit Contact"
	ColSlapPower         = "Slap Hit Power"
	ColChargePower       = "Charge Hit Power"
	ColSpeed             = "Speed"
	ColBunting           = "Bunting"
	ColFielding          = "Fielding"
	ColThrowingSpeed     = "Throwing Speed"
	ColPreCharge         = "Pre-Charge"
	ColStarPitch         = "Star Pitch"
	ColFastballSpeed     = "Fastball Speed"
	ColCurveballSpeed    = "Curveball Speed"
	ColCurve             = "Curve"
	ColStamina           = "Stamina"
)

var Header = []string{
	ColName, ColCharacterClass, ColCaptain, ColMii, ColMiiColor, ColArmSide, ColBattingSide, ColWeight,
	ColAbility, ColPitchingOverall, ColBattingOverall, ColFieldingOverall, ColSpeedOverall,
	ColStarSwing, ColHitCurve, ColHittingTrajectory, ColSlapContact, ColChargeContact,
	ColSlapPower, ColChargePower, ColSpeed, ColBunting, ColFielding, ColThrowingSpeed,
	ColPreCharge, ColStarPitch, ColFastballSpeed, ColCurveballSpeed, ColCurve, ColStamina,
}

// Row renders p in Header order.
func Row(p Player) []any {
	captain := "No"
	if p.Captain {
		captain = "Yes"
	}
	return []any{
		p.Name, p.Class.String(), captain, p.Mii, p.MiiColor, p.ArmSide.String(), p.BattingSide.String(), p.Weight,
		p.Ability.String(), p.PitchingOverall, p.BattingOverall, p.FieldingOverall, p.SpeedOverall,
		p.StarSwing.String(), p.HitCurve, p.HittingTrajectory, p.SlapContact, p.ChargeContact,
		p.SlapPower, p.ChargePower, p.Speed, p.Bunting, p.Fielding, p.ThrowingSpeed,
		p.PreCharge, p.StarPitch.String(), p.FastballSpeed, p.CurveballSpeed, p.Curve, p.Stamina,
	}
}

// ParseRows reads attribute rows (header first). Columns are located by
// header name; a missing column leaves its field at the zero value. Unknown
// labels are logged and skipped.
func ParseRows(rows [][]string) []Player {
	if len(rows) < 2 {
		return nil
	}
	colIndex := map[string]int{}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := colIndex[h]; h != "" && !dup {
			colIndex[h] = i
		}
	}

	out := make([]Player, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := rowReader{row: row, cols: colIndex}
		name := r.str(ColName)
		if name == "" {
			continue
		}
		p := Player{
			Name:              name,
			Captain:           strings.EqualFold(r.str(ColCaptain), "Yes"),
			Mii:               r.str(ColMii),
			MiiColor:          r.str(ColMiiColor),
			Weight:            r.num(ColWeight),
			PitchingOverall:   r.num(ColPitchingOverall),
			BattingOverall:    r.num(ColBattingOverall),
			FieldingOverall:   r.num(ColFieldingOverall),
			SpeedOverall:      r.num(ColSpeedOverall),
			HitCurve:          r.num(ColHitCurve),
			HittingTrajectory: r.num(ColHittingTrajectory),
			SlapContact:       r.num(ColSlapContact),
			ChargeContact:     r.num(ColChargeContact),
			SlapPower:         r.num(ColSlapPower),
			ChargePower:       r.num(ColChargePower),
			Speed:             r.num(ColSpeed),
			Bunting:           r.num(ColBunting),
			Fielding:          r.num(ColFielding),
			ThrowingSpeed:     r.num(ColThrowingSpeed),
			PreCharge:         r.str(ColPreCharge),
			FastballSpeed:     r.num(ColFastballSpeed),
			CurveballSpeed:    r.num(ColCurveballSpeed),
			Curve:             r.num(ColCurve),
			Stamina:           r.num(ColStamina),
		}

		if v := r.str(ColCharacterClass); v != "" {
			if c, ok := ParseCharacterClass(v); ok {
				p.Class = c
			} else {
				log.Printf("attributes: %s: unknown character class %q", name, v)
			}
		}
		if v := r.str(ColArmSide); v != "" {
			if s, ok := ParseSide(v); ok {
				p.ArmSide = s
			} else {
				log.Printf("attributes: %s: unknown arm side %q", name, v)
			}
		}
		if v := r.str(ColBattingSide); v != "" {
			if s, ok := ParseSide(v); ok {
				p.BattingSide = s
			} else {
				log.Printf("attributes: %s: unknown batting side %q", name, v)
			}
		}
		if v := r.str(ColStarSwing); v != "" {
			if s, ok := ParseStarSwing(v); ok {
				p.StarSwing = s
			} else {
				log.Printf("attributes: %s: unknown star swing %q", name, v)
			}
		}
		if a, ok := ParseAbility(r.str(ColAbility)); ok {
			p.Ability = a
		} else {
			log.Printf("attributes: %s: unknown ability %q", name, r.str(ColAbility))
		}
		if sp, ok := ParseStarPitch(r.str(ColStarPitch)); ok {
			p.StarPitch = sp
		} else {
			log.Printf("attributes: %s: unknown star pitch %q", name, r.str(ColStarPitch))
		}

		out = append(out, p)
	}
	return out
}

type rowReader struct {
	row  []string
	cols map[string]int
}

func (r rowReader) str(col string) string {
	idx, ok := r.cols[col]
	if !ok {
		return ""
	}
	return sheets.Cell(r.row, idx)
}

func (r rowReader) num(col string) int {
	v, ok := sheets.ParseNumber(r.str(col))
	if !ok {
		return 0
	}
	return int(math.Round(v))
}

// Names returns the non-empty names of the attribute sheet in row order.
// It is the master list used by conversion.
func Names(rows [][]string) []string {
	players := ParseRows(rows)
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, p.Name)
	}
	return out
}

// WritePlayers replaces the attribute sheet rows with players. The
// user-maintained Mii, Mii Color and Pre-Charge values of existing rows are
// kept, matched by name.
func WritePlayers(store sheets.Store, sheet string, players []Player) error {
	created, err := store.EnsureSheet(sheet)
	if err != nil {
		return err
	}

	if !created {
		rows, err := store.Rows(sheet)
		if err != nil {
			return err
		}
		existing := map[string]Player{}
		for _, p := range ParseRows(rows) {
			existing[p.Name] = p
		}
		merged := make([]Player, len(players))
		for i, p := range players {
			if old, ok := existing[p.Name]; ok {
				p.Mii, p.MiiColor, p.PreCharge = old.Mii, old.MiiColor, old.PreCharge
			}
			merged[i] = p
		}
		players = merged
		if err := store.ClearRows(sheet, 2, len(Header)); err != nil {
			return err
		}
	}

	out := make([][]any, 0, len(players)+1)
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	out = append(out, header)
	for _, p := range players {
		out = append(out, Row(p))
	}
	if err := store.WriteRows(sheet, 1, out); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	return store.StyleHeader(sheet, len(Header))
}
