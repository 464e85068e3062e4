package chemistry

import (
	"math"

	"github.com/clbtools/clbtools/internal/roster"
	"github.com/clbtools/clbtools/internal/sheets"
)

// Mii color sheet header.
var MiiColorHeader = []string{"Mii Color", "Character Variant", "Chemistry"}

// ApplyMiiColorChemistry appends one pair per (Mii of the mapping's color,
// variant) that is not already in pairs. Existing values are never replaced.
func ApplyMiiColorChemistry(pairs []Pair, mappings []MiiColorMapping, allNames []string) []Pair {
	if len(mappings) == 0 {
		return pairs
	}

	miisByColor := map[string][]string{}
	for _, name := range allNames {
		if !roster.IsMiiCharacter(name) {
			continue
		}
		if color, ok := roster.ExtractMiiColor(name); ok && color != "" {
			miisByColor[color] = append(miisByColor[color], name)
		}
	}

	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		seen[p.Key()] = struct{}{}
	}

	out := append(make([]Pair, 0, len(pairs)), pairs...)
	for _, m := range mappings {
		for _, mii := range miisByColor[m.MiiColor] {
			if mii == m.CharacterVariant {
				continue
			}
			key := PairKey(mii, m.CharacterVariant)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, NewPair(mii, m.CharacterVariant, m.Chemistry))
		}
	}
	return out
}

// ReadMiiColorMappings parses the Mii color sheet rows (header first). Rows
// without a color or variant are dropped; a non-numeric value counts as 0.
func ReadMiiColorMappings(rows [][]string) []MiiColorMapping {
	if len(rows) < 2 {
		return nil
	}
	var out []MiiColorMapping
	for _, row := range rows[1:] {
		color := sheets.Cell(row, 0)
		variant := sheets.Cell(row, 1)
		if color == "" || variant == "" {
			continue
		}
		v, _ := sheets.ParseNumber(sheets.Cell(row, 2))
		out = append(out, MiiColorMapping{MiiColor: color, CharacterVariant: variant, Chemistry: int(math.Round(v))})
	}
	return out
}

// EnsureMiiColorSheet creates the Mii color sheet with its header when missing.
func EnsureMiiColorSheet(store sheets.Store, sheet string) (bool, error) {
	created, err := store.EnsureSheet(sheet)
	if err != nil || !created {
		return created, err
	}
	header := make([]any, len(MiiColorHeader))
	for i, h := range MiiColorHeader {
		header[i] = h
	}
	if err := store.WriteRows(sheet, 1, [][]any{header}); err != nil {
		return true, err
	}
	return true, store.StyleHeader(sheet, len(header))
}
