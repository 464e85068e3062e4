package lookup

import (
	"math"
	"sort"

	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/sheets"
)

// Header is the first row of the lookup sheet.
var Header = []string{"Player 1", "Player 2", "Chemistry"}

const (
	columns     = 3
	columnWidth = 28
)

// SortPairs orders pairs by Player1 then Player2.
func SortPairs(pairs []chemistry.Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Player1 != pairs[j].Player1 {
			return pairs[i].Player1 < pairs[j].Player1
		}
		return pairs[i].Player2 < pairs[j].Player2
	})
}

// Rows renders sorted pairs as sheet rows, without the header.
func Rows(pairs []chemistry.Pair) [][]any {
	sorted := append([]chemistry.Pair(nil), pairs...)
	SortPairs(sorted)
	out := make([][]any, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, []any{p.Player1, p.Player2, p.Chemistry})
	}
	return out
}

// WriteTable replaces the lookup sheet contents with pairs. Old data rows are
// cleared first, so writing the same pairs twice leaves the same table.
func WriteTable(store sheets.Store, sheet string, pairs []chemistry.Pair, th chemistry.Thresholds) error {
	created, err := store.EnsureSheet(sheet)
	if err != nil {
		return err
	}
	if !created {
		if err := store.ClearRows(sheet, 2, columns); err != nil {
			return err
		}
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := store.WriteRows(sheet, 1, [][]any{header}); err != nil {
		return err
	}
	if err := store.StyleHeader(sheet, columns); err != nil {
		return err
	}
	if len(pairs) > 0 {
		if err := store.WriteRows(sheet, 2, Rows(pairs)); err != nil {
			return err
		}
	}
	if err := store.SetColumnWidths(sheet, columns, columnWidth); err != nil {
		return err
	}
	return store.HighlightThresholds(sheet, 2, th.PositiveMin, th.NegativeMax)
}

// ReadTable parses lookup sheet rows (header first). Rows missing a name are
// skipped; values are rounded.
func ReadTable(rows [][]string) []chemistry.Pair {
	if len(rows) < 2 {
		return nil
	}
	out := make([]chemistry.Pair, 0, len(rows)-1)
	for _, row := range rows[1:] {
		p1 := sheets.Cell(row, 0)
		p2 := sheets.Cell(row, 1)
		if p1 == "" || p2 == "" {
			continue
		}
		v, _ := sheets.ParseNumber(sheets.Cell(row, 2))
		out = append(out, chemistry.Pair{Player1: p1, Player2: p2, Chemistry: int(math.Round(v))})
	}
	return out
}
