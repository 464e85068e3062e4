package chemistry

import (
	"math"

	"github.com/clbtools/clbtools/internal/sheets"
)

// ReadMatrix turns the sparse chemistry matrix sheet into pairs. Row 1 holds
// names from column B on, column A holds names from row 2 on. Only the
// Player1 <= Player2 half is read and zero or non-numeric cells are skipped.
func ReadMatrix(rows [][]string) []Pair {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	if len(header) < 2 {
		return nil
	}

	var pairs []Pair
	for _, row := range rows[1:] {
		player1 := sheets.Cell(row, 0)
		if player1 == "" {
			continue
		}
		for j := 1; j < len(row); j++ {
			player2 := sheets.Cell(header, j)
			if player2 == "" {
				continue
			}
			v, ok := sheets.ParseNumber(row[j])
			if !ok || v == 0 {
				continue
			}
			if player1 <= player2 {
				pairs = append(pairs, Pair{Player1: player1, Player2: player2, Chemistry: int(math.Round(v))})
			}
		}
	}
	return pairs
}
