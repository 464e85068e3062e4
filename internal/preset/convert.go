package preset

import (
	"strconv"
	"strings"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/roster"
)

// ChemistryPairs turns the upper triangle of m into stored pairs: 0 becomes
// th.NegativeMax, 2 becomes th.PositiveMin and neutral cells are dropped.
func ChemistryPairs(m Matrix, r *roster.Resolver, th chemistry.Thresholds) []chemistry.Pair {
	var out []chemistry.Pair
	for i := 0; i < ChemistryRows; i++ {
		for j := i + 1; j < ChemistryRows; j++ {
			var v int
			switch m[i][j] {
			case ValueNegative:
				v = th.NegativeMax
			case ValuePositive:
				v = th.PositiveMin
			default:
				continue
			}
			out = append(out, chemistry.NewPair(r.DisplayName(i), r.DisplayName(j), v))
		}
	}
	return out
}

// ChemistryMatrix classifies stored pairs back into preset values. Cells
// default to neutral and both halves are set. Pairs naming an unknown
// character are counted in skipped.
func ChemistryMatrix(pairs []chemistry.Pair, r *roster.Resolver, th chemistry.Thresholds) (m Matrix, skipped int) {
	m = NeutralMatrix()
	for _, p := range pairs {
		i, ok1 := r.CanonicalID(p.Player1)
		j, ok2 := r.CanonicalID(p.Player2)
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		v := ValueNeutral
		switch th.Classify(p.Chemistry) {
		case chemistry.Negative:
			v = ValueNegative
		case chemistry.Positive:
			v = ValuePositive
		}
		m[i][j] = v
		m[j][i] = v
	}
	return m, skipped
}

// Players decodes the attribute section, named through r. Parse has already
// checked every row, so decoding cannot fail here.
func (p *Preset) Players(r *roster.Resolver) []attributes.Player {
	out := make([]attributes.Player, 0, AttributeRows)
	for i, row := range p.Attributes {
		player, _ := DecodeAttributes(row)
		player.Name = r.DisplayName(i)
		out = append(out, player)
	}
	return out
}

// AttributeMatrix places players by canonical id. Rows without a player stay
// zero; players with an unknown name are counted in skipped.
func AttributeMatrix(players []attributes.Player, r *roster.Resolver) (rows [AttributeRows]AttributeRow, skipped int) {
	for _, p := range players {
		id, ok := r.CanonicalID(p.Name)
		if !ok {
			skipped++
			continue
		}
		rows[id] = EncodeAttributes(p)
	}
	return rows, skipped
}

// Render writes the preset text: TotalLines lines joined by "\n", no
// trailing newline.
func Render(m Matrix, attrs [AttributeRows]AttributeRow, t Trajectory) string {
	lines := make([]string, 0, TotalLines)
	for i := range m {
		lines = append(lines, joinInts(m[i][:]))
	}
	for i := range attrs {
		lines = append(lines, joinInts(attrs[i][:]))
	}
	lines = append(lines, t.Render()...)
	return strings.Join(lines, "\n")
}

// Render returns the trajectory lines, verbatim when the original text is known.
func (t Trajectory) Render() []string {
	if len(t.Lines) == TrajectoryLines {
		return append([]string(nil), t.Lines...)
	}
	out := make([]string, 0, TrajectoryLines)
	for i := range t.Matrix {
		out = append(out, joinInts(t.Matrix[i][:]))
	}
	out = append(out, strings.Join(t.Names[:], ","))
	out = append(out, joinInts(t.Usage[:]))
	return out
}

func joinInts(vals []int) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
