package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/clbtools/clbtools/internal/chemistry"
)

// ErrIndexMissing is returned when no chemistry index has been published.
var ErrIndexMissing = errors.New("chemistry data not found; run refresh-json first")

// PairIndex is a symmetric name -> name -> value lookup built from the JSON
// index. An absent pair is neutral.
type PairIndex struct {
	Players    []string
	Thresholds chemistry.Thresholds
	Timestamp  string

	values map[string]map[string]int
}

// NewIndex builds an index straight from pairs.
func NewIndex(pairs []chemistry.Pair, th chemistry.Thresholds) *PairIndex {
	ix := &PairIndex{Thresholds: th, values: map[string]map[string]int{}}
	for _, p := range pairs {
		ix.set(p.Player1, p.Player2, p.Chemistry)
	}
	ix.Players = make([]string, 0, len(ix.values))
	for name := range ix.values {
		ix.Players = append(ix.Players, name)
	}
	sort.Strings(ix.Players)
	return ix
}

// LoadIndex decodes the published JSON index. An index published without
// thresholds is classified with fallback.
func LoadIndex(data []byte, fallback chemistry.Thresholds) (*PairIndex, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrIndexMissing
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("chemistry index: invalid json")
	}
	doc := gjson.ParseBytes(data)

	ix := &PairIndex{
		Thresholds: chemistry.Thresholds{
			PositiveMin: int(doc.Get("thresholds.positive").Int()),
			NegativeMax: int(doc.Get("thresholds.negative").Int()),
		},
		Timestamp: doc.Get("timestamp").String(),
		values:    map[string]map[string]int{},
	}
	if !doc.Get("thresholds.positive").Exists() || !doc.Get("thresholds.negative").Exists() {
		ix.Thresholds = fallback
	}

	doc.Get("players").ForEach(func(_, v gjson.Result) bool {
		ix.Players = append(ix.Players, v.String())
		return true
	})
	doc.Get("pairs").ForEach(func(_, v gjson.Result) bool {
		p1 := v.Get("p1").String()
		p2 := v.Get("p2").String()
		if p1 != "" && p2 != "" {
			ix.set(p1, p2, int(v.Get("v").Int()))
		}
		return true
	})
	return ix, nil
}

// PlayerList reads only the players array of a JSON index.
func PlayerList(data []byte) ([]string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrIndexMissing
	}
	res := gjson.GetBytes(data, "players")
	out := []string{}
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out, nil
}

func (ix *PairIndex) set(a, b string, v int) {
	if ix.values[a] == nil {
		ix.values[a] = map[string]int{}
	}
	if ix.values[b] == nil {
		ix.values[b] = map[string]int{}
	}
	ix.values[a][b] = v
	ix.values[b][a] = v
}

// Value returns the chemistry between a and b.
func (ix *PairIndex) Value(a, b string) (int, bool) {
	v, ok := ix.values[a][b]
	return v, ok
}

// Partners lists every name with a stored pair with name, sorted.
func (ix *PairIndex) Partners(name string) []string {
	row := ix.values[name]
	out := make([]string, 0, len(row))
	for other := range row {
		out = append(out, other)
	}
	sort.Strings(out)
	return out
}
