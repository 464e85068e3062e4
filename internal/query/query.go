package query

import (
	"sort"

	"github.com/clbtools/clbtools/internal/chemistry"
)

// PlayerChemistry lists the positive and negative partners of one player.
type PlayerChemistry struct {
	Name     string   `json:"name"`
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	PosCount int      `json:"posCount"`
	NegCount int      `json:"negCount"`
}

type Connection struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Type    string `json:"type"`
}

// Appearance records which requested players a character is positive and
// negative with.
type Appearance struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

type TeamAnalysis struct {
	InternalPositive int                   `json:"internalPositive"`
	InternalNegative int                   `json:"internalNegative"`
	TotalConnections int                   `json:"totalConnections"`
	Connections      []Connection          `json:"connections"`
	SharedPositive   map[string][]string   `json:"sharedPositive"`
	SharedNegative   map[string][]string   `json:"sharedNegative"`
	Mixed            map[string]Appearance `json:"mixed"`
}

type Result struct {
	Players      []PlayerChemistry `json:"players"`
	TeamAnalysis *TeamAnalysis     `json:"teamAnalysis"`
}

// Query answers a multi-player request. Repeated names count once; team
// analysis needs two or more distinct names.
func (ix *PairIndex) Query(names []string) Result {
	names = uniqueNames(names)
	res := Result{Players: ix.QueryPlayers(names)}
	if len(names) >= 2 {
		res.TeamAnalysis = ix.TeamAnalysis(names)
	}
	return res
}

func (ix *PairIndex) QueryPlayers(names []string) []PlayerChemistry {
	out := make([]PlayerChemistry, 0, len(names))
	for _, name := range names {
		pc := PlayerChemistry{Name: name, Positive: []string{}, Negative: []string{}}
		for _, other := range ix.Partners(name) {
			switch ix.Thresholds.Classify(ix.values[name][other]) {
			case chemistry.Positive:
				pc.Positive = append(pc.Positive, other)
			case chemistry.Negative:
				pc.Negative = append(pc.Negative, other)
			}
		}
		pc.PosCount = len(pc.Positive)
		pc.NegCount = len(pc.Negative)
		out = append(out, pc)
	}
	return out
}

// TeamAnalysis classifies the pairs inside the requested set and the outside
// characters shared between requested players. A character lands in at most
// one of shared-positive, shared-negative and mixed; requested players are
// only reported through Connections.
func (ix *PairIndex) TeamAnalysis(names []string) *TeamAnalysis {
	ta := &TeamAnalysis{
		Connections:    []Connection{},
		SharedPositive: map[string][]string{},
		SharedNegative: map[string][]string{},
		Mixed:          map[string]Appearance{},
	}
	names = uniqueNames(names)

	requested := make(map[string]struct{}, len(names))
	for _, n := range names {
		requested[n] = struct{}{}
	}

	appearances := map[string]*Appearance{}
	for _, name := range names {
		for _, other := range ix.Partners(name) {
			if _, in := requested[other]; in {
				continue
			}
			a := appearances[other]
			if a == nil {
				a = &Appearance{Positive: []string{}, Negative: []string{}}
				appearances[other] = a
			}
			switch ix.Thresholds.Classify(ix.values[name][other]) {
			case chemistry.Positive:
				a.Positive = append(a.Positive, name)
			case chemistry.Negative:
				a.Negative = append(a.Negative, name)
			}
		}
	}

	characters := make([]string, 0, len(appearances))
	for c := range appearances {
		characters = append(characters, c)
	}
	sort.Strings(characters)
	for _, c := range characters {
		a := appearances[c]
		pos, neg := len(a.Positive), len(a.Negative)
		switch {
		case pos >= 2 && neg == 0:
			ta.SharedPositive[c] = a.Positive
		case neg >= 2 && pos == 0:
			ta.SharedNegative[c] = a.Negative
		case pos >= 1 && neg >= 1:
			ta.Mixed[c] = *a
		}
	}

	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			v, ok := ix.Value(names[i], names[j])
			if !ok {
				continue
			}
			switch ix.Thresholds.Classify(v) {
			case chemistry.Positive:
				ta.InternalPositive++
				ta.Connections = append(ta.Connections, Connection{Player1: names[i], Player2: names[j], Type: "positive"})
			case chemistry.Negative:
				ta.InternalNegative++
				ta.Connections = append(ta.Connections, Connection{Player1: names[i], Player2: names[j], Type: "negative"})
			}
		}
	}
	ta.TotalConnections = len(ta.Connections)
	return ta
}

// uniqueNames drops repeats, keeping first occurrences in order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
