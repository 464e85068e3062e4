package chemistry

// Pair is an unordered chemistry relation. Stored pairs keep Player1 <= Player2.
type Pair struct {
	Player1   string
	Player2   string
	Chemistry int
}

// NewPair orders the two names.
func NewPair(a, b string, v int) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{Player1: a, Player2: b, Chemistry: v}
}

// Key identifies the unordered pair.
func (p Pair) Key() string { return PairKey(p.Player1, p.Player2) }

// PairKey joins the two names in sorted order.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x1f" + b
}

// Class is the threshold classification of a chemistry value.
type Class int

const (
	Neutral Class = iota
	Positive
	Negative
)

func (c Class) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Thresholds classify chemistry values. Both bounds are inclusive.
type Thresholds struct {
	PositiveMin int
	NegativeMax int
}

// DefaultThresholds are used when the config does not override them.
var DefaultThresholds = Thresholds{PositiveMin: 100, NegativeMax: -100}

func (t Thresholds) Classify(v int) Class {
	switch {
	case v >= t.PositiveMin:
		return Positive
	case v <= t.NegativeMax:
		return Negative
	default:
		return Neutral
	}
}

// MiiColorMapping gives every Mii of MiiColor the chemistry with CharacterVariant.
type MiiColorMapping struct {
	MiiColor         string
	CharacterVariant string
	Chemistry        int
}
