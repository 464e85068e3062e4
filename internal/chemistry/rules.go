package chemistry

import "github.com/clbtools/clbtools/internal/roster"

// Rules holds the species exception. Only the default variant of Species
// keeps chemistry with its own recolors.
type Rules struct {
	Species        string
	DefaultVariant string
}

// DefaultRules is the Yoshi exception used by the game.
var DefaultRules = Rules{Species: "Yoshi", DefaultVariant: "Yoshi (Green)"}

// ApplyRules uses DefaultRules.
func ApplyRules(a, b string, base int) int {
	return DefaultRules.Apply(a, b, base)
}

// Apply decides the final value of an expanded pair. Order matters:
// species exception, then Mii colors, then same-base suppression.
func (r Rules) Apply(a, b string, base int) int {
	baseA := roster.ExtractBaseName(a)
	baseB := roster.ExtractBaseName(b)

	if r.Species != "" && baseA == r.Species && baseB == r.Species {
		if a == r.DefaultVariant || b == r.DefaultVariant {
			// Carve-out from same-base suppression.
			return base
		}
		return 0
	}

	if roster.IsMiiCharacter(a) && roster.IsMiiCharacter(b) {
		colorA, _ := roster.ExtractMiiColor(a)
		colorB, _ := roster.ExtractMiiColor(b)
		if colorA != colorB {
			return 0
		}
		return base
	}

	if baseA == baseB && a != b {
		return 0
	}
	return base
}
