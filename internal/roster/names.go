package roster

import (
	"regexp"
	"strings"
)

// CanonicalCount is the number of characters in the stats editor's fixed order.
const CanonicalCount = 101

// CanonicalOrder is the character order used by stats preset files. Positions
// are part of the preset wire format and must never be reordered.
var CanonicalOrder = [CanonicalCount]string{
	"Mario", "Luigi", "Donkey Kong", "Diddy Kong", "Peach", "Daisy",
	"Green Yoshi", "Baby Mario", "Baby Luigi", "Bowser", "Wario",
	"Waluigi", "Green Koopa Troopa", "Red Toad", "Boo", "Toadette",
	"Red Shy Guy", "Birdo", "Monty Mole", "Bowser Jr.",
	"Red Koopa Paratroopa", "Blue Pianta", "Red Pianta",
	"Yellow Pianta", "Blue Noki", "Red Noki", "Green Noki",
	"Hammer Bro", "Toadsworth", "Blue Toad", "Yellow Toad",
	"Green Toad", "Purple Toad", "Blue Magikoopa", "Red Magikoopa",
	"Green Magikoopa", "Yellow Magikoopa", "King Boo", "Petey Piranha",
	"Dixie Kong", "Goomba", "Paragoomba", "Red Koopa Troopa",
	"Green Koopa Paratroopa", "Blue Shy Guy", "Yellow Shy Guy",
	"Green Shy Guy", "Gray Shy Guy", "Gray Dry Bones",
	"Green Dry Bones", "Dark Bones", "Blue Dry Bones", "Fire Bro",
	"Boomerang Bro", "Wiggler", "Blooper", "Funky Kong", "Tiny Kong",
	"Green Kritter", "Blue Kritter", "Red Kritter", "Brown Kritter",
	"King K. Rool", "Baby Peach", "Baby Daisy", "Baby DK", "Red Yoshi",
	"Blue Yoshi", "Yellow Yoshi", "Light Blue Yoshi", "Pink Yoshi",
	"Unused Yoshi 2", "Unused Yoshi", "Unused Toad", "Unused Pianta",
	"Unused Kritter", "Unused Koopa", "Red Mii (M)", "Orange Mii (M)",
	"Yellow Mii (M)", "Light Green Mii (M)", "Green Mii (M)",
	"Blue Mii (M)", "Light Blue Mii (M)", "Pink Mii (M)",
	"Purple Mii (M)", "Brown Mii (M)", "White Mii (M)", "Black Mii (M)",
	"Red Mii (F)", "Orange Mii (F)", "Yellow Mii (F)",
	"Light Green Mii (F)", "Green Mii (F)", "Blue Mii (F)",
	"Light Blue Mii (F)", "Pink Mii (F)", "Purple Mii (F)",
	"Brown Mii (F)", "White Mii (F)", "Black Mii (F)",
}

type variantGroup struct {
	Base     string
	Variants []string
}

// Only these canonical names are recolors; everything else keeps its name.
var variantGroups = []variantGroup{
	{Base: "Bro", Variants: []string{"Boomerang Bro", "Fire Bro", "Hammer Bro"}},
	{Base: "Dry Bones", Variants: []string{"Dark Bones", "Blue Dry Bones", "Gray Dry Bones", "Green Dry Bones"}},
	{Base: "Koopa Paratroopa", Variants: []string{"Green Koopa Paratroopa", "Red Koopa Paratroopa"}},
	{Base: "Koopa Troopa", Variants: []string{"Green Koopa Troopa", "Red Koopa Troopa"}},
	{Base: "Kritter", Variants: []string{"Green Kritter", "Blue Kritter", "Red Kritter", "Brown Kritter"}},
	{Base: "Magikoopa", Variants: []string{"Blue Magikoopa", "Green Magikoopa", "Red Magikoopa", "Yellow Magikoopa"}},
	{Base: "Noki", Variants: []string{"Blue Noki", "Red Noki", "Green Noki"}},
	{Base: "Pianta", Variants: []string{"Blue Pianta", "Red Pianta", "Yellow Pianta"}},
	{Base: "Shy Guy", Variants: []string{"Blue Shy Guy", "Gray Shy Guy", "Green Shy Guy", "Red Shy Guy", "Yellow Shy Guy"}},
	{Base: "Toad", Variants: []string{"Blue Toad", "Green Toad", "Purple Toad", "Red Toad", "Yellow Toad"}},
	{Base: "Yoshi", Variants: []string{"Blue Yoshi", "Light Blue Yoshi", "Green Yoshi", "Pink Yoshi", "Red Yoshi", "Yellow Yoshi"}},
}

var (
	parenSuffixRe   = regexp.MustCompile(`^(.+?)\s*\(`)
	bracketSuffixRe = regexp.MustCompile(`^(.+?)\s*\[`)
	miiColorRe      = regexp.MustCompile(`\[(.+?)\]`)
	canonicalMiiRe  = regexp.MustCompile(`^(.+) Mii \((M|F)\)$`)
)

// ExtractBaseName strips a variant suffix: "Toad (Red)" -> "Toad", "Mii [Blue]" -> "Mii".
func ExtractBaseName(name string) string {
	if m := parenSuffixRe.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bracketSuffixRe.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(name)
}

// IsMiiCharacter reports whether the name carries a bracketed Mii color tag.
func IsMiiCharacter(name string) bool {
	return strings.Contains(name, "[") && strings.Contains(name, "]")
}

// ExtractMiiColor returns the content of the first bracketed group.
func ExtractMiiColor(name string) (string, bool) {
	m := miiColorRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// GenerateCustomName converts a canonical editor name into the project's
// display convention: "Red Toad" -> "Toad (Red)", "Red Mii (M)" -> "Mii (Red, M)".
// Non-variant names are returned unchanged.
func GenerateCustomName(canonical string) string {
	for _, g := range variantGroups {
		for _, v := range g.Variants {
			if v != canonical {
				continue
			}
			prefix, ok := strings.CutSuffix(canonical, " "+g.Base)
			if !ok {
				// "Dark Bones" does not end with its group base.
				prefix = strings.Fields(canonical)[0]
			}
			return g.Base + " (" + prefix + ")"
		}
	}

	if strings.Contains(canonical, "Mii") {
		if m := canonicalMiiRe.FindStringSubmatch(canonical); m != nil {
			return "Mii (" + m[1] + ", " + m[2] + ")"
		}
	}
	return canonical
}
