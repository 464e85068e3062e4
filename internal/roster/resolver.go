package roster

import (
	"fmt"
	"strings"

	"github.com/clbtools/clbtools/internal/sheets"
)

// Resolver maps canonical ids to display names and back. Overrides from the
// name-mapping sheet win over generated names.
type Resolver struct {
	display   [CanonicalCount]string
	byDisplay map[string]int
	overrides int
}

// NewResolver builds a resolver from canonical name -> custom name overrides.
// Blank overrides and unknown canonical names are ignored.
func NewResolver(overrides map[string]string) *Resolver {
	r := &Resolver{byDisplay: make(map[string]int, CanonicalCount*2)}
	for id, canonical := range CanonicalOrder {
		name := GenerateCustomName(canonical)
		if custom := strings.TrimSpace(overrides[canonical]); custom != "" {
			name = custom
			r.overrides++
		}
		if name == "" {
			name = canonical
		}
		r.display[id] = name
	}

	// First id wins when two canonical ids share a display name.
	for id, name := range r.display {
		if _, ok := r.byDisplay[name]; !ok {
			r.byDisplay[name] = id
		}
	}
	// Canonical names resolve too, unless a display name already claims them.
	for id, canonical := range CanonicalOrder {
		if _, ok := r.byDisplay[canonical]; !ok {
			r.byDisplay[canonical] = id
		}
	}
	return r
}

// DisplayName returns the display name for id, or "" when id is out of range.
func (r *Resolver) DisplayName(id int) string {
	if id < 0 || id >= CanonicalCount {
		return ""
	}
	return r.display[id]
}

// DisplayNames returns all display names in canonical order.
func (r *Resolver) DisplayNames() []string {
	out := make([]string, CanonicalCount)
	copy(out, r.display[:])
	return out
}

// CanonicalID finds the canonical id of a display name (or a canonical name).
func (r *Resolver) CanonicalID(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	id, ok := r.byDisplay[strings.TrimSpace(name)]
	return id, ok
}

// Overrides reports how many canonical ids use a custom name.
func (r *Resolver) Overrides() int { return r.overrides }

// Name-mapping sheet layout.
const (
	MappingCanonicalHeader = "Python Name"
	MappingCustomHeader    = "Custom Name"
)

// ParseOverrides reads the name-mapping sheet rows (header first).
func ParseOverrides(rows [][]string) map[string]string {
	out := map[string]string{}
	if len(rows) < 2 {
		return out
	}
	canonCol, customCol := 0, 1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case MappingCanonicalHeader:
			canonCol = i
		case MappingCustomHeader:
			customCol = i
		}
	}
	for _, row := range rows[1:] {
		canonical := sheets.Cell(row, canonCol)
		custom := sheets.Cell(row, customCol)
		if canonical == "" || custom == "" {
			continue
		}
		out[canonical] = custom
	}
	return out
}

// LoadResolver reads overrides from the name-mapping sheet. A missing sheet
// means no overrides.
func LoadResolver(store sheets.Store, sheet string) (*Resolver, error) {
	if !store.HasSheet(sheet) {
		return NewResolver(nil), nil
	}
	rows, err := store.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read name mapping: %w", err)
	}
	return NewResolver(ParseOverrides(rows)), nil
}

// EnsureNameMappingSheet creates the mapping sheet filled with generated
// names when it does not exist yet. It reports whether the sheet was created.
func EnsureNameMappingSheet(store sheets.Store, sheet string) (bool, error) {
	if store.HasSheet(sheet) {
		return false, nil
	}
	if _, err := store.EnsureSheet(sheet); err != nil {
		return false, err
	}

	rows := make([][]any, 0, CanonicalCount+1)
	rows = append(rows, []any{MappingCanonicalHeader, MappingCustomHeader})
	for _, canonical := range CanonicalOrder {
		rows = append(rows, []any{canonical, GenerateCustomName(canonical)})
	}
	if err := store.WriteRows(sheet, 1, rows); err != nil {
		return false, err
	}
	if err := store.StyleHeader(sheet, 2); err != nil {
		return false, err
	}
	note := "Edit the Custom Name column to rename characters.\n" +
		"Recolors use \"Base (Color)\", e.g. \"Toad (Red)\".\n" +
		"Miis use \"Mii (Color, M/F)\"."
	if err := store.SetNote(sheet, "B1", note); err != nil {
		return false, err
	}
	return true, nil
}
