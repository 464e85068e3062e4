package app

import (
	"context"
	"fmt"

	"github.com/clbtools/clbtools/internal/lookup"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/roster"
)

// EditorMatrix is the preset-valued chemistry grid in canonical order.
type EditorMatrix struct {
	Matrix     preset.Matrix `json:"matrix"`
	Characters []string      `json:"characters"`
}

// Change is one cell edit reported by the editor.
type Change struct {
	Char1    string `json:"char1"`
	Char2    string `json:"char2"`
	OldValue int    `json:"oldValue"`
	NewValue int    `json:"newValue"`
}

type UpdateResult struct {
	Result
	TotalPairs    int `json:"totalPairs"`
	ChangesLogged int `json:"changesLogged"`
}

// EditorMatrix builds the grid from the lookup. A missing lookup gives an
// all-neutral grid.
func (a *App) EditorMatrix(ctx context.Context) (EditorMatrix, error) {
	r, err := roster.LoadResolver(a.wb, a.cfg.Sheets.NameMapping)
	if err != nil {
		return EditorMatrix{}, err
	}
	out := EditorMatrix{Matrix: preset.NeutralMatrix(), Characters: r.DisplayNames()}
	if !a.wb.HasSheet(a.cfg.Sheets.ChemistryLookup) {
		return out, nil
	}
	pairs, err := a.readLookup()
	if err != nil {
		return EditorMatrix{}, err
	}
	out.Matrix, _ = preset.ChemistryMatrix(pairs, r, a.cfg.Thresholds())
	return out, nil
}

// UpdateEditorMatrix logs every change, then rewrites the lookup from the
// upper triangle of m and republishes the JSON index.
func (a *App) UpdateEditorMatrix(ctx context.Context, m preset.Matrix, changes []Change) (UpdateResult, error) {
	for i := range m {
		for j := range m[i] {
			if v := m[i][j]; v < preset.ValueNegative || v > preset.ValuePositive {
				err := fmt.Errorf("%w %d at [%d][%d] (expected 0, 1 or 2)", ErrInvalidChemistryValue, v, i, j)
				return UpdateResult{Result: Result{Message: err.Error()}}, err
			}
		}
	}

	cl := a.changelog()
	for _, c := range changes {
		cl.LogChange(c.Char1, c.Char2, c.OldValue, c.NewValue)
	}

	r, err := roster.LoadResolver(a.wb, a.cfg.Sheets.NameMapping)
	if err != nil {
		return UpdateResult{}, err
	}
	th := a.cfg.Thresholds()
	pairs := preset.ChemistryPairs(m, r, th)
	if err := lookup.WriteTable(a.wb, a.cfg.Sheets.ChemistryLookup, pairs, th); err != nil {
		return UpdateResult{}, fmt.Errorf("write lookup: %w", err)
	}
	if err := a.wb.Save(); err != nil {
		return UpdateResult{}, err
	}
	if err := a.publish(ctx, pairs); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{
		Result: Result{
			Success: true,
			Message: fmt.Sprintf("Chemistry Lookup updated with %d pairs; %d changes logged.", len(pairs), len(changes)),
		},
		TotalPairs:    len(pairs),
		ChangesLogged: len(changes),
	}, nil
}

type Relationship struct {
	Character string `json:"character"`
	Value     int    `json:"value"`
}

type CharacterChemistry struct {
	Character     string         `json:"character"`
	Relationships []Relationship `json:"relationships"`
	PositiveCount int            `json:"positiveCount"`
	NegativeCount int            `json:"negativeCount"`
}

// CharacterChemistry lists the non-neutral editor cells of one character.
func (a *App) CharacterChemistry(ctx context.Context, name string) (CharacterChemistry, error) {
	em, err := a.EditorMatrix(ctx)
	if err != nil {
		return CharacterChemistry{}, err
	}
	idx := -1
	for i, n := range em.Characters {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		if id, ok := roster.NewResolver(nil).CanonicalID(name); ok {
			idx = id
		}
	}
	if idx < 0 {
		return CharacterChemistry{}, fmt.Errorf("%w: %s", ErrCharacterNotFound, name)
	}

	out := CharacterChemistry{Character: em.Characters[idx], Relationships: []Relationship{}}
	for j, v := range em.Matrix[idx] {
		if j == idx || v == preset.ValueNeutral {
			continue
		}
		out.Relationships = append(out.Relationships, Relationship{Character: em.Characters[j], Value: v})
		switch v {
		case preset.ValuePositive:
			out.PositiveCount++
		case preset.ValueNegative:
			out.NegativeCount++
		}
	}
	return out, nil
}
