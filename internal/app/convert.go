package app

import (
	"context"
	"fmt"
	"log"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/lookup"
	"github.com/clbtools/clbtools/internal/props"
)

type ConvertResult struct {
	Result
	Pairs       int `json:"pairs"`
	MiiMappings int `json:"miiMappings"`
	Characters  int `json:"characters"`
}

// Convert expands the base-character matrix into the lookup sheet and
// publishes the JSON index. A lookup that already has data is only
// overwritten when force is set.
func (a *App) Convert(ctx context.Context, force bool) (ConvertResult, error) {
	sh := a.cfg.Sheets

	if a.wb.HasSheet(sh.ChemistryLookup) && !force {
		last, err := a.wb.LastRow(sh.ChemistryLookup)
		if err != nil {
			return ConvertResult{}, err
		}
		if last > 1 {
			return ConvertResult{Result: Result{
				Message: fmt.Sprintf("%s already has %d rows; rerun with --force to overwrite", sh.ChemistryLookup, last-1),
			}}, ErrConfirmationRequired
		}
	}

	matrixRows, err := a.wb.Rows(sh.Chemistry)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("chemistry matrix: %w", err)
	}
	attrRows, err := a.wb.Rows(sh.Attributes)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("attributes: %w", err)
	}
	if _, err := chemistry.EnsureMiiColorSheet(a.wb, sh.MiiColorChemistry); err != nil {
		return ConvertResult{}, fmt.Errorf("mii color sheet: %w", err)
	}
	miiRows, err := a.wb.Rows(sh.MiiColorChemistry)
	if err != nil {
		return ConvertResult{}, err
	}

	masterList := attributes.Names(attrRows)
	variants := chemistry.BuildVariantMap(masterList)
	base := chemistry.ReadMatrix(matrixRows)
	expanded := chemistry.Expander{Rules: a.cfg.Rules()}.Expand(base, variants)

	mappings := chemistry.ReadMiiColorMappings(miiRows)
	pairs := chemistry.ApplyMiiColorChemistry(expanded, mappings, masterList)
	log.Printf("convert: %d base pairs, %d characters, %d expanded pairs, %d mii mappings", len(base), len(masterList), len(pairs), len(mappings))

	th := a.cfg.Thresholds()
	if err := lookup.WriteTable(a.wb, sh.ChemistryLookup, pairs, th); err != nil {
		return ConvertResult{}, fmt.Errorf("write lookup: %w", err)
	}
	if err := a.wb.Save(); err != nil {
		return ConvertResult{}, err
	}
	if err := a.publish(ctx, pairs); err != nil {
		return ConvertResult{}, err
	}

	return ConvertResult{
		Result: Result{
			Success: true,
			Message: fmt.Sprintf("Chemistry Lookup updated with %d pairs (%d Mii color mappings applied); JSON index refreshed.", len(pairs), len(mappings)),
		},
		Pairs:       len(pairs),
		MiiMappings: len(mappings),
		Characters:  len(masterList),
	}, nil
}

type RefreshResult struct {
	Result
	Pairs     int              `json:"pairs"`
	Players   int              `json:"players"`
	Freshness lookup.Freshness `json:"freshness"`
}

// RefreshJSON republishes the JSON index from the lookup sheet as it is now.
// An empty lookup publishes nothing.
func (a *App) RefreshJSON(ctx context.Context) (RefreshResult, error) {
	pairs, err := a.readLookup()
	if err != nil {
		return RefreshResult{}, err
	}
	if len(pairs) == 0 {
		return RefreshResult{Result: Result{Success: true, Message: "Chemistry Lookup is empty; nothing published."}}, nil
	}
	idx, fresh, err := lookup.Publish(ctx, a.props, pairs, a.cfg.Thresholds(), a.now())
	if err != nil {
		return RefreshResult{}, fmt.Errorf("publish chemistry index: %w", err)
	}
	if err := a.props.Set(ctx, props.KeyLookupLastModified, fresh.Timestamp); err != nil {
		return RefreshResult{}, err
	}
	return RefreshResult{
		Result: Result{
			Success: true,
			Message: fmt.Sprintf("Chemistry JSON updated: %d players, %d pairs.", len(idx.Players), len(idx.Pairs)),
		},
		Pairs:     len(idx.Pairs),
		Players:   len(idx.Players),
		Freshness: fresh,
	}, nil
}

func (a *App) publish(ctx context.Context, pairs []chemistry.Pair) error {
	sorted := append([]chemistry.Pair(nil), pairs...)
	lookup.SortPairs(sorted)
	if len(sorted) == 0 {
		return nil
	}
	_, fresh, err := lookup.Publish(ctx, a.props, sorted, a.cfg.Thresholds(), a.now())
	if err != nil {
		return fmt.Errorf("publish chemistry index: %w", err)
	}
	return a.props.Set(ctx, props.KeyLookupLastModified, fresh.Timestamp)
}

// readLookup returns the lookup pairs in table order.
func (a *App) readLookup() ([]chemistry.Pair, error) {
	rows, err := a.wb.Rows(a.cfg.Sheets.ChemistryLookup)
	if err != nil {
		return nil, fmt.Errorf("chemistry lookup: %w", err)
	}
	return lookup.ReadTable(rows), nil
}
