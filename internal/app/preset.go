package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/changelog"
	"github.com/clbtools/clbtools/internal/lookup"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/roster"
)

type ImportResult struct {
	Result
	ChemistryPairs   int  `json:"chemistryPairs"`
	Characters       int  `json:"characters"`
	TrajectoryStored bool `json:"trajectoryStored"`
	MappingCreated   bool `json:"mappingCreated"`
}

// ImportPreset replaces the lookup, the attribute sheet and the stored
// trajectory with the contents of a preset file. Nothing is written when the
// text does not parse.
func (a *App) ImportPreset(ctx context.Context, text string) (ImportResult, error) {
	p, err := preset.Parse(text)
	if err != nil {
		return ImportResult{Result: Result{Message: err.Error()}}, err
	}

	sh := a.cfg.Sheets
	created, err := roster.EnsureNameMappingSheet(a.wb, sh.NameMapping)
	if err != nil {
		return ImportResult{}, fmt.Errorf("name mapping: %w", err)
	}
	r, err := roster.LoadResolver(a.wb, sh.NameMapping)
	if err != nil {
		return ImportResult{}, err
	}

	th := a.cfg.Thresholds()
	pairs := preset.ChemistryPairs(p.Chemistry, r, th)
	if err := lookup.WriteTable(a.wb, sh.ChemistryLookup, pairs, th); err != nil {
		return ImportResult{}, fmt.Errorf("write lookup: %w", err)
	}

	players := p.Players(r)
	if err := attributes.WritePlayers(a.wb, sh.Attributes, players); err != nil {
		return ImportResult{}, fmt.Errorf("write attributes: %w", err)
	}

	if err := preset.SaveTrajectory(ctx, a.props, p.Trajectory); err != nil {
		return ImportResult{}, fmt.Errorf("store trajectory: %w", err)
	}

	res := ImportResult{
		ChemistryPairs:   len(pairs),
		Characters:       len(players),
		TrajectoryStored: true,
		MappingCreated:   created,
	}
	a.changelog().LogImport(changelog.ImportStats{
		ChemistryPairs:   res.ChemistryPairs,
		Characters:       res.Characters,
		TrajectoryStored: res.TrajectoryStored,
	})

	if err := a.wb.Save(); err != nil {
		return ImportResult{}, err
	}
	a.cache.Invalidate()
	if err := a.publish(ctx, pairs); err != nil {
		return ImportResult{}, err
	}

	log.Printf("preset: imported %d pairs, %d characters (%d name overrides)", res.ChemistryPairs, res.Characters, r.Overrides())
	res.Result = Result{
		Success: true,
		Message: fmt.Sprintf("Imported %d chemistry pairs and %d characters; trajectory stored.", res.ChemistryPairs, res.Characters),
	}
	return res, nil
}

type ExportResult struct {
	Result
	Text               string `json:"text"`
	SkippedPairs       int    `json:"skippedPairs"`
	SkippedPlayers     int    `json:"skippedPlayers"`
	TrajectoryExported bool   `json:"trajectoryExported"`
}

// ExportPreset renders the lookup, the attribute sheet and the stored
// trajectory as preset text. Pairs and players whose names do not resolve
// are skipped and counted.
func (a *App) ExportPreset(ctx context.Context) (ExportResult, error) {
	sh := a.cfg.Sheets
	r, err := roster.LoadResolver(a.wb, sh.NameMapping)
	if err != nil {
		return ExportResult{}, err
	}

	pairs, err := a.readLookup()
	if err != nil {
		return ExportResult{}, err
	}
	m, skippedPairs := preset.ChemistryMatrix(pairs, r, a.cfg.Thresholds())

	snap, err := a.cache.Refresh(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	players := snap.Players(snap.PlayerList())
	if len(players) == 0 {
		return ExportResult{}, fmt.Errorf("%s has no players", sh.Attributes)
	}
	attrs, skippedPlayers := preset.AttributeMatrix(players, r)

	traj, err := preset.LoadTrajectory(ctx, a.props)
	if err != nil {
		if errors.Is(err, preset.ErrTrajectoryMissing) {
			return ExportResult{Result: Result{Message: err.Error()}}, err
		}
		return ExportResult{}, err
	}

	text := preset.Render(m, attrs, traj)
	a.changelog().LogExport(true)
	if err := a.wb.Save(); err != nil {
		log.Printf("preset: save change log: %v", err)
	}

	if skippedPairs > 0 || skippedPlayers > 0 {
		log.Printf("preset: export skipped %d pairs and %d players with unknown names", skippedPairs, skippedPlayers)
	}
	return ExportResult{
		Result: Result{
			Success: true,
			Message: fmt.Sprintf("Full stats preset ready (%d lines); skipped %d pairs and %d players.", preset.TotalLines, skippedPairs, skippedPlayers),
		},
		Text:               text,
		SkippedPairs:       skippedPairs,
		SkippedPlayers:     skippedPlayers,
		TrajectoryExported: true,
	}, nil
}
