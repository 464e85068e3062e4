package app

import (
	"context"
	"fmt"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/lookup"
	"github.com/clbtools/clbtools/internal/props"
	"github.com/clbtools/clbtools/internal/query"
	"github.com/clbtools/clbtools/internal/roster"
)

func (a *App) chemistryData(ctx context.Context) ([]byte, error) {
	raw, ok, err := a.props.Get(ctx, props.KeyChemistryData)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, query.ErrIndexMissing
	}
	return []byte(raw), nil
}

// ChemistryPlayers lists every name in the published index.
func (a *App) ChemistryPlayers(ctx context.Context) ([]string, error) {
	data, err := a.chemistryData(ctx)
	if err != nil {
		return nil, err
	}
	return query.PlayerList(data)
}

// QueryChemistry answers a multi-player chemistry request from the
// published index.
func (a *App) QueryChemistry(ctx context.Context, names []string) (query.Result, error) {
	if len(names) == 0 {
		return query.Result{Players: []query.PlayerChemistry{}}, nil
	}
	data, err := a.chemistryData(ctx)
	if err != nil {
		return query.Result{}, err
	}
	ix, err := query.LoadIndex(data, a.cfg.Thresholds())
	if err != nil {
		return query.Result{}, err
	}
	return ix.Query(names), nil
}

// Freshness is the published fingerprint plus the last write time.
type Freshness struct {
	lookup.Freshness
	LastModified string `json:"lastModified"`
}

func (a *App) Freshness(ctx context.Context) (Freshness, bool, error) {
	f, ok, err := lookup.LoadFreshness(ctx, a.props)
	if err != nil || !ok {
		return Freshness{}, ok, err
	}
	out := Freshness{Freshness: f}
	if v, ok, err := a.props.Get(ctx, props.KeyLookupLastModified); err != nil {
		return out, false, err
	} else if ok {
		out.LastModified = v
	}
	return out, true, nil
}

// AttributePlayers lists the players of the attribute sheet, sorted.
func (a *App) AttributePlayers(ctx context.Context) ([]string, error) {
	snap, err := a.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.PlayerList(), nil
}

// PlayerAttributes returns the requested players, with averages when asked.
// Unknown names are left out.
func (a *App) PlayerAttributes(ctx context.Context, names []string, withAverages bool) ([]attributes.View, error) {
	snap, err := a.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Views(names, withAverages), nil
}

// ClearAttributeCache drops the cached attribute snapshot.
func (a *App) ClearAttributeCache() Result {
	a.cache.Invalidate()
	return Result{Success: true, Message: "Attribute cache cleared."}
}

type NamesResult struct {
	Result
	Created   bool     `json:"created"`
	Overrides int      `json:"overrides"`
	Names     []string `json:"names"`
}

// Names makes sure the name mapping sheet exists and returns the display
// names in canonical order.
func (a *App) Names() (NamesResult, error) {
	created, err := roster.EnsureNameMappingSheet(a.wb, a.cfg.Sheets.NameMapping)
	if err != nil {
		return NamesResult{}, err
	}
	if created {
		if err := a.wb.Save(); err != nil {
			return NamesResult{}, err
		}
	}
	r, err := roster.LoadResolver(a.wb, a.cfg.Sheets.NameMapping)
	if err != nil {
		return NamesResult{}, err
	}
	msg := fmt.Sprintf("%d characters, %d custom names.", len(r.DisplayNames()), r.Overrides())
	if created {
		msg = "Created " + a.cfg.Sheets.NameMapping + ". " + msg
	}
	return NamesResult{
		Result:    Result{Success: true, Message: msg},
		Created:   created,
		Overrides: r.Overrides(),
		Names:     r.DisplayNames(),
	}, nil
}
