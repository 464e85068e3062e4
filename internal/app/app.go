// Package app runs the user-facing CLB Tools operations against a workbook
// and a property store. Every operation returns a Result the CLI and the
// HTTP API can render.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/changelog"
	"github.com/clbtools/clbtools/internal/config"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/props"
	"github.com/clbtools/clbtools/internal/query"
	"github.com/clbtools/clbtools/internal/sheets"
)

// ErrConfirmationRequired is returned when an operation would overwrite
// existing data and was not confirmed.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrInvalidChemistryValue is returned for an editor cell outside 0..2.
var ErrInvalidChemistryValue = errors.New("invalid chemistry value")

// ErrCharacterNotFound is returned for a name that is neither a display
// name nor a canonical name.
var ErrCharacterNotFound = errors.New("character not found")

// Result is the outcome shown to the user.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type App struct {
	cfg   config.Config
	wb    sheets.Store
	props props.Store
	cache *attributes.Cache

	now     func() time.Time
	closers []io.Closer
}

// New wires an App over already opened stores.
func New(cfg config.Config, wb sheets.Store, ps props.Store) *App {
	a := &App{cfg: cfg, wb: wb, props: ps, now: time.Now}
	a.cache = attributes.NewCache(attributes.SheetLoader(wb, cfg.Sheets.Attributes), cfg.Cache.AttributeTTL)
	return a
}

// Open opens the workbook and the property store named by cfg.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	wb, err := sheets.Open(cfg.WorkbookPath())
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	ps, err := props.Open(ctx, cfg.PropsOptions())
	if err != nil {
		_ = wb.Close()
		return nil, fmt.Errorf("open property store: %w", err)
	}
	a := New(cfg, wb, ps)
	a.closers = []io.Closer{ps, wb}
	return a, nil
}

// Close releases the attribute cache and every store Open opened.
func (a *App) Close() error {
	var errs []error
	if err := a.cache.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Config() config.Config { return a.cfg }

func (a *App) changelog() *changelog.Logger {
	return changelog.New(a.wb, a.cfg.Sheets.ChangeLog)
}

func isInvalidInput(err error) bool {
	var pe *preset.ParseError
	return errors.As(err, &pe) || errors.Is(err, ErrInvalidChemistryValue)
}

func isMissingResource(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, sheets.ErrSheetNotFound) ||
		errors.Is(err, query.ErrIndexMissing) ||
		errors.Is(err, preset.ErrTrajectoryMissing) ||
		errors.Is(err, ErrCharacterNotFound)
}
