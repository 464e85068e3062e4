// Package changelog appends audit rows to the chemistry change log sheet.
// Write failures are logged and swallowed so they never abort the caller.
package changelog

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/sheets"
)

// Header is the first row of the log sheet.
var Header = []string{"Timestamp", "Character 1", "Character 2", "Old Value", "New Value", "Notes"}

const timestampLayout = "2006-01-02 15:04:05"

// Logger writes to one sheet. Every row it writes carries the same run id.
type Logger struct {
	store sheets.Store
	sheet string
	runID string

	now func() time.Time
}

func New(store sheets.Store, sheet string) *Logger {
	return &Logger{store: store, sheet: sheet, runID: uuid.NewString(), now: time.Now}
}

func (l *Logger) RunID() string { return l.runID }

// ImportStats summarises a preset import.
type ImportStats struct {
	ChemistryPairs   int
	Characters       int
	TrajectoryStored bool
}

func (l *Logger) LogImport(s ImportStats) {
	traj := "No trajectory"
	if s.TrajectoryStored {
		traj = "Trajectory stored"
	}
	l.append("*** IMPORT ***",
		fmt.Sprintf("%d chemistry pairs", s.ChemistryPairs),
		fmt.Sprintf("%d characters", s.Characters),
		traj)
}

func (l *Logger) LogExport(withTrajectory bool) {
	traj := "No trajectory"
	if withTrajectory {
		traj = "With trajectory"
	}
	l.append("*** EXPORT ***", "Full stats preset", fmt.Sprintf("%d lines", preset.TotalLines), traj)
}

// LogChange records an editor change. Values are preset values (0/1/2).
func (l *Logger) LogChange(char1, char2 string, oldValue, newValue int) {
	l.append(char1, char2, ValueText(oldValue), ValueText(newValue))
}

// ValueText names a preset chemistry value.
func ValueText(v int) string {
	switch v {
	case preset.ValueNegative:
		return "Negative"
	case preset.ValueNeutral:
		return "Neutral"
	case preset.ValuePositive:
		return "Positive"
	default:
		return "Unknown"
	}
}

func (l *Logger) append(c1, c2, oldV, newV string) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.ensureSheet(); err != nil {
		log.Printf("changelog: prepare %q: %v", l.sheet, err)
		return
	}
	row := []any{l.now().Format(timestampLayout), c1, c2, oldV, newV, "run " + l.runID}
	if err := l.store.AppendRow(l.sheet, row); err != nil {
		log.Printf("changelog: append to %q: %v", l.sheet, err)
	}
}

func (l *Logger) ensureSheet() error {
	created, err := l.store.EnsureSheet(l.sheet)
	if err != nil || !created {
		return err
	}
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := l.store.WriteRows(l.sheet, 1, [][]any{header}); err != nil {
		return err
	}
	if err := l.store.StyleHeader(l.sheet, len(Header)); err != nil {
		return err
	}
	return l.store.SetColumnWidths(l.sheet, len(Header), 20)
}
