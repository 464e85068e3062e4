package changelog

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clbtools/clbtools/internal/sheets"
)

const logSheet = "Chemistry Change Log"

func TestLogger_WritesRows(t *testing.T) {
	wb, err := sheets.Open(filepath.Join(t.TempDir(), "db.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	l := New(wb, logSheet)
	l.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	l.LogImport(ImportStats{ChemistryPairs: 42, Characters: 101, TrajectoryStored: true})
	l.LogExport(false)
	l.LogChange("Mario", "Bowser", 1, 0)

	rows, err := wb.Rows(logSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header, rows[0])

	assert.Equal(t, []string{"2026-03-04 05:06:07", "*** IMPORT ***", "42 chemistry pairs", "101 characters", "Trajectory stored"}, rows[1][:5])
	assert.Equal(t, []string{"*** EXPORT ***", "Full stats preset", "228 lines", "No trajectory"}, rows[2][1:5])
	assert.Equal(t, []string{"Mario", "Bowser", "Neutral", "Negative"}, rows[3][1:5])

	for _, r := range rows[1:] {
		assert.Equal(t, "run "+l.RunID(), r[5])
	}
	assert.Len(t, strings.TrimPrefix(rows[1][5], "run "), 36)
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "Negative", ValueText(0))
	assert.Equal(t, "Neutral", ValueText(1))
	assert.Equal(t, "Positive", ValueText(2))
	assert.Equal(t, "Unknown", ValueText(7))
}

type failingStore struct{ sheets.Store }

func (failingStore) EnsureSheet(string) (bool, error) { return false, errors.New("boom") }

func TestLogger_FailuresAreSwallowed(t *testing.T) {
	l := New(failingStore{}, logSheet)
	assert.NotPanics(t, func() {
		l.LogChange("Mario", "Luigi", 1, 2)
		l.LogExport(true)
	})

	var nilLogger *Logger
	assert.NotPanics(t, func() { nilLogger.LogExport(true) })
}
