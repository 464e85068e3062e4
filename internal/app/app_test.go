package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/config"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/props"
	"github.com/clbtools/clbtools/internal/query"
	"github.com/clbtools/clbtools/internal/sheets"
)

type testEnv struct {
	app   *App
	wb    *sheets.Workbook
	props *props.FileStore
	cfg   config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default(root)

	wb, err := sheets.Open(cfg.WorkbookPath())
	require.NoError(t, err)
	ps, err := props.OpenFile(cfg.PropsOptions().Path)
	require.NoError(t, err)

	a := New(cfg, wb, ps)
	a.closers = append(a.closers, ps, wb)
	a.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }
	t.Cleanup(func() { _ = a.Close() })
	return &testEnv{app: a, wb: wb, props: ps, cfg: cfg}
}

func (e *testEnv) writeSheet(t *testing.T, name string, rows [][]any) {
	t.Helper()
	_, err := e.wb.EnsureSheet(name)
	require.NoError(t, err)
	require.NoError(t, e.wb.WriteRows(name, 1, rows))
}

// seedConversion writes a small base matrix, a master list and one Mii
// color mapping.
func (e *testEnv) seedConversion(t *testing.T) {
	t.Helper()
	var players []attributes.Player
	for _, n := range []string{"Mario", "Luigi", "Toad (Red)", "Toad (Blue)", "Mii [Red]"} {
		players = append(players, attributes.Player{Name: n})
	}
	require.NoError(t, attributes.WritePlayers(e.wb, e.cfg.Sheets.Attributes, players))

	e.writeSheet(t, e.cfg.Sheets.Chemistry, [][]any{
		{"", "Luigi", "Mario", "Toad"},
		{"Luigi", "", 120, ""},
		{"Mario", 120, "", 100},
		{"Toad", "", 100, ""},
	})
	e.writeSheet(t, e.cfg.Sheets.MiiColorChemistry, [][]any{
		{"Mii Color", "Character Variant", "Chemistry"},
		{"Red", "Luigi", -100},
	})
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seedConversion(t)

	res, err := e.app.Convert(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.Pairs)
	assert.Equal(t, 1, res.MiiMappings)
	assert.Contains(t, res.Message, "4 pairs")

	rows, err := e.wb.Rows(e.cfg.Sheets.ChemistryLookup)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Player 1", "Player 2", "Chemistry"},
		{"Luigi", "Mario", "120"},
		{"Luigi", "Mii [Red]", "-100"},
		{"Mario", "Toad (Blue)", "100"},
		{"Mario", "Toad (Red)", "100"},
	}, rows)

	raw, ok, err := e.props.Get(ctx, props.KeyChemistryData)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"timestamp":"2026-05-06T07:08:09.000Z"`)

	fresh, ok, err := e.app.Freshness(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, fresh.RowCount)
	assert.Equal(t, "2026-05-06T07:08:09.000Z", fresh.LastModified)
}

func TestConvert_NeedsConfirmationToOverwrite(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seedConversion(t)

	_, err := e.app.Convert(ctx, false)
	require.NoError(t, err)

	res, err := e.app.Convert(ctx, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.False(t, res.Success)
	assert.Equal(t, ExitNeedsConfirm, ExitCode(err))

	res, err = e.app.Convert(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Pairs)
}

func TestConvert_MissingSheets(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.app.Convert(context.Background(), true)
	assert.ErrorIs(t, err, sheets.ErrSheetNotFound)
	assert.Equal(t, ExitMissingResource, ExitCode(err))
}

func TestRefreshJSON(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	_, err := e.app.RefreshJSON(ctx)
	assert.ErrorIs(t, err, sheets.ErrSheetNotFound)

	e.writeSheet(t, e.cfg.Sheets.ChemistryLookup, [][]any{
		{"Player 1", "Player 2", "Chemistry"},
		{"Bowser", "Mario", -150},
		{"Luigi", "Mario", 100.4},
		{"", "Nobody", 5},
	})
	res, err := e.app.RefreshJSON(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pairs)
	assert.Equal(t, 3, res.Players)

	got, err := e.app.QueryChemistry(ctx, []string{"Mario"})
	require.NoError(t, err)
	require.Len(t, got.Players, 1)
	assert.Equal(t, []string{"Luigi"}, got.Players[0].Positive)
	assert.Equal(t, []string{"Bowser"}, got.Players[0].Negative)

	names, err := e.app.ChemistryPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bowser", "Luigi", "Mario"}, names)
}

func TestQueryChemistry_NoIndex(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	_, err := e.app.QueryChemistry(ctx, []string{"Mario"})
	assert.ErrorIs(t, err, query.ErrIndexMissing)

	res, err := e.app.QueryChemistry(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Players)
	assert.Nil(t, res.TeamAnalysis)

	_, ok, err := e.app.Freshness(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func presetText(chem map[[2]int]int) string {
	lines := make([]string, 0, preset.TotalLines)
	for i := 0; i < preset.ChemistryRows; i++ {
		row := make([]string, preset.ChemistryRows)
		for j := range row {
			row[j] = "1"
			if v, ok := chem[[2]int{i, j}]; ok {
				row[j] = fmt.Sprint(v)
			} else if v, ok := chem[[2]int{j, i}]; ok {
				row[j] = fmt.Sprint(v)
			}
		}
		lines = append(lines, strings.Join(row, ","))
	}
	for i := 0; i < preset.AttributeRows; i++ {
		row := make([]string, preset.AttributeColumns)
		for k := range row {
			row[k] = "0"
		}
		row[4] = fmt.Sprint(i + 1) // weight
		row[28] = fmt.Sprint(i % 10)
		lines = append(lines, strings.Join(row, ","))
	}
	for i := 0; i < preset.TrajectoryRows; i++ {
		lines = append(lines, strings.TrimSuffix(strings.Repeat(fmt.Sprint(i%3)+",", preset.TrajectoryColumns), ","))
	}
	lines = append(lines, "Low,Mid,High,Line Drive,Pull,Custom", "1,0,1,1,0,0")
	return strings.Join(lines, "\n")
}

func TestImportExportPreset(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	text := presetText(map[[2]int]int{{0, 1}: 2, {0, 9}: 0})
	res, err := e.app.ImportPreset(ctx, text)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.ChemistryPairs)
	assert.Equal(t, preset.AttributeRows, res.Characters)
	assert.True(t, res.TrajectoryStored)
	assert.True(t, res.MappingCreated)

	assert.True(t, e.wb.HasSheet(e.cfg.Sheets.NameMapping))
	logRows, err := e.wb.Rows(e.cfg.Sheets.ChangeLog)
	require.NoError(t, err)
	require.Len(t, logRows, 2)
	assert.Equal(t, "*** IMPORT ***", logRows[1][1])

	mario, err := e.app.PlayerAttributes(ctx, []string{"Mario"}, false)
	require.NoError(t, err)
	require.Len(t, mario, 1)
	assert.Equal(t, 1, mario[0].Weight)

	out, err := e.app.ExportPreset(ctx)
	require.NoError(t, err)
	assert.True(t, out.TrajectoryExported)
	assert.Zero(t, out.SkippedPairs)

	got := strings.Split(out.Text, "\n")
	want := strings.Split(text, "\n")
	require.Len(t, got, preset.TotalLines)
	assert.Equal(t, want[0], got[0])
	assert.Equal(t, want[9], got[9])
	assert.Equal(t, want[preset.ChemistryRows], got[preset.ChemistryRows])
	assert.Equal(t, want[preset.TotalLines-preset.TrajectoryLines:], got[preset.TotalLines-preset.TrajectoryLines:])

	logRows, err = e.wb.Rows(e.cfg.Sheets.ChangeLog)
	require.NoError(t, err)
	assert.Equal(t, "*** EXPORT ***", logRows[len(logRows)-1][1])
}

func TestImportPreset_InvalidWritesNothing(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	_, err := e.app.ImportPreset(ctx, "1,1,1\n2,2,2")
	var pe *preset.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ExitInvalidInput, ExitCode(err))

	assert.False(t, e.wb.HasSheet(e.cfg.Sheets.ChemistryLookup))
	assert.False(t, e.wb.HasSheet(e.cfg.Sheets.NameMapping))
	_, ok, err := e.props.Get(ctx, props.KeyTrajectoryData)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExportPreset_NeedsTrajectory(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seedConversion(t)
	_, err := e.app.Convert(ctx, false)
	require.NoError(t, err)

	_, err = e.app.ExportPreset(ctx)
	assert.ErrorIs(t, err, preset.ErrTrajectoryMissing)
}

func TestEditor(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)

	em, err := e.app.EditorMatrix(ctx)
	require.NoError(t, err)
	require.Len(t, em.Characters, preset.ChemistryRows)
	assert.Equal(t, preset.ValueNeutral, em.Matrix[0][1])

	m := em.Matrix
	m[0][1], m[1][0] = preset.ValuePositive, preset.ValuePositive
	m[0][9], m[9][0] = preset.ValueNegative, preset.ValueNegative
	res, err := e.app.UpdateEditorMatrix(ctx, m, []Change{
		{Char1: em.Characters[0], Char2: em.Characters[1], OldValue: 1, NewValue: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPairs)
	assert.Equal(t, 1, res.ChangesLogged)

	logRows, err := e.wb.Rows(e.cfg.Sheets.ChangeLog)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mario", "Luigi", "Neutral", "Positive"}, logRows[1][1:5])

	again, err := e.app.EditorMatrix(ctx)
	require.NoError(t, err)
	assert.Equal(t, m, again.Matrix)

	cc, err := e.app.CharacterChemistry(ctx, "Mario")
	require.NoError(t, err)
	assert.Equal(t, 1, cc.PositiveCount)
	assert.Equal(t, 1, cc.NegativeCount)
	require.Len(t, cc.Relationships, 2)
	assert.Equal(t, Relationship{Character: "Luigi", Value: preset.ValuePositive}, cc.Relationships[0])

	_, err = e.app.CharacterChemistry(ctx, "Nobody")
	assert.Error(t, err)

	bad := m
	bad[5][6] = 7
	_, err = e.app.UpdateEditorMatrix(ctx, bad, nil)
	assert.ErrorIs(t, err, ErrInvalidChemistryValue)
	assert.Equal(t, ExitInvalidInput, ExitCode(err))
}

func TestNames(t *testing.T) {
	e := newTestEnv(t)
	res, err := e.app.Names()
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, res.Names, preset.ChemistryRows)
	assert.Equal(t, "Toad (Red)", res.Names[13])

	res, err = e.app.Names()
	require.NoError(t, err)
	assert.False(t, res.Created)
}

func TestAttributeCache(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seedConversion(t)

	names, err := e.app.AttributePlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Luigi", "Mario", "Mii [Red]", "Toad (Blue)", "Toad (Red)"}, names)

	require.NoError(t, attributes.WritePlayers(e.wb, e.cfg.Sheets.Attributes, []attributes.Player{{Name: "Wario"}}))
	names, err = e.app.AttributePlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 5, "cached snapshot is served until invalidated")

	assert.True(t, e.app.ClearAttributeCache().Success)
	names, err = e.app.AttributePlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wario"}, names)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 9, ExitCode(ExitWithError(9, errors.New("x"))))
	assert.Equal(t, 9, ExitCode(fmt.Errorf("wrapped: %w", ExitWithError(9, errors.New("x")))))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("plain")))
	assert.Equal(t, ExitNeedsConfirm, ExitCode(ErrConfirmationRequired))
	assert.Equal(t, ExitInvalidInput, ExitCode(&preset.ParseError{Section: preset.SectionFile}))
	assert.Equal(t, ExitMissingResource, ExitCode(fmt.Errorf("read: %w", fs.ErrNotExist)))
	assert.Equal(t, ExitMissingResource, ExitCode(fmt.Errorf("%w: Chemistry Lookup", sheets.ErrSheetNotFound)))
}

func TestClose_ReleasesAttributeCache(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	e.seedConversion(t)

	_, err := e.app.AttributePlayers(ctx)
	require.NoError(t, err)
	require.NoError(t, e.app.Close())

	_, err = e.app.AttributePlayers(ctx)
	assert.ErrorIs(t, err, attributes.ErrCacheClosed)
}
