package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clbtools/clbtools/internal/app"
	"github.com/clbtools/clbtools/internal/attributes"
	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/config"
	"github.com/clbtools/clbtools/internal/lookup"
	"github.com/clbtools/clbtools/internal/props"
	"github.com/clbtools/clbtools/internal/sheets"
)

func init() { gin.SetMode(gin.TestMode) }

type fixture struct {
	srv   *Server
	wb    *sheets.Workbook
	props *props.FileStore
	cfg   config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default(t.TempDir())
	wb, err := sheets.Open(cfg.WorkbookPath())
	require.NoError(t, err)
	ps, err := props.OpenFile(cfg.PropsOptions().Path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ps.Close()
		_ = wb.Close()
	})
	return &fixture{srv: New(app.New(cfg, wb, ps)), wb: wb, props: ps, cfg: cfg}
}

func (f *fixture) publish(t *testing.T) {
	t.Helper()
	pairs := []chemistry.Pair{
		chemistry.NewPair("Mario", "Luigi", 120),
		chemistry.NewPair("Mario", "Bowser", -150),
		chemistry.NewPair("Luigi", "Bowser", -100),
		chemistry.NewPair("Peach", "Mario", 100),
		chemistry.NewPair("Peach", "Luigi", 100),
	}
	lookup.SortPairs(pairs)
	_, _, err := lookup.Publish(context.Background(), f.props, pairs, chemistry.DefaultThresholds, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestPlayers(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, "/api/players", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, body["error"], "chemistry data not found")

	f.publish(t)
	w, body = f.do(t, http.MethodGet, "/api/players", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Bowser", "Luigi", "Mario", "Peach"}, body["players"])
}

func TestChemistry(t *testing.T) {
	f := newFixture(t)
	f.publish(t)

	w, body := f.do(t, http.MethodPost, "/api/chemistry", `{"players":["Mario"," Luigi ",""]}`)
	require.Equal(t, http.StatusOK, w.Code)

	players := body["players"].([]any)
	require.Len(t, players, 2)
	mario := players[0].(map[string]any)
	assert.Equal(t, "Mario", mario["name"])
	assert.Equal(t, []any{"Luigi", "Peach"}, mario["positive"])
	assert.Equal(t, []any{"Bowser"}, mario["negative"])

	team := body["teamAnalysis"].(map[string]any)
	assert.EqualValues(t, 1, team["internalPositive"])
	shared := team["sharedPositive"].(map[string]any)
	assert.Equal(t, []any{"Mario", "Luigi"}, shared["Peach"])
	assert.Contains(t, team["sharedNegative"].(map[string]any), "Bowser")

	w, _ = f.do(t, http.MethodPost, "/api/chemistry", `{"players":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChemistry_EmptyRequest(t *testing.T) {
	f := newFixture(t)
	w, body := f.do(t, http.MethodPost, "/api/chemistry", `{"players":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["players"])
	assert.Nil(t, body["teamAnalysis"])
}

func TestFreshness(t *testing.T) {
	f := newFixture(t)
	w, _ := f.do(t, http.MethodGet, "/api/freshness", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.publish(t)
	w, body := f.do(t, http.MethodGet, "/api/freshness", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, body["rowCount"])
	assert.Equal(t, "2026-01-01T00:00:00.000Z", body["timestamp"])
	assert.NotZero(t, body["checksum"])
}

func TestAttributes(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, http.MethodGet, "/api/attributes/players", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	players := []attributes.Player{
		{Name: "Mario", SlapContact: 60, ChargeContact: 40, SlapPower: 50, ChargePower: 70, Fielding: 80, ThrowingSpeed: 60},
		{Name: "Luigi"},
	}
	require.NoError(t, attributes.WritePlayers(f.wb, f.cfg.Sheets.Attributes, players))

	w, body := f.do(t, http.MethodGet, "/api/attributes/players", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Luigi", "Mario"}, body["players"])

	w, body = f.do(t, http.MethodGet, "/api/attributes?name=Mario,Nobody&averages=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := body["players"].([]any)
	require.Len(t, list, 1)
	mario := list[0].(map[string]any)
	assert.EqualValues(t, 55, mario["battingAverage"])
	assert.EqualValues(t, 70, mario["fieldingAverage"])

	w, _ = f.do(t, http.MethodGet, "/api/attributes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = f.do(t, http.MethodDelete, "/api/attributes/cache", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestCharacterChemistry(t *testing.T) {
	f := newFixture(t)

	w, body := f.do(t, http.MethodGet, "/api/characters/Mario/chemistry", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mario", body["character"])
	assert.Empty(t, body["relationships"])

	w, _ = f.do(t, http.MethodGet, "/api/characters/Nobody/chemistry", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
