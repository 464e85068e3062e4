package attributes

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clbtools/clbtools/internal/sheets"
)

func TestEnums_BoundsChecked(t *testing.T) {
	_, err := CharacterClassFromIndex(4)
	assert.Error(t, err)
	c, err := CharacterClassFromIndex(3)
	require.NoError(t, err)
	assert.Equal(t, "Technique", c.String())

	_, err = SideFromIndex(-1)
	assert.Error(t, err)
	_, err = StarSwingFromIndex(13)
	assert.Error(t, err)

	_, err = CombineAbility(13, 0)
	assert.Error(t, err)
	_, err = CombineStarPitch(0, 4)
	assert.Error(t, err)

	assert.Equal(t, "", CharacterClass(9).String())
}

func TestAbility_CombineSplitRoundTrip(t *testing.T) {
	for f := 0; f < len(fieldingTable.names); f++ {
		a, err := CombineAbility(f, 0)
		require.NoError(t, err)
		parsed, ok := ParseAbility(a.String())
		require.True(t, ok, a.String())
		gotF, gotB := parsed.Split()
		assert.Equal(t, [2]int{f, 0}, [2]int{gotF, gotB})
	}
	for b := 0; b < len(baserunningTable.names); b++ {
		a, err := CombineAbility(0, b)
		require.NoError(t, err)
		parsed, ok := ParseAbility(a.String())
		require.True(t, ok)
		gotF, gotB := parsed.Split()
		assert.Equal(t, [2]int{0, b}, [2]int{gotF, gotB})
	}

	both, err := CombineAbility(2, 3)
	require.NoError(t, err)
	assert.Equal(t, Ability{Kind: AbilityFielding, Index: 2}, both)
	assert.Equal(t, "Super Jump", both.String())

	_, ok := ParseAbility("Moon Jump")
	assert.False(t, ok)
}

func TestStarPitch_CombineSplitRoundTrip(t *testing.T) {
	for s := 0; s < len(specialTable.names); s++ {
		for ty := 0; ty < len(pitchTypeTable.names); ty++ {
			sp, err := CombineStarPitch(s, ty)
			require.NoError(t, err)
			parsed, ok := ParseStarPitch(sp.String())
			require.True(t, ok, sp.String())
			assert.Equal(t, sp, parsed)
		}
	}

	sp, _ := CombineStarPitch(1, 2)
	assert.Equal(t, "Fireball", sp.String())
	sp, _ = CombineStarPitch(0, 2)
	assert.Equal(t, "Fastball", sp.String())
	sp, _ = CombineStarPitch(0, 0)
	assert.Equal(t, "None", sp.String())

	parsed, ok := ParseStarPitch("Standard")
	assert.True(t, ok)
	assert.Equal(t, StarPitch{}, parsed)
}

func TestAverages(t *testing.T) {
	p := Player{
		CurveballSpeed: 100, FastballSpeed: 140, Curve: 50, Stamina: 70,
		SlapContact: 40, ChargeContact: 50, SlapPower: 60, ChargePower: 71,
		ThrowingSpeed: 55, Fielding: 60,
	}
	avg := p.Averages()
	assert.InDelta(t, 60.0, avg.Pitching, 1e-9)
	assert.InDelta(t, 55.25, avg.Batting, 1e-9)
	assert.InDelta(t, 57.5, avg.Fielding, 1e-9)

	assert.Nil(t, p.View().Averages)
	require.NotNil(t, p.ViewWithAverages().Averages)
}

func TestParseRows_LocatesColumnsByHeader(t *testing.T) {
	rows := [][]string{
		{"Stamina", "Name", "Ability", "Character Class", "Star Pitch", "Captain", "Arm Side"},
		{"70", "Mario", "Super Jump", "Balanced", "Fireball", "Yes", "Left"},
		{"", "", "", "", "", "", ""},
		{"x", "Luigi", "Moon Jump", "Wizard", "Change-Up", "No", ""},
	}
	got := ParseRows(rows)
	require.Len(t, got, 2)

	assert.Equal(t, "Mario", got[0].Name)
	assert.Equal(t, 70, got[0].Stamina)
	assert.Equal(t, Ability{Kind: AbilityFielding, Index: 2}, got[0].Ability)
	assert.Equal(t, StarPitch{Kind: StarPitchSpecial, Index: 1}, got[0].StarPitch)
	assert.True(t, got[0].Captain)
	assert.Equal(t, SideLeft, got[0].ArmSide)

	assert.Equal(t, Ability{}, got[1].Ability)
	assert.Equal(t, ClassBalanced, got[1].Class)
	assert.Equal(t, StarPitch{Kind: StarPitchType, Index: 3}, got[1].StarPitch)
	assert.Equal(t, 0, got[1].Stamina)
}

func TestWritePlayers_PreservesUserColumns(t *testing.T) {
	wb, err := sheets.Open(filepath.Join(t.TempDir(), "db.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	const sheet = "Advanced Attributes"
	first := []Player{{Name: "Mario", Mii: "Yes", MiiColor: "Red", PreCharge: "Fast", Stamina: 10}}
	require.NoError(t, WritePlayers(wb, sheet, first))

	second := []Player{
		{Name: "Mario", Stamina: 20},
		{Name: "Luigi", Stamina: 30, Ability: Ability{Kind: AbilityBaserunning, Index: 4}},
	}
	require.NoError(t, WritePlayers(wb, sheet, second))

	rows, err := wb.Rows(sheet)
	require.NoError(t, err)
	assert.Equal(t, Header, rows[0])
	got := ParseRows(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "Yes", got[0].Mii)
	assert.Equal(t, "Red", got[0].MiiColor)
	assert.Equal(t, "Fast", got[0].PreCharge)
	assert.Equal(t, 20, got[0].Stamina)
	assert.Equal(t, "Teleport", got[1].Ability.String())
	assert.Equal(t, []string{"Mario", "Luigi"}, Names(rows))
}

func TestCache_GetRefreshInvalidate(t *testing.T) {
	calls := 0
	players := []Player{{Name: "Mario"}, {Name: "Bowser"}}
	c := NewCache(func(context.Context) ([]Player, error) {
		calls++
		return players, nil
	}, time.Minute)
	ctx := context.Background()

	s, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bowser", "Mario"}, s.PlayerList())
	_, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	players = append(players, Player{Name: "Luigi"})
	s, err = c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, s.PlayerList(), 3)

	c.Invalidate()
	_, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	got := s.Players([]string{"Luigi", "Nobody", "Mario"})
	require.Len(t, got, 2)
	assert.Equal(t, "Luigi", got[0].Name)
	views := s.Views([]string{"Mario"}, true)
	require.Len(t, views, 1)
	assert.NotNil(t, views[0].Averages)
}

func TestCache_Expires(t *testing.T) {
	calls := 0
	c := NewCache(func(context.Context) ([]Player, error) {
		calls++
		return nil, nil
	}, 20*time.Millisecond)

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCache_LoadError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCache(func(context.Context) ([]Player, error) { return nil, boom }, 0)
	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCache_Close(t *testing.T) {
	calls := 0
	c := NewCache(func(context.Context) ([]Player, error) {
		calls++
		return []Player{{Name: "Mario"}}, nil
	}, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheClosed)
	_, err = c.Refresh(ctx)
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.Equal(t, 1, calls)
}
