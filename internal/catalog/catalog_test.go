package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog(t *testing.T) {
	recs, err := Records()
	require.NoError(t, err)
	require.Len(t, recs, 332)

	cities := map[string]int{}
	for i, r := range recs {
		assert.Equal(t, i+1, r.Position)
		assert.NotEmpty(t, r.State, "city %s has no state", r.City)
		assert.Equal(t, Country, r.Country)
		assert.Equal(t, ranking.TypeSchool, r.Type)
		cities[r.City]++
	}
	assert.Len(t, cities, 20)
	assert.Equal(t, 50, cities["Mumbai"])
	assert.Equal(t, 50, cities["Hyderabad"])
	assert.Equal(t, 40, cities["Bengaluru"])
	assert.Equal(t, 6, cities["Rajahmundry"])

	first := recs[0]
	assert.Equal(t, "Dhirubhai Ambani International School, BKC", first.Name)
	assert.Equal(t, 1, first.LocalRank)
	assert.Equal(t, ranking.BoardIB, first.Board)
	assert.Equal(t, "Maharashtra", first.State)
}

func TestRecordsReturnsCopy(t *testing.T) {
	a, err := Records()
	require.NoError(t, err)
	a[0].Name = "changed"
	b, err := Records()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", b[0].Name)
}

func TestParse(t *testing.T) {
	src := `
cities:
  - city: Goa
    schools:
      - {name: "Sharada Mandir", rank: 1, board: "ICSE/ISC"}
      - {name: "Kings School", rank: 2, score: 470}
`
	recs, err := Parse(strings.NewReader(src), map[string]string{"Goa": "Goa"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, ranking.BoardICSE, recs[0].Board)
	assert.Equal(t, ranking.BoardNone, recs[1].Board)
	assert.Equal(t, 470, recs[1].ScoreOverride)
	assert.Equal(t, 2, recs[1].Position)
}

func TestParseRejectsBadRows(t *testing.T) {
	_, err := Parse(strings.NewReader("cities:\n  - city: Goa\n    schools:\n      - {name: X, rank: 0}\n"), nil)
	assert.Error(t, err)
	_, err = Parse(strings.NewReader("cities: [oops"), nil)
	assert.Error(t, err)
}

func TestFixtures(t *testing.T) {
	full, err := Load(Full)
	require.NoError(t, err)
	items := full.View.Institutions()
	require.Len(t, items, 332)
	for i, in := range items {
		require.Equal(t, i+1, in.NationalRank)
	}
	assert.Equal(t, string(ranking.TypeSchool), full.DefaultType)

	// 20 city leaders share the top score; the next five are the runners-up
	// of the first five cities in catalog order.
	diamonds := full.View.Query(ranking.Filter{Tier: string(ranking.TierDiamond)}, ranking.HighToLow)
	require.Len(t, diamonds, 25)
	assert.Equal(t, 490, diamonds[19].Score)
	assert.Equal(t, 480, diamonds[20].Score)

	summary, err := Load(Summary)
	require.NoError(t, err)
	s := summary.View.Institutions()
	require.Len(t, s, 332)
	for i, in := range s {
		require.Equal(t, i+1, in.Position)
	}
	top := summary.View.Top(ranking.Filter{Scope: ranking.SearchNameCity}, 5)
	require.Len(t, top, 5)
	assert.Equal(t, "Dhirubhai Ambani International School, BKC", top[0].Name)
	assert.Equal(t, "Oakridge International School, Gachibowli", top[1].Name)

	again, err := Load(Full)
	require.NoError(t, err)
	assert.Same(t, full, again)

	_, err = Load("bogus")
	assert.True(t, errors.Is(err, ErrUnknownFixture))
}

func TestFixtureNames(t *testing.T) {
	assert.Equal(t, []FixtureName{Full, Summary}, FixtureNames())
}
