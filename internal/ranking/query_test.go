package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testView() *View {
	recs := []Record{
		{Name: "Alpha International", City: "Mumbai", State: "Maharashtra", Country: "India", Type: TypeSchool, LocalRank: 1, Position: 1},
		{Name: "Beta Public School", City: "Mumbai", State: "Maharashtra", Country: "India", Type: TypeSchool, LocalRank: 2, Position: 2},
		{Name: "Gamma Academy", City: "Pune", State: "Maharashtra", Country: "India", Type: TypeSchool, LocalRank: 1, Position: 3},
		{Name: "Delta College", City: "Hyderabad", State: "Telangana", Country: "India", Type: TypeCollege, LocalRank: 3, Position: 4},
		{Name: "Epsilon Vidyalaya", City: "Hyderabad", State: "Telangana", Country: "India", Type: TypeSchool, LocalRank: 45, Position: 5},
	}
	return NewView(Aggregate(recs, OrderNational))
}

func names(items []Institution) []string {
	out := make([]string, len(items))
	for i, in := range items {
		out[i] = in.Name
	}
	return out
}

func TestQueryUnknownCityIsEmpty(t *testing.T) {
	got := testView().Query(Filter{City: "Atlantis"}, HighToLow)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryExactFilters(t *testing.T) {
	v := testView()
	assert.Equal(t, []string{"Alpha International", "Gamma Academy", "Beta Public School", "Epsilon Vidyalaya"},
		names(v.Query(Filter{Type: string(TypeSchool)}, HighToLow)))
	assert.Equal(t, []string{"Delta College", "Epsilon Vidyalaya"},
		names(v.Query(Filter{Type: All, State: "Telangana", City: All, Tier: All}, HighToLow)))
	assert.Empty(t, v.Query(Filter{State: "telangana"}, HighToLow), "state match is case-sensitive")
	assert.Len(t, v.Query(Filter{Tier: string(TierDiamond)}, HighToLow), 5)
	assert.Empty(t, v.Query(Filter{Tier: string(TierGold)}, HighToLow))
}

func TestQuerySearch(t *testing.T) {
	v := testView()
	assert.Equal(t, []string{"Delta College", "Epsilon Vidyalaya"},
		names(v.Query(Filter{Search: "TELANGANA"}, HighToLow)))
	assert.Len(t, v.Query(Filter{Search: "india"}, HighToLow), 5)
	assert.Empty(t, v.Query(Filter{Search: "india", Scope: SearchNameCity}, HighToLow))
	assert.Equal(t, []string{"Gamma Academy"}, names(v.Query(Filter{Search: "pun", Scope: SearchNameCity}, HighToLow)))
}

func TestQuerySortDirection(t *testing.T) {
	v := testView()
	low := v.Query(Filter{}, LowToHigh)
	require.Len(t, low, 5)
	for i := 1; i < len(low); i++ {
		assert.LessOrEqual(t, low[i-1].Score, low[i].Score)
	}
	// Ties keep national order in both directions.
	assert.Equal(t, "Alpha International", low[3].Name)
	assert.Equal(t, "Gamma Academy", low[4].Name)
	assert.Equal(t, HighToLow, ParseSortDirection("bogus"))
	assert.Equal(t, LowToHigh, ParseSortDirection("lowToHigh"))
}

func TestTopOrdersByNationalRank(t *testing.T) {
	v := testView()
	top := v.Top(Filter{Type: All, City: "Mumbai", Scope: SearchNameCity}, 5)
	assert.Equal(t, []string{"Alpha International", "Beta Public School"}, names(top))
	assert.Len(t, v.Top(Filter{}, 3), 3)
	assert.Equal(t, 1, v.Top(Filter{}, 1)[0].NationalRank)
}

func TestFacets(t *testing.T) {
	v := testView()
	assert.Equal(t, []string{"Maharashtra", "Telangana"}, v.States(All))
	assert.Equal(t, []string{"Telangana"}, v.States(string(TypeCollege)))
	assert.Equal(t, []string{"Hyderabad", "Mumbai", "Pune"}, v.Cities(string(TypeSchool), All))
	assert.Equal(t, []string{"Mumbai", "Pune"}, v.Cities(All, "Maharashtra"))
}

func TestPaginate(t *testing.T) {
	items := Aggregate(syntheticCatalog(120), OrderNational)

	p := Paginate(items, 1, 50)
	assert.Equal(t, 120, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 50)
	assert.Equal(t, 1, p.Items[0].NationalRank)

	p = Paginate(items, 3, 50)
	assert.Len(t, p.Items, 20)
	assert.Equal(t, 101, p.Items[0].NationalRank)

	p = Paginate(items, 9, 50)
	assert.Empty(t, p.Items)

	p = Paginate(nil, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
}

func TestViewStateResets(t *testing.T) {
	s := NewViewState(string(TypeSchool))
	s.SetState("Telangana")
	s.SetCity("Hyderabad")
	s.SetPage(3, 5)
	assert.Equal(t, 3, s.Page)

	s.SetTier(string(TierGold))
	assert.Equal(t, 1, s.Page)

	s.SetState("Maharashtra")
	assert.Equal(t, All, s.Filter.City)

	s.SetCity("Mumbai")
	s.SetType(string(TypeCollege))
	assert.Equal(t, All, s.Filter.State)
	assert.Equal(t, All, s.Filter.City)

	s.SetPage(4, 2)
	s.SetSort(LowToHigh)
	assert.Equal(t, 1, s.Page)

	s.SetPage(9, 0)
	assert.Equal(t, 1, s.Page)
}

func TestViewStateApply(t *testing.T) {
	v := testView()
	s := NewViewState(string(TypeSchool))
	s.SetSearch("mumbai")
	p := s.Apply(v, 1)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, []string{"Alpha International"}, names(p.Items))
}
