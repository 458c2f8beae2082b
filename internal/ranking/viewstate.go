package ranking

// ViewState holds the mutable filter, sort and page selections of one
// directory view. Any change other than SetPage returns to page 1.
type ViewState struct {
	Filter Filter        `json:"filter"`
	Sort   SortDirection `json:"sort"`
	Page   int           `json:"page"`
}

func NewViewState(defaultType string) ViewState {
	return ViewState{
		Filter: Filter{Type: defaultType, State: All, City: All, Tier: All},
		Sort:   HighToLow,
		Page:   1,
	}
}

// SetType changes the type filter and clears the state and city filters,
// whose facets depend on it.
func (s *ViewState) SetType(v string) {
	s.Filter.Type = v
	s.Filter.State = All
	s.Filter.City = All
	s.Page = 1
}

// SetState changes the state filter and clears the city filter.
func (s *ViewState) SetState(v string) {
	s.Filter.State = v
	s.Filter.City = All
	s.Page = 1
}

func (s *ViewState) SetCity(v string) {
	s.Filter.City = v
	s.Page = 1
}

func (s *ViewState) SetTier(v string) {
	s.Filter.Tier = v
	s.Page = 1
}

func (s *ViewState) SetSearch(v string) {
	s.Filter.Search = v
	s.Page = 1
}

func (s *ViewState) SetSort(d SortDirection) {
	s.Sort = d
	s.Page = 1
}

// SetPage moves to page p, clamped to [1, totalPages]. With no pages the
// view stays on page 1.
func (s *ViewState) SetPage(p, totalPages int) {
	if p > totalPages {
		p = totalPages
	}
	if p < 1 {
		p = 1
	}
	s.Page = p
}

// Apply runs the state against a view and returns the current page.
func (s ViewState) Apply(v *View, pageSize int) Page {
	return Paginate(v.Query(s.Filter, s.Sort), s.Page, pageSize)
}
