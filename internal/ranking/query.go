package ranking

import (
	"sort"
	"strings"
)

// All is the filter sentinel meaning "no constraint".
const All = "all"

const DefaultPageSize = 50

type SortDirection string

const (
	HighToLow SortDirection = "highToLow"
	LowToHigh SortDirection = "lowToHigh"
)

func ParseSortDirection(s string) SortDirection {
	if SortDirection(s) == LowToHigh {
		return LowToHigh
	}
	return HighToLow
}

// SearchScope selects which fields a search term is matched against.
type SearchScope int

const (
	// SearchAll matches name, city, country and state.
	SearchAll SearchScope = iota
	// SearchNameCity matches name and city only.
	SearchNameCity
)

// Filter is an AND of exact-match predicates plus an optional search term.
// Empty fields and the All sentinel match everything.
type Filter struct {
	Type   string      `json:"type,omitempty"`
	State  string      `json:"state,omitempty"`
	City   string      `json:"city,omitempty"`
	Tier   string      `json:"tier,omitempty"`
	Search string      `json:"search,omitempty"`
	Scope  SearchScope `json:"-"`
}

func matchExact(want, got string) bool {
	return want == "" || want == All || want == got
}

// Match reports whether in passes every predicate of f.
func (f Filter) Match(in Institution) bool {
	if !matchExact(f.Type, string(in.Type)) ||
		!matchExact(f.State, in.State) ||
		!matchExact(f.City, in.City) ||
		!matchExact(f.Tier, string(in.Tier)) {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	fields := []string{in.Name, in.City}
	if f.Scope == SearchAll {
		fields = append(fields, in.Country, in.State)
	}
	for _, v := range fields {
		if v != "" && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// View is a read-only query surface over an aggregated catalog. It is safe
// for concurrent use.
type View struct {
	items []Institution
}

// NewView wraps institutions, typically the output of Aggregate. The slice is
// copied.
func NewView(items []Institution) *View {
	return &View{items: append([]Institution(nil), items...)}
}

func (v *View) Len() int { return len(v.items) }

// Institutions returns a copy of the underlying list in its stored order.
func (v *View) Institutions() []Institution {
	return append([]Institution(nil), v.items...)
}

// Query filters the catalog and sorts the result by score. Ties keep the
// stored order. An unmatched filter yields an empty, non-nil slice.
func (v *View) Query(f Filter, dir SortDirection) []Institution {
	out := v.filter(f)
	if dir == LowToHigh {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}

// Top filters the catalog and returns at most limit institutions ordered by
// national rank.
func (v *View) Top(f Filter, limit int) []Institution {
	out := v.filter(f)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NationalRank < out[j].NationalRank })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (v *View) filter(f Filter) []Institution {
	out := make([]Institution, 0)
	for _, in := range v.items {
		if f.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

// States lists the distinct non-empty states for the given type filter,
// sorted.
func (v *View) States(typ string) []string {
	return v.distinct(func(in Institution) (string, bool) {
		return in.State, in.State != "" && matchExact(typ, string(in.Type))
	})
}

// Cities lists the distinct cities for the given type and state filters,
// sorted.
func (v *View) Cities(typ, state string) []string {
	return v.distinct(func(in Institution) (string, bool) {
		return in.City, matchExact(typ, string(in.Type)) && matchExact(state, in.State)
	})
}

func (v *View) distinct(pick func(Institution) (string, bool)) []string {
	set := make(map[string]struct{})
	for _, in := range v.items {
		if s, ok := pick(in); ok {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

type Page struct {
	Items      []Institution `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Paginate slices one page out of items. Pages are 1-based; a page past the
// end is empty rather than an error.
func Paginate(items []Institution, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	p := Page{
		Items:      []Institution{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := min(start+size, total)
	p.Items = items[start:end]
	return p
}
