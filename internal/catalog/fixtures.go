package catalog

import (
	"sort"
	"sync"

	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/rotisserie/eris"
)

type FixtureName string

const (
	// Summary keeps catalog order and backs the top-schools preview.
	Summary FixtureName = "summary"
	// Full is ordered by national rank and backs the paginated directory.
	Full FixtureName = "full"
)

var ErrUnknownFixture = eris.New("unknown ranking fixture")

// Fixture is one aggregated, read-only view of the seed catalog.
type Fixture struct {
	Name        FixtureName
	Order       ranking.Order
	DefaultType string
	View        *ranking.View
}

var fixtureOrders = map[FixtureName]ranking.Order{
	Summary: ranking.OrderCatalog,
	Full:    ranking.OrderNational,
}

var fixtureDefaultType = map[FixtureName]string{
	Summary: ranking.All,
	Full:    string(ranking.TypeSchool),
}

var (
	fixturesMu sync.Mutex
	fixtures   = map[FixtureName]*Fixture{}
)

func FixtureNames() []FixtureName {
	names := make([]FixtureName, 0, len(fixtureOrders))
	for n := range fixtureOrders {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Load returns the named fixture, aggregating it on first use.
func Load(name FixtureName) (*Fixture, error) {
	order, ok := fixtureOrders[name]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownFixture, "fixture %q", name)
	}
	fixturesMu.Lock()
	defer fixturesMu.Unlock()
	if f, ok := fixtures[name]; ok {
		return f, nil
	}
	recs, err := Records()
	if err != nil {
		return nil, err
	}
	f := NewFixture(name, order, recs)
	f.DefaultType = fixtureDefaultType[name]
	fixtures[name] = f
	return f, nil
}

// NewFixture aggregates records into a fixture without caching it.
func NewFixture(name FixtureName, order ranking.Order, recs []ranking.Record) *Fixture {
	return &Fixture{
		Name:        name,
		Order:       order,
		DefaultType: ranking.All,
		View:        ranking.NewView(ranking.Aggregate(recs, order)),
	}
}
