package catalog

import (
	"embed"
	"io"
	"sync"

	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const Country = "India"

//go:embed data/schools.yaml data/states.yaml
var seedFS embed.FS

type seedSchool struct {
	Name  string `yaml:"name"`
	Rank  int    `yaml:"rank"`
	Board string `yaml:"board"`
	Score int    `yaml:"score"`
}

type seedCity struct {
	City    string       `yaml:"city"`
	Schools []seedSchool `yaml:"schools"`
}

type seedFile struct {
	Cities []seedCity `yaml:"cities"`
}

type stateFile struct {
	States map[string]string `yaml:"states"`
}

var (
	seedOnce    sync.Once
	seedRecords []ranking.Record
	seedErr     error
)

// Records returns the embedded seed catalog in catalog order. The result is
// a fresh copy on every call.
func Records() ([]ranking.Record, error) {
	seedOnce.Do(func() {
		seedRecords, seedErr = loadEmbedded()
	})
	if seedErr != nil {
		return nil, seedErr
	}
	return append([]ranking.Record(nil), seedRecords...), nil
}

func loadEmbedded() ([]ranking.Record, error) {
	states, err := seedFS.Open("data/states.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "open state lookup")
	}
	defer states.Close()
	lookup, err := ParseStates(states)
	if err != nil {
		return nil, err
	}
	schools, err := seedFS.Open("data/schools.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "open seed catalog")
	}
	defer schools.Close()
	return Parse(schools, lookup)
}

// ParseStates reads a city to state lookup table.
func ParseStates(r io.Reader) (map[string]string, error) {
	var f stateFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, eris.Wrap(err, "decode state lookup")
	}
	if f.States == nil {
		f.States = map[string]string{}
	}
	return f.States, nil
}

// Parse reads a city-grouped catalog. Cities missing from states get an
// empty state. Every row is a School in India; positions are assigned in file
// order starting at 1.
func Parse(r io.Reader, states map[string]string) ([]ranking.Record, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, eris.Wrap(err, "decode seed catalog")
	}
	var out []ranking.Record
	for _, c := range f.Cities {
		if c.City == "" {
			return nil, eris.New("seed catalog: city with no name")
		}
		for _, s := range c.Schools {
			if s.Name == "" {
				return nil, eris.Errorf("seed catalog: unnamed school in %s", c.City)
			}
			if s.Rank < 1 {
				return nil, eris.Errorf("seed catalog: %s in %s has rank %d", s.Name, c.City, s.Rank)
			}
			out = append(out, ranking.Record{
				Name:          s.Name,
				City:          c.City,
				State:         states[c.City],
				Country:       Country,
				Type:          ranking.TypeSchool,
				LocalRank:     s.Rank,
				Position:      len(out) + 1,
				Board:         ranking.BoardType(s.Board),
				ScoreOverride: s.Score,
			})
		}
	}
	return out, nil
}
