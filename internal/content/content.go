// Package content serves the static site sections, authored as Markdown and
// rendered to HTML once at load.
package content

import (
	"bytes"
	"embed"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

//go:embed sections/*.md sections/index.yaml
var sectionFS embed.FS

var ErrUnknownSection = eris.New("unknown section")

type Section struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Anchor string `json:"anchor" yaml:"anchor"`
	HTML   string `json:"html,omitempty" yaml:"-"`
}

type Library struct {
	sections []Section
	byID     map[string]int
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the library built from the embedded sections.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load()
	})
	return defaultLib, defaultErr
}

// Load parses the section index and renders every section.
func Load() (*Library, error) {
	idx, err := sectionFS.ReadFile("sections/index.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "read section index")
	}
	var index struct {
		Sections []Section `yaml:"sections"`
	}
	if err := yaml.Unmarshal(idx, &index); err != nil {
		return nil, eris.Wrap(err, "decode section index")
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	lib := &Library{byID: map[string]int{}}
	for _, s := range index.Sections {
		src, err := sectionFS.ReadFile("sections/" + s.ID + ".md")
		if err != nil {
			return nil, eris.Wrapf(err, "read section %s", s.ID)
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, eris.Wrapf(err, "render section %s", s.ID)
		}
		s.HTML = buf.String()
		lib.byID[s.ID] = len(lib.sections)
		lib.sections = append(lib.sections, s)
	}
	return lib, nil
}

// List returns every section in page order, without rendered bodies.
func (l *Library) List() []Section {
	out := make([]Section, len(l.sections))
	for i, s := range l.sections {
		s.HTML = ""
		out[i] = s
	}
	return out
}

func (l *Library) Get(id string) (Section, error) {
	i, ok := l.byID[id]
	if !ok {
		return Section{}, eris.Wrapf(ErrUnknownSection, "section %q", id)
	}
	return l.sections[i], nil
}
