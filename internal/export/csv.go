package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/joelkehle/gtap-site/internal/ranking"
)

// Shape selects one of the two export layouts.
type Shape string

const (
	// ShapeFull is the ten-column directory layout.
	ShapeFull Shape = "full"
	// ShapeSummary is the eight-column preview layout. Its Rank column is the
	// row's catalog position.
	ShapeSummary Shape = "summary"
)

var (
	fullHeader    = []string{"National Rank", "State Rank", "School Name", "Type", "City", "State", "Country", "Accreditation Level", "Score", "Focus Areas"}
	summaryHeader = []string{"Rank", "School Name", "City", "Country", "Type", "Board", "Accreditation Level", "Focus Areas"}
)

const focusSeparator = "; "

// Header returns the column names for shape.
func Header(shape Shape) []string {
	if shape == ShapeSummary {
		return append([]string(nil), summaryHeader...)
	}
	return append([]string(nil), fullHeader...)
}

// Row returns the unquoted cell values of in for shape.
func Row(in ranking.Institution, shape Shape) []string {
	focus := strings.Join(in.FocusAreas, focusSeparator)
	if shape == ShapeSummary {
		return []string{
			strconv.Itoa(in.Position),
			in.Name,
			in.City,
			in.Country,
			string(in.Type),
			string(in.Board),
			string(in.Tier),
			focus,
		}
	}
	return []string{
		rankCell(in.NationalRank),
		rankCell(in.StateRank),
		in.Name,
		string(in.Type),
		in.City,
		in.State,
		in.Country,
		string(in.Tier),
		strconv.Itoa(in.Score),
		focus,
	}
}

func rankCell(r int) string {
	if r == 0 {
		return ""
	}
	return strconv.Itoa(r)
}

// quotedColumns marks the name and focus-area columns, which are always
// quoted. Other columns are written bare.
func quotedColumns(shape Shape) map[int]bool {
	if shape == ShapeSummary {
		return map[int]bool{1: true, 7: true}
	}
	return map[int]bool{2: true, 9: true}
}

// quote doubles embedded quotes (RFC 4180). The site's original export wrapped
// the field without escaping, which left such names unparseable.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSV serializes items as comma-separated text: a header line then one line
// per item, joined by "\n" with no trailing newline. The name and focus-area
// fields are always double-quoted and embedded quotes are doubled.
func CSV(items []ranking.Institution, shape Shape) string {
	quoted := quotedColumns(shape)
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(Header(shape), ","))
	for _, in := range items {
		cells := Row(in, shape)
		for i, c := range cells {
			if quoted[i] {
				cells[i] = quote(c)
			}
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// Prefix is the download filename prefix for shape.
func Prefix(shape Shape) string {
	if shape == ShapeSummary {
		return "school-rankings"
	}
	return "school-rankings-full"
}

// Filename builds "<prefix>-<YYYY-MM-DD>.<ext>" using the UTC date of now.
func Filename(shape Shape, ext string, now time.Time) string {
	return Prefix(shape) + "-" + now.UTC().Format("2006-01-02") + "." + strings.TrimPrefix(ext, ".")
}
