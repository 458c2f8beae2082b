package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joelkehle/gtap-site/internal/catalog"
	"github.com/joelkehle/gtap-site/internal/export"
	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const pdfTimeout = 60 * time.Second

// filterFlags are the directory filters shared by export and top.
type filterFlags struct {
	typ, state, city, tier, search string
}

func (f *filterFlags) register(cmd *cobra.Command, defaultType string) {
	cmd.Flags().StringVar(&f.typ, "type", defaultType, "institution type, or all (default: the view's default type)")
	cmd.Flags().StringVar(&f.state, "state", ranking.All, "state, or all")
	cmd.Flags().StringVar(&f.city, "city", ranking.All, "city, or all")
	cmd.Flags().StringVar(&f.tier, "tier", ranking.All, "accreditation level, or all")
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive search term")
}

// viewState applies the flags to a fresh view state. An empty type keeps the
// fixture's default type.
func (f *filterFlags) viewState(fx *catalog.Fixture) (ranking.ViewState, error) {
	st := ranking.NewViewState(fx.DefaultType)
	if f.typ != "" {
		st.SetType(f.typ)
	}
	st.SetState(f.state)
	st.SetCity(f.city)
	if f.tier != ranking.All {
		tier, ok := ranking.ParseTier(f.tier)
		if !ok {
			return st, eris.Errorf("unknown --tier %q (want all, Diamond, Platinum, Gold, Silver or Emerging)", f.tier)
		}
		st.SetTier(string(tier))
	}
	st.SetSearch(strings.TrimSpace(f.search))
	if fx.Name == catalog.Summary {
		st.Filter.Scope = ranking.SearchNameCity
	}
	return st, nil
}

func newExportCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		fixture string
		format  string
		out     string
		order   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a ranking view as CSV, XLSX or PDF",
		Example: `  gtap-site export --fixture full --format csv --out rankings.csv
  gtap-site export --fixture summary --format pdf
  gtap-site export --tier Diamond --type all --out -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := catalog.Load(catalog.FixtureName(fixture))
			if err != nil {
				return err
			}
			st, err := filters.viewState(fx)
			if err != nil {
				return err
			}
			st.SetSort(ranking.ParseSortDirection(order))

			shape := export.ShapeFull
			var items []ranking.Institution
			if fx.Name == catalog.Summary {
				shape = export.ShapeSummary
				items = fx.View.Top(st.Filter, a.cfg.Rankings.SummaryLimit)
			} else {
				items = fx.View.Query(st.Filter, st.Sort)
			}

			body, err := a.render(cmd.Context(), format, shape, st.Filter, items)
			if err != nil {
				return err
			}
			if out == "" {
				out = export.Filename(shape, format, time.Now())
			}
			if err := writeOutput(cmd.OutOrStdout(), out, body); err != nil {
				return err
			}
			a.logger.Info("export written",
				zap.String("fixture", fixture),
				zap.String("format", format),
				zap.Int("rows", len(items)),
				zap.String("out", out),
			)
			return nil
		},
	}
	filters.register(cmd, "")
	cmd.Flags().StringVar(&fixture, "fixture", string(catalog.Full), "ranking view: full or summary")
	cmd.Flags().StringVar(&format, "format", "csv", "csv, xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default dated filename)`)
	cmd.Flags().StringVar(&order, "sort", string(ranking.HighToLow), "highToLow or lowToHigh (full view only)")
	return cmd
}

func (a *app) render(ctx context.Context, format string, shape export.Shape, filter ranking.Filter, items []ranking.Institution) ([]byte, error) {
	switch format {
	case "csv":
		return []byte(export.CSV(items, shape)), nil
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, items, shape); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "pdf":
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
		defer cancel()
		report := export.Report{
			Title:     "GTAP School Rankings",
			Generated: time.Now(),
			Filter:    filter,
			Shape:     shape,
			Items:     items,
		}
		renderer := export.NewChromiumPDFRenderer(resolveWebDir(a.cfg.WebDir), a.cfg.PDF.ChromePath)
		return renderer.Render(ctx, report.Title, report.Markdown())
	}
	return nil, eris.Errorf("unknown format %q (want csv, xlsx or pdf)", format)
}

func writeOutput(stdout io.Writer, out string, body []byte) error {
	if out == "-" {
		if _, err := stdout.Write(body); err != nil {
			return eris.Wrap(err, "write stdout")
		}
		return nil
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", out)
	}
	return nil
}

func newTopCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the top ranked institutions",
		Example: `  gtap-site top --state Telangana --limit 10
  gtap-site top --tier Diamond --limit 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return eris.Errorf("--limit must be at least 1, got %d", limit)
			}
			fx, err := catalog.Load(catalog.Full)
			if err != nil {
				return err
			}
			st, err := filters.viewState(fx)
			if err != nil {
				return err
			}
			items := fx.View.Top(st.Filter, limit)
			printTop(cmd.OutOrStdout(), st.Filter, items)
			return nil
		},
	}
	filters.register(cmd, ranking.All)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of institutions")
	return cmd
}

var tierColors = map[ranking.Tier]*color.Color{
	ranking.TierDiamond:  color.New(color.FgCyan, color.Bold),
	ranking.TierPlatinum: color.New(color.FgWhite, color.Bold),
	ranking.TierGold:     color.New(color.FgYellow),
	ranking.TierSilver:   color.New(color.FgHiBlack),
	ranking.TierEmerging: color.New(color.FgGreen),
}

func printTop(w io.Writer, f ranking.Filter, items []ranking.Institution) {
	title := "Top " + strconv.Itoa(len(items)) + " institutions"
	if f.State != "" && f.State != ranking.All {
		title += " in " + f.State
	}
	color.New(color.FgYellow).Fprintln(w, "\n"+title)
	if len(items) == 0 {
		color.New(color.FgRed).Fprintln(w, "No institutions match.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"National", "State", "Name", "City", "Level", "Score"})
	for _, in := range items {
		stateRank := "-"
		if in.StateRank > 0 {
			stateRank = strconv.Itoa(in.StateRank)
		}
		level := string(in.Tier)
		if c, ok := tierColors[in.Tier]; ok {
			level = c.Sprint(level)
		}
		table.Append([]string{
			strconv.Itoa(in.NationalRank),
			stateRank,
			in.Name,
			in.City,
			level,
			strconv.Itoa(in.Score),
		})
	}
	table.Render()
}
