package export

import (
	"context"
	"encoding/base64"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PDFRenderer turns a Markdown report into a PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, title, markdown string) ([]byte, error)
}

// Report is the printable form of a filtered ranking list.
type Report struct {
	Title     string
	Generated time.Time
	Filter    ranking.Filter
	Shape     Shape
	Items     []ranking.Institution
}

// Markdown renders the report as a heading, a filter summary and a GFM table.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + r.Title + "\n\n")
	b.WriteString("Generated " + r.Generated.UTC().Format("January 2, 2006") + ". ")
	if desc := describeFilter(r.Filter); desc != "" {
		b.WriteString("Filtered by " + desc + ". ")
	}
	b.WriteString(pluralize(len(r.Items), "institution") + ".\n\n")

	header := Header(r.Shape)
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, in := range r.Items {
		cells := Row(in, r.Shape)
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func describeFilter(f ranking.Filter) string {
	var parts []string
	add := func(label, v string) {
		if v != "" && v != ranking.All {
			parts = append(parts, label+" "+v)
		}
	}
	add("type", f.Type)
	add("state", f.State)
	add("city", f.City)
	add("level", f.Tier)
	if f.Search != "" {
		parts = append(parts, `search "`+f.Search+`"`)
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, noun string) string {
	s := strconv.Itoa(n) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}

type ChromiumPDFRenderer struct {
	webDir     string
	chromePath string
	styleOnce  sync.Once
	styleCSS   string
	styleErr   error
}

// NewChromiumPDFRenderer prints through a headless Chromium. An empty
// chromePath is autodetected.
func NewChromiumPDFRenderer(webDir, chromePath string) *ChromiumPDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromiumPDFRenderer{
		webDir:     webDir,
		chromePath: chromePath,
	}
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, title, markdown string) ([]byte, error) {
	htmlDoc, err := r.buildHTML(title, markdown)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`GTAP Rankings &middot; Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, eris.Wrap(err, "print pdf")
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) buildHTML(title, markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", eris.Wrap(err, "markdown convert")
	}
	styleCSS, err := r.loadStyleCSS()
	if err != nil {
		return "", err
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "\n" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{background:#fff !important;padding:0.6rem;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} }" +
		"</style></head><body><section class='report-html'>" +
		applyTierBadges(content.String()) +
		"</section></body></html>", nil
}

var tierCell = regexp.MustCompile(`<td>(Diamond|Platinum|Gold|Silver|Emerging)</td>`)

// applyTierBadges tags tier cells so print.css can colour them.
func applyTierBadges(contentHTML string) string {
	return tierCell.ReplaceAllStringFunc(contentHTML, func(m string) string {
		tier := tierCell.FindStringSubmatch(m)[1]
		return `<td class="tier tier-` + strings.ToLower(tier) + `">` + tier + `</td>`
	})
}

func (r *ChromiumPDFRenderer) loadStyleCSS() (string, error) {
	r.styleOnce.Do(func() {
		b, err := os.ReadFile(filepath.Join(r.webDir, "print.css"))
		if err != nil {
			r.styleErr = eris.Wrap(err, "read print.css")
			return
		}
		r.styleCSS = string(b)
	})
	return r.styleCSS, r.styleErr
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
