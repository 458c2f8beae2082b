package site

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joelkehle/gtap-site/internal/catalog"
	"github.com/joelkehle/gtap-site/internal/export"
	"github.com/joelkehle/gtap-site/internal/ranking"
	"github.com/joelkehle/gtap-site/internal/telemetry"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const maxImportSize = 16 << 20

var errUnknownTier = eris.New("unknown accreditation level")

type facets struct {
	Types  []string `json:"types"`
	States []string `json:"states"`
	Cities []string `json:"cities"`
	Tiers  []string `json:"tiers"`
}

type rankingsResponse struct {
	Fixture catalog.FixtureName `json:"fixture"`
	State   ranking.ViewState   `json:"state"`
	Facets  facets              `json:"facets"`
	// Matched counts every row passing the filter, before the summary cap.
	Matched int `json:"matched"`
	ranking.Page
}

// viewRequest is a fixture plus the view state parsed from query parameters.
type viewRequest struct {
	fixture *catalog.Fixture
	state   ranking.ViewState
	page    int
}

func shapeFor(name catalog.FixtureName) export.Shape {
	if name == catalog.Summary {
		return export.ShapeSummary
	}
	return export.ShapeFull
}

// parseView reads type, state, city, tier, q, sort and page. Facet
// selections are applied in dependency order so a state picked for one type
// is not carried over to another.
func (s *Server) parseView(r *http.Request) (viewRequest, error) {
	fx, err := catalog.Load(catalog.FixtureName(mux.Vars(r)["fixture"]))
	if err != nil {
		return viewRequest{}, err
	}
	q := r.URL.Query()
	st := ranking.NewViewState(fx.DefaultType)
	if v := q.Get("type"); v != "" {
		st.SetType(v)
	}
	if v := q.Get("state"); v != "" {
		st.SetState(v)
	}
	if v := q.Get("city"); v != "" {
		st.SetCity(v)
	}
	if v := q.Get("tier"); v != "" && v != ranking.All {
		tier, ok := ranking.ParseTier(v)
		if !ok {
			return viewRequest{}, eris.Wrapf(errUnknownTier, "tier %q", v)
		}
		st.SetTier(string(tier))
	}
	st.SetSearch(strings.TrimSpace(q.Get("q")))
	st.SetSort(ranking.ParseSortDirection(q.Get("sort")))
	if fx.Name == catalog.Summary {
		st.Filter.Scope = ranking.SearchNameCity
	}
	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	return viewRequest{fixture: fx, state: st, page: page}, nil
}

// items returns the unpaginated list the view shows. The summary view is
// capped to its top entries by national rank.
func (s *Server) items(vr viewRequest) []ranking.Institution {
	if vr.fixture.Name == catalog.Summary {
		return vr.fixture.View.Top(vr.state.Filter, s.summaryLimit)
	}
	return vr.fixture.View.Query(vr.state.Filter, vr.state.Sort)
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	_, span := telemetry.Tracer().Start(r.Context(), "rankings.query")
	defer span.End()

	vr, err := s.parseView(r)
	if err != nil {
		s.writeViewError(w, span, err)
		return
	}
	span.SetAttributes(attribute.String("fixture", string(vr.fixture.Name)))

	view := vr.fixture.View
	resp := rankingsResponse{Fixture: vr.fixture.Name}
	resp.Facets.Types = append([]string{ranking.All}, typeNames()...)
	resp.Facets.Tiers = append([]string{ranking.All}, tierNames()...)

	if vr.fixture.Name == catalog.Summary {
		top := s.items(vr)
		resp.Page = ranking.Page{Items: top, Page: 1, PageSize: s.summaryLimit, Total: len(top), TotalPages: 1}
		resp.Matched = len(view.Query(vr.state.Filter, ranking.HighToLow))
		resp.Facets.Cities = view.Cities(ranking.All, ranking.All)
	} else {
		all := view.Query(vr.state.Filter, vr.state.Sort)
		vr.state.SetPage(vr.page, (len(all)+s.pageSize-1)/s.pageSize)
		resp.Page = ranking.Paginate(all, vr.state.Page, s.pageSize)
		resp.Matched = len(all)
		resp.Facets.States = view.States(vr.state.Filter.Type)
		resp.Facets.Cities = view.Cities(vr.state.Filter.Type, vr.state.Filter.State)
	}
	resp.State = vr.state
	span.SetAttributes(attribute.Int("results", resp.Total))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeViewError(w http.ResponseWriter, span trace.Span, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownFixture):
		writeError(w, http.StatusNotFound, "unknown ranking view")
	case errors.Is(err, errUnknownTier):
		writeError(w, http.StatusBadRequest, "unknown accreditation level")
	default:
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("load ranking fixture", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load rankings")
	}
}

func typeNames() []string {
	out := make([]string, len(ranking.InstitutionTypes))
	for i, t := range ranking.InstitutionTypes {
		out[i] = string(t)
	}
	return out
}

func tierNames() []string {
	out := make([]string, len(ranking.Tiers))
	for i, t := range ranking.Tiers {
		out[i] = string(t)
	}
	return out
}

type exportFile struct {
	body        []byte
	contentType string
}

var exportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

// exportCacheKey identifies a rendered export. The date is part of it since
// PDF reports print the generation date.
func (s *Server) exportCacheKey(vr viewRequest, format string) string {
	f := vr.state.Filter
	return strings.Join([]string{
		"export", string(vr.fixture.Name), format, s.now().UTC().Format("2006-01-02"),
		f.Type, f.State, f.City, f.Tier, f.Search, string(vr.state.Sort),
	}, "|")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "rankings.export")
	defer span.End()

	vr, err := s.parseView(r)
	if err != nil {
		s.writeViewError(w, span, err)
		return
	}
	format := mux.Vars(r)["format"]
	shape := shapeFor(vr.fixture.Name)
	span.SetAttributes(
		attribute.String("fixture", string(vr.fixture.Name)),
		attribute.String("format", format),
	)

	key := s.exportCacheKey(vr, format)
	var file exportFile
	if cached, ok := s.exports.Get(key); ok {
		file = cached.(exportFile)
		span.SetAttributes(attribute.Bool("cache_hit", true))
	} else {
		items := s.items(vr)
		body, err := s.renderExport(ctx, vr, items, shape, format)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("render export", zap.String("format", format), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to render "+format+" export")
			return
		}
		file = exportFile{body: body, contentType: exportContentTypes[format]}
		s.exports.SetDefault(key, file)
	}

	name := export.Filename(shape, format, s.now())
	w.Header().Set("Content-Type", file.contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.body)
}

func (s *Server) renderExport(ctx context.Context, vr viewRequest, items []ranking.Institution, shape export.Shape, format string) ([]byte, error) {
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
		report := export.Report{
			Title:     reportTitle(vr.fixture.Name),
			Generated: s.now(),
			Filter:    vr.state.Filter,
			Shape:     shape,
			Items:     items,
		}
		return s.pdfRenderer.Render(ctx, report.Title, report.Markdown())
	}
	return nil, eris.Errorf("unsupported export format %q", format)
}

func reportTitle(name catalog.FixtureName) string {
	if name == catalog.Summary {
		return "GTAP Top Ranked Schools"
	}
	return "GTAP School Rankings"
}

// handleImport accepts a ranking file from the signed-in admin. The upload is
// inspected and acknowledged; the catalog is compiled in and never changes.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	authed, err := s.session(r).IsAuthenticated(r.Context())
	if err != nil {
		s.logger.Error("read admin flag", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	if !authed {
		writeError(w, http.StatusForbidden, "admin login required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	resp := map[string]any{
		"filename": sanitizeFilename(header.Filename),
		"size":     len(data),
		"merged":   false,
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		rows, err := countCSVRows(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, "file is not valid CSV")
			return
		}
		resp["format"] = "csv"
		resp["rows"] = rows
	case ".pdf":
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			writeError(w, http.StatusBadRequest, "file is not a PDF")
			return
		}
		resp["format"] = "pdf"
	default:
		writeError(w, http.StatusBadRequest, "only .csv and .pdf files are accepted")
		return
	}
	s.logger.Info("ranking import received",
		zap.String("client", clientID(r.Context())),
		zap.String("filename", header.Filename),
		zap.Int("size", len(data)),
	)
	writeJSON(w, http.StatusAccepted, resp)
}

// countCSVRows counts data rows, excluding the header line.
func countCSVRows(data []byte) (int, error) {
	rd := csv.NewReader(bytes.NewReader(data))
	rd.FieldsPerRecord = -1
	n := 0
	for {
		_, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	if n > 0 {
		n--
	}
	return n, nil
}

func sanitizeFilename(v string) string {
	v = strings.TrimSpace(filepath.Base(v))
	if v == "" || v == "." {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, v)
}
