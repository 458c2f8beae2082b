package site

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type LinkKind string

const (
	// LinkSection scrolls to an anchor on the home page.
	LinkSection LinkKind = "section"
	// LinkPath moves to another page.
	LinkPath LinkKind = "path"
	// LinkAction runs a client-side action.
	LinkAction LinkKind = "action"
)

type Link struct {
	Label string   `json:"label"`
	Kind  LinkKind `json:"kind"`
	Ref   string   `json:"ref"`
}

// Target is where a link leads from the current path. Navigate is false when
// following the link stays on the current page.
type Target struct {
	Link
	Path     string `json:"path,omitempty"`
	ScrollTo string `json:"scroll_to,omitempty"`
	Navigate bool   `json:"navigate"`
}

type Navigation struct {
	Path          string   `json:"path"`
	Authenticated bool     `json:"authenticated"`
	Home          Target   `json:"home"`
	Menu          []Target `json:"menu"`
	QuickLinks    []Target `json:"quick_links"`
	Resources     []Target `json:"resources"`
}

var (
	homeLink = Link{Label: "GTAP", Kind: LinkPath, Ref: "/"}

	menuLinks = []Link{
		{Label: "Rankings", Kind: LinkPath, Ref: "/rankings"},
		{Label: "About", Kind: LinkSection, Ref: "about"},
		{Label: "Vision", Kind: LinkSection, Ref: "vision"},
		{Label: "The Panel", Kind: LinkSection, Ref: "panel"},
		{Label: "Impact", Kind: LinkSection, Ref: "impact"},
		{Label: "Certificates", Kind: LinkPath, Ref: "/certificates"},
		{Label: "International Curriculum", Kind: LinkPath, Ref: "/international-curriculum"},
		{Label: "Contact Us", Kind: LinkSection, Ref: "contact"},
	}
	logoutLink = Link{Label: "Logout", Kind: LinkAction, Ref: "logout"}

	quickLinks = []Link{
		{Label: "About GTAP", Kind: LinkSection, Ref: "about"},
		{Label: "Our Vision", Kind: LinkSection, Ref: "vision"},
		{Label: "The Panel", Kind: LinkSection, Ref: "panel"},
		{Label: "Global Impact", Kind: LinkSection, Ref: "impact"},
	}
	resourceLinks = []Link{
		{Label: "Accreditation Process", Kind: LinkSection, Ref: "resources-process"},
		{Label: "Accreditation Levels", Kind: LinkSection, Ref: "resources-levels"},
		{Label: "Standards & Guidelines", Kind: LinkSection, Ref: "resources-standards"},
	}
)

// Resolve works out where l leads when followed from current. Section links
// off the home page go to "/" carrying the anchor to scroll to; on the home
// page they scroll in place. Path links only navigate when the path differs.
func Resolve(l Link, current string) Target {
	t := Target{Link: l}
	switch l.Kind {
	case LinkSection:
		t.Path = "/"
		t.ScrollTo = l.Ref
		t.Navigate = current != "/"
	case LinkPath:
		t.Path = l.Ref
		t.Navigate = current != l.Ref
	}
	return t
}

func resolveAll(links []Link, current string) []Target {
	out := make([]Target, len(links))
	for i, l := range links {
		out[i] = Resolve(l, current)
	}
	return out
}

// BuildNavigation returns the header and footer links for a page. Logout is
// offered only to an authenticated admin.
func BuildNavigation(current string, authenticated bool) Navigation {
	if current == "" || !strings.HasPrefix(current, "/") {
		current = "/" + current
	}
	menu := resolveAll(menuLinks, current)
	if authenticated {
		menu = append(menu, Resolve(logoutLink, current))
	}
	return Navigation{
		Path:          current,
		Authenticated: authenticated,
		Home:          Resolve(homeLink, current),
		Menu:          menu,
		QuickLinks:    resolveAll(quickLinks, current),
		Resources:     resolveAll(resourceLinks, current),
	}
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	authed, err := s.session(r).IsAuthenticated(r.Context())
	if err != nil {
		s.logger.Error("read admin flag", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	writeJSON(w, http.StatusOK, BuildNavigation(r.URL.Query().Get("path"), authed))
}
