package site

import (
	"net/url"
	"path"
	"strings"

	"github.com/ebikeratings/ebikerank/internal/dataset"
)

// PageID identifies a top-level page for navigation.
type PageID string

const (
	PageHome       PageID = "index"
	PageComponents PageID = "componenti"
	PageComparison PageID = "confronto"
	PageDetail     PageID = "scheda"
)

// Linker builds the URLs pages link to. The live server and the static
// export lay pages out differently.
type Linker interface {
	Page(p PageID) string
	EBike(id string) string
	Component(c dataset.Category, id string) string
	Comparison(c dataset.Category) string
	Asset(name string) string
	Data() string
}

// LiveLinks produces root-relative URLs with query strings, as served by
// the web server.
type LiveLinks struct{}

var _ Linker = LiveLinks{}

func (LiveLinks) Page(p PageID) string {
	if p == PageHome {
		return "/"
	}
	return "/" + string(p)
}

func (LiveLinks) EBike(id string) string {
	return "/classifiche/scheda-ebike?id=" + url.QueryEscape(id)
}

func (LiveLinks) Component(c dataset.Category, id string) string {
	return "/classifiche/scheda-componente?type=" + url.QueryEscape(string(c)) + "&id=" + url.QueryEscape(id)
}

func (LiveLinks) Comparison(c dataset.Category) string {
	return "/confronto?category=" + url.QueryEscape(string(c))
}

func (LiveLinks) Asset(name string) string {
	return "/static/" + strings.TrimPrefix(name, "/")
}

func (LiveLinks) Data() string {
	return "/ebike-data.json"
}

// DetailDir is the folder holding detail pages.
const DetailDir = "classifiche"

// StaticLinks produces relative links between exported .html files. Base
// is "." for pages at the site root and ".." for pages under DetailDir.
type StaticLinks struct {
	Base string
}

var _ Linker = StaticLinks{}

// StaticLinksFor returns the linker for a page written at rel, a slash
// separated path relative to the export root.
func StaticLinksFor(rel string) StaticLinks {
	depth := strings.Count(path.Clean(rel), "/")
	if depth == 0 {
		return StaticLinks{Base: "."}
	}
	return StaticLinks{Base: strings.TrimSuffix(strings.Repeat("../", depth), "/")}
}

func (l StaticLinks) join(elem string) string {
	base := l.Base
	if base == "" {
		base = "."
	}
	return base + "/" + elem
}

func (l StaticLinks) Page(p PageID) string {
	return l.join(string(p) + ".html")
}

func (l StaticLinks) EBike(id string) string {
	return l.join(EBikeFile(id))
}

func (l StaticLinks) Component(c dataset.Category, id string) string {
	return l.join(ComponentFile(c, id))
}

func (l StaticLinks) Comparison(c dataset.Category) string {
	return l.join(ComparisonFile(c))
}

func (l StaticLinks) Asset(name string) string {
	return l.join("static/" + strings.TrimPrefix(name, "/"))
}

func (l StaticLinks) Data() string {
	return l.join("ebike-data.json")
}

// EBikeFile is the export path of an e-bike detail page.
func EBikeFile(id string) string {
	return DetailDir + "/scheda-ebike-" + url.PathEscape(id) + ".html"
}

// ComponentFile is the export path of a component detail page.
func ComponentFile(c dataset.Category, id string) string {
	return DetailDir + "/scheda-componente-" + string(c) + "-" + url.PathEscape(id) + ".html"
}

// ComparisonFile is the export path of a comparison page. E-bikes are the
// default view.
func ComparisonFile(c dataset.Category) string {
	if c == dataset.EBikes || c == "" {
		return string(PageComparison) + ".html"
	}
	return string(PageComparison) + "-" + string(c) + ".html"
}
