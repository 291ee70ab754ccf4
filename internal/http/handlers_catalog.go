package httpx

import (
	"errors"
	"net/http"

	"github.com/abctechblog/blogfront/internal/catalog"
	domainpost "github.com/abctechblog/blogfront/internal/domain/post"
	"github.com/abctechblog/blogfront/internal/notify"
)

var errProjectNotFound = errors.New("project not found")

// CatalogHandlers serves the static project and community pages.
type CatalogHandlers struct {
	Catalog *catalog.Catalog
}

func writeData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Notices: []notify.Notice{}})
}

// Projects lists every project.
// GET /ui/projects.
func (h *CatalogHandlers) Projects(w http.ResponseWriter, _ *http.Request) {
	writeData(w, h.Catalog.Projects())
}

// Project returns one project.
// GET /ui/projects/{id}.
func (h *CatalogHandlers) Project(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Project(r.PathValue("id"))
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errProjectNotFound})
		return
	}
	writeData(w, p)
}

// Community lists the community links.
// GET /ui/community.
func (h *CatalogHandlers) Community(w http.ResponseWriter, _ *http.Request) {
	writeData(w, h.Catalog.Community())
}

// Categories lists the post categories offered by the composer.
// GET /ui/categories.
func (h *CatalogHandlers) Categories(w http.ResponseWriter, _ *http.Request) {
	writeData(w, domainpost.Categories())
}
