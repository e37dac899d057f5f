package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/ui"
)

type focusLink struct {
	Next string
	Prev string
}

type indexPage struct {
	View          ui.BrowserView
	Focus         string
	FocusLinks    map[string]focusLink
	SearchEnabled bool
}

// index shows the recipe list. ?search= runs the third-party search,
// otherwise ?filter= ranks the catalog by ingredient terms.
func (s *Server) index(c *gin.Context) {
	sess := currentSession(c)
	ctx := c.Request.Context()
	b := sess.Browser

	if !b.Loaded() || c.Query("reload") == "1" {
		// failures end up in the view
		_ = b.LoadAll(ctx)
	}

	if term := strings.TrimSpace(c.Query("search")); term != "" && s.opts.Search != nil {
		_ = b.SearchExternal(ctx, term)
	} else if b.Loaded() {
		b.Filter(c.Query("filter"))
	}

	s.renderIndex(c, http.StatusOK, c.Query("focus"))
}

func (s *Server) recipeDetail(c *gin.Context) {
	b := currentSession(c).Browser
	if !b.Loaded() {
		_ = b.LoadAll(c.Request.Context())
	}
	_ = b.OpenDetail(c.Request.Context(), c.Param("id"), c.Query("from"))
	s.renderDetail(c)
}

func (s *Server) externalDetail(c *gin.Context) {
	if s.opts.Search == nil {
		c.String(http.StatusNotFound, "Søgning er ikke slået til")
		return
	}
	b := currentSession(c).Browser
	_ = b.OpenExternalDetail(c.Request.Context(), c.Param("id"), c.Query("from"))
	s.renderDetail(c)
}

// renderDetail answers with just the dialog for ?partial=1 and with the
// whole page otherwise
func (s *Server) renderDetail(c *gin.Context) {
	view := currentSession(c).Browser.View()
	status := http.StatusOK
	if view.Modal.Error != "" {
		status = http.StatusBadGateway
	}
	if c.Query("partial") == "1" {
		c.HTML(status, "modal", s.indexData(c, ""))
		return
	}
	s.renderIndex(c, status, "")
}

// closeModal closes the dialog and sends focus back to where it came from
func (s *Server) closeModal(c *gin.Context) {
	restore := currentSession(c).Browser.CloseDetail()
	if c.Query("partial") == "1" {
		c.JSON(http.StatusOK, gin.H{"focus": restore})
		return
	}
	c.Redirect(http.StatusSeeOther, "/?focus="+url.QueryEscape(restore))
}

func (s *Server) renderIndex(c *gin.Context, status int, focus string) {
	c.HTML(status, "index.html", s.indexData(c, focus))
}

func (s *Server) indexData(c *gin.Context, focus string) indexPage {
	b := currentSession(c).Browser
	view := b.View()
	page := indexPage{
		View:          view,
		Focus:         focus,
		SearchEnabled: s.opts.Search != nil,
	}
	if view.Modal.Open {
		page.FocusLinks = make(map[string]focusLink, len(view.Modal.FocusIDs))
		for _, id := range view.Modal.FocusIDs {
			page.FocusLinks[id] = focusLink{
				Next: b.FocusNext(id, false),
				Prev: b.FocusNext(id, true),
			}
		}
	}
	return page
}
