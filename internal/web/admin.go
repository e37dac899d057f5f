package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/logging"
	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/ui"
)

// adminCookieMaxAge matches the lifetime of the admin token
const adminCookieMaxAge = 12 * time.Hour

type adminPage struct {
	View        ui.ConsoleView
	Prompt      string
	PromptRow   string
	Flash       string
	AuthEnabled bool
}

// promptRecorder declines every confirmation and keeps the prompt so the
// page can ask the question instead
type promptRecorder struct {
	prompt string
}

func (p *promptRecorder) Confirm(prompt string) bool {
	p.prompt = prompt
	return false
}

func (s *Server) adminPage(c *gin.Context) {
	console := currentSession(c).Console
	ctx := c.Request.Context()

	// a failed load is kept in the console view and rendered as #admin-error
	var err error
	switch {
	case !console.Initialized():
		err = console.Init(ctx)
	case c.Query("reload") == "1":
		err = console.LoadRecipes(ctx)
	}
	if err != nil {
		logging.New(ctx).Error("admin_page", err)
	}
	s.renderAdmin(c, http.StatusOK, adminPage{})
}

// adminActions dispatches one console button. A delete without
// confirmed=1 answers with the confirmation prompt.
func (s *Server) adminActions(c *gin.Context) {
	console := currentSession(c).Console
	ctx := c.Request.Context()
	if !console.Initialized() {
		if err := console.Init(ctx); err != nil {
			logging.New(ctx).Error("admin_actions", err)
		}
	}

	kind, row := c.PostForm("action"), c.PostForm("row")
	target, index := c.PostForm("target"), c.PostForm("index")
	if op := c.PostForm("op"); op != "" {
		// button values look like "remove:ingredient:2"
		parts := strings.SplitN(op, ":", 3)
		kind = parts[0]
		if len(parts) > 1 {
			target = parts[1]
		}
		if len(parts) > 2 {
			index = parts[2]
		}
	}

	action, err := ui.ParseAction(kind, row, target, index)
	if err != nil {
		s.renderAdmin(c, http.StatusBadRequest, adminPage{Flash: "Ukendt handling"})
		return
	}

	var input *ui.FormInput
	if in, ok := formInput(c); ok {
		input = &in
	}

	var confirm ui.Confirmer = ui.ConfirmFunc(func(string) bool { return true })
	recorder := &promptRecorder{}
	if action.Kind == ui.ActionDelete && c.PostForm("confirmed") != "1" {
		confirm = recorder
	}

	err = console.Dispatch(ctx, action, input, confirm)
	switch {
	case recorder.prompt != "" && err == nil:
		s.renderAdmin(c, http.StatusOK, adminPage{Prompt: recorder.prompt, PromptRow: action.Row})
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/admin")
	case errors.Is(err, ui.ErrRowNotFound):
		s.renderAdmin(c, http.StatusNotFound, adminPage{Flash: "Fejl: " + err.Error()})
	case errors.Is(err, ui.ErrSaveInFlight):
		s.renderAdmin(c, http.StatusConflict, adminPage{Flash: "Fejl: " + err.Error()})
	case errors.Is(err, ui.ErrUnknownAction):
		s.renderAdmin(c, http.StatusBadRequest, adminPage{Flash: "Ukendt handling"})
	default:
		// the row error or the alert already carries the message
		logging.New(ctx).Error("admin_action", err)
		s.renderAdmin(c, http.StatusUnprocessableEntity, adminPage{})
	}
}

// export streams the cached table as a spreadsheet
func (s *Server) export(c *gin.Context) {
	console := currentSession(c).Console
	ctx := c.Request.Context()
	if !console.Initialized() {
		if err := console.Init(ctx); err != nil {
			c.String(http.StatusBadGateway, "Kunne ikke hente opskrifter")
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="opskrifter.xlsx"`)
	c.Status(http.StatusOK)
	if err := console.Export(c.Writer); err != nil {
		logging.New(ctx).Error("export", err)
	}
}

func (s *Server) renderAdmin(c *gin.Context, status int, page adminPage) {
	page.View = currentSession(c).Console.View()
	page.AuthEnabled = s.opts.Auth != nil
	c.HTML(status, "admin.html", page)
}

type loginPage struct {
	Error string
}

func (s *Server) loginPage(c *gin.Context) {
	if s.opts.Auth == nil {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

func (s *Server) loginPost(c *gin.Context) {
	if s.opts.Auth == nil {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}

	token, err := s.opts.Auth.Login(c.PostForm("password"))
	if err != nil {
		logging.New(c.Request.Context()).Warnf("admin_login", "failed from %s", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{Error: "Forkert adgangskode"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookie, token, int(adminCookieMaxAge.Seconds()), "/", "", s.opts.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *Server) logout(c *gin.Context) {
	c.SetCookie(middleware.AdminCookie, "", -1, "/", "", s.opts.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}
