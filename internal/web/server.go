package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/drafts"
	"github.com/pageza/opskrifter/internal/external"
	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

// Authenticator checks the admin password and the tokens it hands out
type Authenticator interface {
	middleware.TokenValidator
	Enabled() bool
	Login(password string) (string, error)
}

// Options wires the web front to its collaborators. Search and Auth may
// be nil.
type Options struct {
	API         client.RecipeAPI
	Search      external.Searcher
	Ingredients ui.IngredientSource
	Drafts      drafts.Store
	Auth        Authenticator

	// IngredientsRefresh is a cron spec such as "@every 30m"; empty
	// disables the periodic refresh
	IngredientsRefresh string
	SessionTTL         time.Duration
	SecureCookies      bool
}

// Server renders the browser, the submission form and the admin console
type Server struct {
	opts     Options
	sessions *Sessions
	tmpl     *template.Template
	cron     *cron.Cron
}

// New parses the templates and prepares the session store
func New(opts Options) (*Server, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("web: recipe API is required")
	}
	if opts.Drafts == nil {
		opts.Drafts = drafts.NewMemoryStore()
	}
	if opts.Auth != nil && !opts.Auth.Enabled() {
		opts.Auth = nil
	}
	if opts.Auth == nil {
		log.Printf("[web] WARNING: no admin password configured, admin pages are open")
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	s := &Server{opts: opts, tmpl: tmpl}
	s.sessions = NewSessions(opts.SessionTTL, func(id string) *Session {
		return &Session{
			ID:      id,
			Browser: ui.NewBrowser(opts.API, opts.Search),
			Form:    ui.NewForm(opts.API),
			Console: ui.NewConsole(opts.API, opts.Ingredients),
		}
	})
	return s, nil
}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"dict": func(pairs ...interface{}) (map[string]interface{}, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]interface{}, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

// Router builds the gin engine with every page route
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(s.tmpl)
	router.Use(middleware.RequestID(), gin.Recovery(), s.session())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/", s.index)
	router.GET("/recipes/:id", s.recipeDetail)
	router.GET("/external/:id", s.externalDetail)
	router.POST("/modal/close", s.closeModal)

	router.GET("/add", s.addPage)
	router.POST("/add", s.addPost)

	router.GET("/ingredients.json", s.ingredientsJSON)
	router.GET("/ingredients/suggest", s.suggest)

	router.GET("/admin/login", s.loginPage)
	router.POST("/admin/login", s.loginPost)
	router.POST("/admin/logout", s.logout)

	var validator middleware.TokenValidator
	if s.opts.Auth != nil {
		validator = s.opts.Auth
	}
	admin := router.Group("/admin", middleware.AdminAuth(validator, "/admin/login"))
	{
		admin.GET("", s.adminPage)
		admin.POST("/actions", s.adminActions)
		admin.GET("/export.xlsx", s.export)
	}

	return router
}

// StartJobs schedules the ingredient refresh and the session pruning and
// loads the ingredient list once
func (s *Server) StartJobs(ctx context.Context) error {
	s.cron = cron.New()

	if s.opts.Ingredients != nil {
		if err := s.opts.Ingredients.Refresh(ctx); err != nil {
			log.Printf("[web] initial ingredient load failed: %v", err)
		}
		if s.opts.IngredientsRefresh != "" {
			_, err := s.cron.AddFunc(s.opts.IngredientsRefresh, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := s.opts.Ingredients.Refresh(ctx); err != nil {
					log.Printf("[web] ingredient refresh failed: %v", err)
					return
				}
				log.Printf("[web] ingredient list refreshed (%d names)", s.opts.Ingredients.List().Len())
			})
			if err != nil {
				return fmt.Errorf("web: schedule ingredient refresh: %w", err)
			}
		}
	}

	if _, err := s.cron.AddFunc("@every 10m", func() {
		if n := s.sessions.Prune(); n > 0 {
			log.Printf("[web] pruned %d idle sessions", n)
		}
	}); err != nil {
		return fmt.Errorf("web: schedule session pruning: %w", err)
	}

	s.cron.Start()
	return nil
}

// StopJobs stops the scheduler and waits for running jobs
func (s *Server) StopJobs() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Server) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		sess, ok := s.sessions.Get(id)
		if !ok {
			sess = s.sessions.Create(id)
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, int(s.sessions.ttl.Seconds()), "/", "", s.opts.SecureCookies, true)
		c.Set("session", sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *Session {
	return c.MustGet("session").(*Session)
}
