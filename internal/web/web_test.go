package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/opskrifter/internal/api"
	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/drafts"
	"github.com/pageza/opskrifter/internal/external"
	"github.com/pageza/opskrifter/internal/service"
	"github.com/pageza/opskrifter/internal/testhelpers"
	"github.com/pageza/opskrifter/internal/ui"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSearch struct {
	hits   []external.Summary
	detail *external.Detail
}

func (f *fakeSearch) Search(ctx context.Context, term string) ([]external.Summary, error) {
	return f.hits, nil
}

func (f *fakeSearch) Recipe(ctx context.Context, id string) (*external.Detail, error) {
	if f.detail == nil || f.detail.ID != id {
		return nil, errors.New("unexpected status 404")
	}
	return f.detail, nil
}

// testEnv runs the catalog API on SQLite and the web front on top of it
type testEnv struct {
	t      *testing.T
	opts   Options
	server *Server
	web    *httptest.Server
	api    *client.Client
	drafts *drafts.MemoryStore
	http   *http.Client
}

func newEnv(t *testing.T, configure func(*Options)) *testEnv {
	t.Helper()

	apiRouter := api.NewRouter(nil)
	api.RegisterRoutes(apiRouter, api.Deps{
		RecipeService: service.NewRecipeService(testhelpers.SetupSQLiteDatabase(t)),
	})
	apiServer := httptest.NewServer(apiRouter)
	t.Cleanup(apiServer.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	e := &testEnv{
		t:      t,
		api:    client.New(apiServer.URL, 0),
		drafts: drafts.NewMemoryStore(),
		http:   &http.Client{Jar: jar},
	}
	e.opts = Options{API: e.api, Drafts: e.drafts}
	if configure != nil {
		configure(&e.opts)
	}
	e.start()
	return e
}

// start brings up a fresh web server; sessions live only in the old one
func (e *testEnv) start() {
	e.t.Helper()
	if e.web != nil {
		e.web.Close()
	}
	srv, err := New(e.opts)
	require.NoError(e.t, err)
	e.server = srv
	e.web = httptest.NewServer(srv.Router())
	e.t.Cleanup(e.web.Close)
}

func (e *testEnv) seed(recipes ...catalog.Recipe) []string {
	e.t.Helper()
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		res, err := e.api.Create(context.Background(), r)
		require.NoError(e.t, err)
		ids = append(ids, res.Recipe.ID)
	}
	return ids
}

func (e *testEnv) get(path string) (*http.Response, *goquery.Document) {
	e.t.Helper()
	resp, err := e.http.Get(e.web.URL + path)
	require.NoError(e.t, err)
	return resp, e.parse(resp)
}

func (e *testEnv) post(path string, form url.Values) (*http.Response, *goquery.Document) {
	e.t.Helper()
	resp, err := e.http.PostForm(e.web.URL+path, form)
	require.NoError(e.t, err)
	return resp, e.parse(resp)
}

// postNoFollow returns the redirect itself
func (e *testEnv) postNoFollow(path string, form url.Values) *http.Response {
	e.t.Helper()
	c := *e.http
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := c.PostForm(e.web.URL+path, form)
	require.NoError(e.t, err)
	resp.Body.Close()
	return resp
}

func (e *testEnv) raw(path string) (*http.Response, []byte) {
	e.t.Helper()
	resp, err := e.http.Get(e.web.URL + path)
	require.NoError(e.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, body
}

func (e *testEnv) parse(resp *http.Response) *goquery.Document {
	e.t.Helper()
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(e.t, err)
	return doc
}

func (e *testEnv) sessionID() string {
	u, _ := url.Parse(e.web.URL)
	for _, c := range e.http.Jar.Cookies(u) {
		if c.Name == SessionCookie {
			return c.Value
		}
	}
	return ""
}

func amount(v float64) *float64 { return &v }

func recipe(title string, ingredients ...string) catalog.Recipe {
	r := catalog.Recipe{
		Title:           title,
		Category:        "Aftensmad",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        4,
		Instructions:    []string{"Forbered", "Tilbered"},
	}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, catalog.Ingredient{Amount: amount(1), Unit: "stk", Name: name})
	}
	return r
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestIndexListsAndFilters(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(
		recipe("Tomatsuppe", "tomat", "løg"),
		recipe("Pandekager", "mel", "mælk"),
		recipe("Bruschetta", "tomat", "brød"),
	)

	resp, doc := e.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, doc.Find("#recipe-list li").Length())
	assert.Contains(t, texts(doc.Find("#recipe-list .time")), "30 min")

	_, doc = e.get("/?filter=" + url.QueryEscape("tomat, brød"))
	assert.Equal(t, []string{"Bruschetta", "Tomatsuppe"}, texts(doc.Find("#recipe-list .card-title")))
	assert.Equal(t, "Matcher: tomat, brød", strings.TrimSpace(doc.Find("#recipe-list .matched").First().Text()))
	filter, _ := doc.Find("#filter-input").Attr("value")
	assert.Equal(t, "tomat, brød", filter)

	_, doc = e.get("/?filter=lakrids")
	assert.Equal(t, 0, doc.Find("#recipe-list li").Length())
	assert.Equal(t, ui.MsgNoRecipes, strings.TrimSpace(doc.Find("#recipe-message").Text()))

	_, doc = e.get("/?filter=")
	assert.Equal(t, 3, doc.Find("#recipe-list li").Length())
}

func TestIndexShowsLoadError(t *testing.T) {
	e := newEnv(t, func(o *Options) {
		o.API = client.New("http://127.0.0.1:1", 0)
	})

	resp, doc := e.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	msg := doc.Find("#recipe-message")
	assert.True(t, msg.HasClass("error"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(msg.Text()), "Fejl: "))
}

func TestRecipeDetailAndClose(t *testing.T) {
	e := newEnv(t, nil)
	soup := recipe("Tomatsuppe", "tomat")
	soup.Description = "**Varm** suppe"
	id := e.seed(soup)[0]

	resp, doc := e.get("/recipes/" + id + "?from=card-" + id)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tomatsuppe", strings.TrimSpace(doc.Find("#modal-title").Text()))
	assert.Equal(t, "Varm", doc.Find("#recipe-modal .description strong").Text())
	assert.Equal(t, []string{"1 stk tomat"}, texts(doc.Find("#recipe-modal .ingredients li")))
	assert.Equal(t, []string{"Forbered", "Tilbered"}, texts(doc.Find("#recipe-modal .steps li")))

	closeBtn := doc.Find("#modal-close-btn")
	next, _ := closeBtn.Attr("data-next")
	prev, _ := closeBtn.Attr("data-prev")
	assert.Equal(t, "modal-recipe-content", next)
	assert.Equal(t, "modal-recipe-content", prev)

	redirect := e.postNoFollow("/modal/close", nil)
	assert.Equal(t, http.StatusSeeOther, redirect.StatusCode)
	assert.Equal(t, "/?focus=card-"+id, redirect.Header.Get("Location"))

	_, doc = e.get("/")
	assert.Equal(t, 0, doc.Find("#recipe-modal").Length())
}

func TestRecipeDetailPartial(t *testing.T) {
	e := newEnv(t, nil)
	id := e.seed(recipe("Tomatsuppe", "tomat"))[0]

	resp, body := e.raw("/recipes/" + id + "?partial=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `id="recipe-modal"`)
	assert.NotContains(t, string(body), `id="recipe-list"`)

	req, err := http.NewRequest(http.MethodPost, e.web.URL+"/modal/close?partial=1", nil)
	require.NoError(t, err)
	closeResp, err := e.http.Do(req)
	require.NoError(t, err)
	defer closeResp.Body.Close()
	closeBody, _ := io.ReadAll(closeResp.Body)
	assert.JSONEq(t, `{"focus":"search-input"}`, string(closeBody))
}

func TestRecipeDetailError(t *testing.T) {
	e := newEnv(t, nil)

	resp, doc := e.get("/recipes/8d3c1f4e-2b7a-4c1e-9a43-0f6f2b6f1a11")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Fejl", strings.TrimSpace(doc.Find("#modal-title").Text()))
	assert.Equal(t, ui.MsgDetailFailed, strings.TrimSpace(doc.Find("#modal-recipe-content .error").Text()))
}

func TestExternalSearch(t *testing.T) {
	search := &fakeSearch{
		hits: []external.Summary{
			{ID: "101", Title: "Tomatsalat", Price: "23,50 kr."},
			{ID: "102", Title: "Tomatsovs", Price: external.NoPrice},
		},
		detail: &external.Detail{
			ID:          "101",
			Title:       "Tomatsalat",
			Description: "<b>frisk</b>",
			Ingredients: []external.Ingredient{{Amount: "2", Unit: "stk", Name: "tomat"}},
			Instructions: []string{
				"Skær tomaterne",
				"Server",
			},
		},
	}
	e := newEnv(t, func(o *Options) { o.Search = search })

	_, doc := e.get("/?search=tomat")
	assert.Equal(t, 2, doc.Find("#recipe-list li.external").Length())
	assert.Equal(t, []string{"23,50 kr."}, texts(doc.Find("#recipe-list .price")))
	href, _ := doc.Find("#card-101").Attr("href")
	assert.Equal(t, "/external/101?from=card-101", href)

	_, doc = e.get("/external/101?from=card-101")
	assert.Equal(t, "Tomatsalat", strings.TrimSpace(doc.Find("#modal-title").Text()))
	assert.Equal(t, 0, doc.Find("#recipe-modal .description b").Length())
	assert.Contains(t, doc.Find("#recipe-modal .description").Text(), "<b>frisk</b>")
	assert.Equal(t, []string{"2 stk tomat"}, texts(doc.Find("#recipe-modal .ingredients li")))

	search.hits = nil
	_, doc = e.get("/?search=lakrids")
	assert.Equal(t, ui.NoExternalResults("lakrids"), strings.TrimSpace(doc.Find("#recipe-message").Text()))
}

func TestExternalSearchDisabled(t *testing.T) {
	e := newEnv(t, nil)

	_, doc := e.get("/")
	assert.Equal(t, 0, doc.Find("#search-input").Length())

	resp, _ := e.get("/external/101")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
