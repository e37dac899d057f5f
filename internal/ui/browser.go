package ui

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/external"
	"github.com/pageza/opskrifter/internal/logging"
)

// Texts shown by the recipe browser
const (
	MsgLoadingList    = "Henter opskrifter..."
	MsgLoadingRecipe  = "Henter opskrift..."
	MsgNoRecipes      = "Ingen opskrifter fundet."
	MsgSearchFailed   = "Der opstod en fejl under søgningen."
	MsgDetailFailed   = "Kunne ikke hente opskriftens detaljer. Prøv venligst igen senere."
	modalCloseID      = "modal-close-btn"
	modalContentID    = "modal-recipe-content"
	defaultFocusAfter = "search-input"
)

// NoExternalResults is shown when a search yields nothing
func NoExternalResults(term string) string {
	return "Ingen opskrifter fundet for '" + term + "'. Prøv en anden ingrediens."
}

// Card is one recipe tile of the list
type Card struct {
	ID       string
	Title    string
	ImageURL string
	Category string
	// TotalMinutes is preparation plus cooking time
	TotalMinutes int
	Price        string
	External     bool
	// Highlighted lists the ingredient names hit by the current filter
	Highlighted []string
}

// IngredientLine is an ingredient as shown in the detail dialog
type IngredientLine struct {
	Amount string
	Unit   string
	Name   string
}

// Modal is the recipe detail dialog
type Modal struct {
	Open        bool
	Loading     bool
	Error       string
	Title       string
	ImageURL    string
	Description template.HTML
	Ingredients []IngredientLine
	Steps       []string
	FocusIDs    []string
}

// BrowserView is a snapshot of the browser for rendering
type BrowserView struct {
	Loading    bool
	Message    string
	IsError    bool
	Filter     string
	SearchTerm string
	Cards      []Card
	Modal      Modal
}

// Browser is the recipe list page of one visitor
type Browser struct {
	mu     sync.Mutex
	api    client.RecipeAPI
	search external.Searcher
	md     goldmark.Markdown

	cache   []catalog.Recipe
	cards   []Card
	filter  string
	term    string
	loading bool
	message string
	isError bool

	modal Modal
	trap  *FocusTrap
}

// NewBrowser creates a browser; search may be nil to disable the
// third-party search.
func NewBrowser(api client.RecipeAPI, search external.Searcher) *Browser {
	return &Browser{
		api:    api,
		search: search,
		md:     goldmark.New(),
	}
}

// LoadAll fetches the catalog and replaces the cache. On error the list
// shows the reason and the cache is kept.
func (b *Browser) LoadAll(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.message = MsgLoadingList
	b.isError = false
	b.mu.Unlock()

	recipes, err := b.api.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		logging.New(ctx).Error("load_recipes", err)
		b.message = "Fejl: " + client.UserMessage(err)
		b.isError = true
		b.cards = nil
		return err
	}

	b.cache = recipes
	b.term = ""
	b.filter = ""
	b.render(catalog.FilterByIngredients(b.cache, ""))
	return nil
}

// Loaded reports whether a list has been fetched at least once
func (b *Browser) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cache != nil
}

// Render rebuilds the cards from recipes
func (b *Browser) Render(recipes []catalog.Recipe) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.render(catalog.FilterByIngredients(recipes, ""))
}

func (b *Browser) render(matches []catalog.Match) {
	b.cards = make([]Card, 0, len(matches))
	for _, m := range matches {
		card := Card{
			ID:           m.Recipe.ID,
			Title:        m.Recipe.Title,
			ImageURL:     m.Recipe.ImageURL,
			Category:     m.Recipe.Category,
			TotalMinutes: m.Recipe.PrepTimeMinutes + m.Recipe.CookTimeMinutes,
		}
		for _, i := range m.Matched {
			card.Highlighted = append(card.Highlighted, m.Recipe.Ingredients[i].Name)
		}
		b.cards = append(b.cards, card)
	}
	b.isError = false
	b.message = ""
	if len(b.cards) == 0 {
		b.message = MsgNoRecipes
	}
}

// Filter ranks the cached recipes by the comma separated ingredient terms.
// Blank input shows the whole cache in its original order.
func (b *Browser) Filter(input string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = strings.TrimSpace(input)
	b.term = ""
	b.render(catalog.FilterByIngredients(b.cache, b.filter))
}

// SearchExternal replaces the list with third-party search results. A
// blank term does nothing.
func (b *Browser) SearchExternal(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" || b.search == nil {
		return nil
	}

	b.mu.Lock()
	b.loading = true
	b.message = "Søger efter opskrifter med " + term + "..."
	b.isError = false
	b.mu.Unlock()

	hits, err := b.search.Search(ctx, term)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	b.term = term
	b.filter = ""
	b.cards = nil
	if err != nil {
		logging.New(ctx).Error("external_search", err)
		b.message = MsgSearchFailed
		b.isError = true
		return err
	}
	if len(hits) == 0 {
		b.message = NoExternalResults(term)
		return nil
	}

	b.message = ""
	for _, h := range hits {
		card := Card{ID: h.ID, Title: h.Title, ImageURL: h.ImageURL, External: true}
		if h.HasPrice() {
			card.Price = h.Price
		}
		b.cards = append(b.cards, card)
	}
	return nil
}

// OpenDetail opens the dialog for a catalog recipe. previousFocus is the
// element that gets focus back when the dialog closes.
func (b *Browser) OpenDetail(ctx context.Context, id, previousFocus string) error {
	b.openLoading(previousFocus)

	recipe, err := b.api.Get(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.modal.Open {
		return nil
	}
	b.modal.Loading = false
	if err != nil {
		logging.New(ctx).Error("open_detail", err)
		b.modal.Title = "Fejl"
		b.modal.Error = MsgDetailFailed
		return err
	}

	b.modal.Title = recipe.Title
	b.modal.ImageURL = recipe.ImageURL
	b.modal.Description = b.markdown(ctx, recipe.Description)
	b.modal.Steps = append([]string(nil), recipe.Instructions...)
	for _, ing := range recipe.Ingredients {
		b.modal.Ingredients = append(b.modal.Ingredients, IngredientLine{
			Amount: catalog.FormatAmount(ing.Amount),
			Unit:   ing.Unit,
			Name:   ing.Name,
		})
	}
	return nil
}

// OpenExternalDetail opens the dialog for a third-party recipe
func (b *Browser) OpenExternalDetail(ctx context.Context, id, previousFocus string) error {
	if b.search == nil {
		return nil
	}
	b.openLoading(previousFocus)

	detail, err := b.search.Recipe(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.modal.Open {
		return nil
	}
	b.modal.Loading = false
	if err != nil {
		logging.New(ctx).Error("open_external_detail", err)
		b.modal.Title = "Fejl"
		b.modal.Error = MsgDetailFailed
		return err
	}

	b.modal.Title = detail.Title
	b.modal.ImageURL = detail.ImageURL
	b.modal.Description = template.HTML(template.HTMLEscapeString(detail.Description))
	b.modal.Steps = append([]string(nil), detail.Instructions...)
	for _, ing := range detail.Ingredients {
		b.modal.Ingredients = append(b.modal.Ingredients, IngredientLine(ing))
	}
	return nil
}

func (b *Browser) openLoading(previousFocus string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if previousFocus == "" {
		previousFocus = defaultFocusAfter
	}
	b.trap = NewFocusTrap(previousFocus, modalCloseID, modalContentID)
	b.modal = Modal{Open: true, Loading: true, Title: MsgLoadingRecipe, FocusIDs: b.trap.IDs()}
}

// FocusNext moves focus inside the open dialog
func (b *Browser) FocusNext(current string, backwards bool) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.modal.Open || b.trap == nil {
		return current
	}
	return b.trap.Next(current, backwards)
}

// CloseDetail closes the dialog and returns the element to focus.
// Escape and clicks on the overlay end up here too.
func (b *Browser) CloseDetail() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	restore := defaultFocusAfter
	if b.trap != nil {
		restore = b.trap.Previous()
	}
	b.modal = Modal{}
	b.trap = nil
	return restore
}

// View snapshots the browser state
func (b *Browser) View() BrowserView {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := BrowserView{
		Loading:    b.loading,
		Message:    b.message,
		IsError:    b.isError,
		Filter:     b.filter,
		SearchTerm: b.term,
		Cards:      append([]Card(nil), b.cards...),
		Modal:      b.modal,
	}
	v.Modal.Ingredients = append([]IngredientLine(nil), b.modal.Ingredients...)
	v.Modal.Steps = append([]string(nil), b.modal.Steps...)
	return v
}

func (b *Browser) markdown(ctx context.Context, src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(src), &buf); err != nil {
		logging.New(ctx).Error("render_markdown", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
