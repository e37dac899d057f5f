package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/logging"
	"github.com/pageza/opskrifter/internal/ui"
)

type addPage struct {
	Input       ui.FormInput
	Status      ui.Status
	Suggestions []string
}

// formInput reads the recipe editor fields of a post. ok is false when the
// post carries no editor.
func formInput(c *gin.Context) (ui.FormInput, bool) {
	if _, ok := c.GetPostForm("title"); !ok {
		return ui.FormInput{}, false
	}

	in := ui.FormInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		ImageURL:     c.PostForm("imageUrl"),
		Category:     c.PostForm("category"),
		PrepTime:     c.PostForm("prepTime"),
		CookTime:     c.PostForm("cookTime"),
		Servings:     c.PostForm("servings"),
		Instructions: c.PostFormArray("instruction"),
	}
	amounts := c.PostFormArray("amount")
	units := c.PostFormArray("unit")
	names := c.PostFormArray("name")
	for i := range names {
		row := ui.IngredientRow{Name: names[i]}
		if i < len(amounts) {
			row.Amount = amounts[i]
		}
		if i < len(units) {
			row.Unit = units[i]
		}
		in.Ingredients = append(in.Ingredients, row)
	}
	return in, true
}

// splitOp breaks a button value such as "remove-ingredient:2" into the
// operation and its index
func splitOp(op string) (string, int) {
	name, idx, found := strings.Cut(strings.TrimSpace(op), ":")
	if !found {
		return name, -1
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return name, -1
	}
	return name, i
}

func (s *Server) addPage(c *gin.Context) {
	sess := currentSession(c)
	ctx := c.Request.Context()

	if sess.claimDraft() {
		draft, err := s.opts.Drafts.Load(ctx, sess.ID)
		if err != nil {
			logging.New(ctx).Error("load_draft", err)
		} else if draft != nil {
			sess.Form.SetFields(*draft)
		}
	}
	s.renderAdd(c, http.StatusOK)
}

// addPost applies one button of the submission form
func (s *Server) addPost(c *gin.Context) {
	sess := currentSession(c)
	ctx := c.Request.Context()
	form := sess.Form
	sess.claimDraft()

	if in, ok := formInput(c); ok {
		form.SetFields(in)
	}

	op, index := splitOp(c.PostForm("op"))
	switch op {
	case "add-ingredient":
		form.AddIngredient()
	case "add-instruction":
		form.AddInstruction()
	case "remove-ingredient":
		form.RemoveIngredient(index)
	case "remove-instruction":
		form.RemoveInstruction(index)
	case "submit":
		err := form.Submit(ctx)
		var verr *catalog.ValidationError
		switch {
		case err == nil:
			if derr := s.opts.Drafts.Delete(ctx, sess.ID); derr != nil {
				logging.New(ctx).Error("delete_draft", derr)
			}
			s.renderAdd(c, http.StatusOK)
		case errors.As(err, &verr):
			s.saveDraft(c, sess)
			s.renderAdd(c, http.StatusUnprocessableEntity)
		default:
			s.saveDraft(c, sess)
			s.renderAdd(c, http.StatusBadGateway)
		}
		return
	default:
		c.String(http.StatusBadRequest, "ukendt handling")
		return
	}

	s.saveDraft(c, sess)
	s.renderAdd(c, http.StatusOK)
}

func (s *Server) saveDraft(c *gin.Context, sess *Session) {
	ctx := c.Request.Context()
	if err := s.opts.Drafts.Save(ctx, sess.ID, sess.Form.Input()); err != nil {
		logging.New(ctx).Error("save_draft", err)
	}
}

func (s *Server) renderAdd(c *gin.Context, status int) {
	form := currentSession(c).Form
	c.HTML(status, "add.html", addPage{
		Input:       form.Input(),
		Status:      form.Status(),
		Suggestions: s.suggestions(),
	})
}

func (s *Server) suggestions() []string {
	if s.opts.Ingredients == nil {
		return nil
	}
	return s.opts.Ingredients.List().Names()
}
