package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/logging"
	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/service"
)

const (
	MsgSaved    = "Opskriften er gemt"
	MsgUpdated  = "Opskriften er opdateret"
	MsgNotFound = "Opskriften findes ikke"
)

// recipeResponse is a recipe with the status message next to its fields
type recipeResponse struct {
	catalog.Recipe
	Message string `json:"message"`
}

type RecipeHandler struct {
	recipes service.IRecipeService
	limiter *middleware.RateLimiter
}

// NewRecipeHandler creates the recipe handler. A nil limiter leaves creation
// unlimited.
func NewRecipeHandler(recipes service.IRecipeService, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, limiter: limiter}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	create := []gin.HandlerFunc{h.CreateRecipe}
	if h.limiter != nil {
		create = append([]gin.HandlerFunc{h.limiter.RateLimitMiddleware()}, create...)
	}

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", create...)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

// ListRecipes answers with a bare array
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context(), service.ListFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		h.fail(c, "ListRecipes", err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "GetRecipe", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req catalog.Recipe
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "Ugyldig opskrift: "+err.Error())
		return
	}

	created, err := h.recipes.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "CreateRecipe", err)
		return
	}
	c.JSON(http.StatusCreated, recipeResponse{Recipe: *created, Message: MsgSaved})
}

// UpdateRecipe replaces every field of the recipe
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req catalog.Recipe
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "Ugyldig opskrift: "+err.Error())
		return
	}

	updated, err := h.recipes.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, "UpdateRecipe", err)
		return
	}
	c.JSON(http.StatusOK, recipeResponse{Recipe: *updated, Message: MsgUpdated})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "DeleteRecipe", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) fail(c *gin.Context, operation string, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, "not_found", MsgNotFound)
	case errors.As(err, &verr):
		middleware.AbortWithError(c, http.StatusBadRequest, "validation_failed", verr.Error())
	default:
		logging.New(c.Request.Context()).Error(operation, err)
		middleware.AbortWithError(c, http.StatusInternalServerError, "internal_error", middleware.MsgInternal)
	}
}
