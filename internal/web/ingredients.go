package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultSuggestLimit = 10

type ingredientEntry struct {
	Name string `json:"name"`
}

// ingredientsJSON serves the autocomplete list in the same shape as the
// source file
func (s *Server) ingredientsJSON(c *gin.Context) {
	names := s.suggestions()
	out := make([]ingredientEntry, len(names))
	for i, n := range names {
		out[i] = ingredientEntry{Name: n}
	}
	c.JSON(http.StatusOK, out)
}

// suggest answers ?q= with prefix matches first, then substring matches
func (s *Server) suggest(c *gin.Context) {
	if s.opts.Ingredients == nil {
		c.JSON(http.StatusOK, []string{})
		return
	}

	limit := defaultSuggestLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "limit skal være et ikke-negativt tal"})
			return
		}
		limit = n
	}

	out := s.opts.Ingredients.List().Suggest(c.Query("q"), limit)
	if out == nil {
		out = []string{}
	}
	c.JSON(http.StatusOK, out)
}
