package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/model"
)

// ErrRecipeNotFound is returned for unknown or malformed recipe ids
var ErrRecipeNotFound = errors.New("recipe not found")

// ListFilter narrows a recipe listing
type ListFilter struct {
	Query    string
	Category string
}

// RecipeService handles recipe persistence
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// List returns every recipe, newest first. A query switches to Search.
func (s *RecipeService) List(ctx context.Context, filter ListFilter) ([]catalog.Recipe, error) {
	if strings.TrimSpace(filter.Query) != "" {
		return s.Search(ctx, filter)
	}

	var rows []model.Recipe
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return toCatalog(rows), nil
}

// Search finds recipes whose title, description or ingredients contain the
// query. On Postgres the hits are ordered by embedding distance.
func (s *RecipeService) Search(ctx context.Context, filter ListFilter) ([]catalog.Recipe, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(filter.Query)) + "%"
	query := s.db.WithContext(ctx).Model(&model.Recipe{})

	if s.db.Dialector.Name() == "postgres" {
		vec := model.GenerateEmbedding(filter.Query)
		query = query.
			Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like, like).
			Order(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}, WithoutParentheses: true}})
	} else {
		query = query.
			Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?", like, like, like).
			Order("title ASC")
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var rows []model.Recipe
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return toCatalog(rows), nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id string) (*catalog.Recipe, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := row.ToCatalog()
	return &out, nil
}

// Create normalises, validates and stores a new recipe
func (s *RecipeService) Create(ctx context.Context, in catalog.Recipe) (*catalog.Recipe, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	row := model.FromCatalog(in)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	log.Printf("[RecipeService] Created recipe %s (%q)", row.ID, row.Title)

	out := row.ToCatalog()
	return &out, nil
}

// Replace overwrites every column of an existing recipe
func (s *RecipeService) Replace(ctx context.Context, id string, in catalog.Recipe) (*catalog.Recipe, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	row := model.FromCatalog(in)
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	log.Printf("[RecipeService] Replaced recipe %s", row.ID)

	out := row.ToCatalog()
	return &out, nil
}

// SetImage stores a new image address on a recipe
func (s *RecipeService) SetImage(ctx context.Context, id, imageURL string) (*catalog.Recipe, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	row.ImageURL = imageURL
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe image: %w", err)
	}
	out := row.ToCatalog()
	return &out, nil
}

// Delete soft-deletes a recipe
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	row, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(row).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	log.Printf("[RecipeService] Deleted recipe %s", row.ID)
	return nil
}

func (s *RecipeService) find(ctx context.Context, id string) (*model.Recipe, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	var row model.Recipe
	if err := s.db.WithContext(ctx).First(&row, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &row, nil
}

func toCatalog(rows []model.Recipe) []catalog.Recipe {
	out := make([]catalog.Recipe, len(rows))
	for i := range rows {
		out[i] = rows[i].ToCatalog()
	}
	return out
}
