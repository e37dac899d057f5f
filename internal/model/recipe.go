package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/opskrifter/internal/catalog"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	*a = JSONBStringArray{}
	data, err := columnBytes(value)
	if err != nil || data == nil {
		return err
	}
	return json.Unmarshal(data, a)
}

// IngredientList stores the structured ingredient lines as JSONB
type IngredientList []catalog.Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	*l = IngredientList{}
	data, err := columnBytes(value)
	if err != nil || data == nil {
		return err
	}
	return json.Unmarshal(data, l)
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}

// Recipe is the stored form of a catalog recipe
type Recipe struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time        `gorm:"index"`
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt   `gorm:"index"`
	Title           string           `gorm:"size:255;not null"`
	Description     string           `gorm:"type:text"`
	Category        string           `gorm:"size:50;index"`
	ImageURL        string           `gorm:"size:512"`
	PrepTimeMinutes int              `gorm:"not null;default:0"`
	CookTimeMinutes int              `gorm:"not null;default:0"`
	Servings        int              `gorm:"not null;default:0"`
	Ingredients     IngredientList   `gorm:"type:jsonb;not null;default:'[]'"`
	Instructions    JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'"`
	Embedding       pgvector.Vector  `gorm:"type:vector(4)"`
}

// BeforeCreate assigns an id to new rows
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the search embedding in step with the text
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.Embedding = GenerateEmbedding(r.SearchText())
	return nil
}

// SearchText is the text the embedding and keyword search look at
func (r *Recipe) SearchText() string {
	text := r.Title
	for _, ing := range r.Ingredients {
		text += " " + ing.Name
	}
	return text
}

// FromCatalog builds a row from an API payload. The id is left empty.
func FromCatalog(in catalog.Recipe) *Recipe {
	return &Recipe{
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		ImageURL:        in.ImageURL,
		PrepTimeMinutes: in.PrepTimeMinutes,
		CookTimeMinutes: in.CookTimeMinutes,
		Servings:        in.Servings,
		Ingredients:     IngredientList(in.Ingredients),
		Instructions:    JSONBStringArray(in.Instructions),
	}
}

// ToCatalog converts a row to its API representation
func (r *Recipe) ToCatalog() catalog.Recipe {
	out := catalog.Recipe{
		ID:              r.ID.String(),
		Title:           r.Title,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		Category:        r.Category,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		Servings:        r.Servings,
		Ingredients:     []catalog.Ingredient(r.Ingredients),
		Instructions:    []string(r.Instructions),
	}
	if out.Ingredients == nil {
		out.Ingredients = []catalog.Ingredient{}
	}
	if out.Instructions == nil {
		out.Instructions = []string{}
	}
	return out
}
