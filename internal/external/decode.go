package external

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/opskrifter/internal/catalog"
)

// ErrUnexpectedShape is returned when the search API answers with arrays
// that do not follow its positional layout.
var ErrUnexpectedShape = errors.New("unexpected response shape from recipe search api")

// NoPrice is the placeholder the search API uses for unknown prices.
const NoPrice = "-"

// Summary is one hit of a free text search.
type Summary struct {
	ID       string
	Title    string
	ImageURL string
	Price    string
}

// HasPrice reports whether the hit carries a real price.
func (s Summary) HasPrice() bool {
	return s.Price != "" && s.Price != NoPrice
}

// Ingredient is one ingredient line of an external recipe
type Ingredient struct {
	Amount string
	Unit   string
	Name   string
}

// Detail is the full external recipe
type Detail struct {
	ID           string
	Title        string
	Description  string
	ImageURL     string
	Ingredients  []Ingredient
	Instructions []string
}

// DecodeSummaries decodes a search response: an array of
// [id, title, imageUrl, price] rows.
func DecodeSummaries(raw []byte) ([]Summary, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: search row %d has %d fields", ErrUnexpectedShape, i, len(row))
		}
		s := Summary{
			ID:       field(row, 0),
			Title:    field(row, 1),
			ImageURL: field(row, 2),
			Price:    field(row, 3),
		}
		if s.ID == "" {
			return nil, fmt.Errorf("%w: search row %d has no id", ErrUnexpectedShape, i)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// DecodeDetail decodes a recipe response. The first row holds
// [_, title, description, imageUrl], the last row holds [_, instructions]
// and every row in between is an [amount, unit, name] ingredient.
func DecodeDetail(raw []byte) (*Detail, error) {
	rows, err := decodeRows(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: detail has %d rows", ErrUnexpectedShape, len(rows))
	}

	general := rows[0]
	if len(general) < 4 {
		return nil, fmt.Errorf("%w: general row has %d fields", ErrUnexpectedShape, len(general))
	}
	last := rows[len(rows)-1]
	if len(last) < 2 {
		return nil, fmt.Errorf("%w: instruction row has %d fields", ErrUnexpectedShape, len(last))
	}

	d := &Detail{
		ID:          field(general, 0),
		Title:       field(general, 1),
		Description: field(general, 2),
		ImageURL:    field(general, 3),
	}
	for i, row := range rows[1 : len(rows)-1] {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: ingredient row %d has %d fields", ErrUnexpectedShape, i, len(row))
		}
		d.Ingredients = append(d.Ingredients, Ingredient{
			Amount: field(row, 0),
			Unit:   field(row, 1),
			Name:   field(row, 2),
		})
	}
	for _, line := range strings.Split(strings.ReplaceAll(field(last, 1), "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			d.Instructions = append(d.Instructions, line)
		}
	}
	return d, nil
}

// ToRecipe converts an external recipe into a catalog draft.
func (d *Detail) ToRecipe() catalog.Recipe {
	r := catalog.Recipe{
		Title:        d.Title,
		Description:  d.Description,
		ImageURL:     d.ImageURL,
		Category:     catalog.DefaultCategory,
		Instructions: append([]string(nil), d.Instructions...),
	}
	for _, ing := range d.Ingredients {
		r.Ingredients = append(r.Ingredients, catalog.Ingredient{
			Amount: catalog.ParseAmount(ing.Amount),
			Unit:   ing.Unit,
			Name:   ing.Name,
		})
	}
	r.Normalize()
	return r
}

func decodeRows(raw []byte) ([][]json.RawMessage, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return rows, nil
}

// field returns the i-th value of a row as text; numbers are formatted,
// null and missing values are empty.
func field(row []json.RawMessage, i int) string {
	if i >= len(row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(row[i], &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n float64
	if err := json.Unmarshal(row[i], &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
