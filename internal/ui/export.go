package ui

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Opskrifter"

var exportHeader = []interface{}{
	"Titel", "Kategori", "Forberedelse (min)", "Tilberedning (min)",
	"Portioner", "Ingredienser", "Trin", "Id",
}

// Export writes the cached recipes as an xlsx workbook
func (c *Console) Export(w io.Writer) error {
	recipes := c.Recipes()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", exportHeader); err != nil {
		return err
	}
	for i, r := range recipes {
		row := []interface{}{
			r.Title, r.Category, r.PrepTimeMinutes, r.CookTimeMinutes,
			r.Servings, len(r.Ingredients), len(r.Instructions), r.ID,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
