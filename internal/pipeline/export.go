package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

// ExportRowsToXLSX writes the flattened import report to a workbook,
// one row per product.
func ExportRowsToXLSX(rows []internal.ImportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"raw_index", "title", "subtitle", "isbn",
		"publication_status", "publication_date",
		"contributors", "unmapped_fields", "validation_errors", "conflict",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.RawIndex)
		set(2, row.Title)
		set(3, row.Subtitle)
		set(4, row.ISBN)
		set(5, row.PublicationStatus)
		set(6, row.PublicationDate)
		set(7, row.Contributors)
		set(8, row.UnmappedFields)
		set(9, row.ValidationErrors)
		set(10, row.Conflict)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
