package cards

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet       = "Items"
	diagnosticsSheet = "Diagnostics"
)

// WriteReport writes the catalog as an XLSX workbook with one sheet for the
// accepted items and one for the diagnostics.
func WriteReport(w io.Writer, cat Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("naming items sheet: %w", err)
	}
	if _, err := f.NewSheet(diagnosticsSheet); err != nil {
		return fmt.Errorf("creating diagnostics sheet: %w", err)
	}

	rows := [][]any{{"ID", "Slug", "Title", "Subreddit", "Verdict", "Source"}}
	for _, it := range cat.Items {
		rows = append(rows, []any{it.ID, it.Slug, it.Title, deref(it.Subreddit), it.Verdict(), it.Source()})
	}
	if err := writeRows(f, itemsSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"File", "Kind", "Error"}}
	for _, d := range cat.Diagnostics {
		rows = append(rows, []any{d.File, d.Kind, d.Error})
	}
	if err := writeRows(f, diagnosticsSheet, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
