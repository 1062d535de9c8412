package export

import (
	"fmt"
	"io"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetRows       = "Rows"
	SheetCategories = "Categories"
	SheetSeasons    = "Seasons"
	SheetAges       = "Ages"
	SheetItems      = "Items"
	SheetGenders    = "Genders"
)

// WriteWorkbook writes the filtered rows and every aggregation of vm as an xlsx workbook.
func WriteWorkbook(w io.Writer, vm domain.ViewModel, extraFields []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRows); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetRows, purchaseRows(vm.View.Rows, extraFields)},
		{SheetCategories, countRows("Category", vm.Aggregates.ByCategory)},
		{SheetSeasons, seasonRows(vm.Aggregates.MeanBySeason)},
		{SheetAges, histogramRows(vm.Aggregates.AgeHistogram)},
		{SheetItems, countRows("Item", vm.Aggregates.ByItem)},
		{SheetGenders, genderRows(vm.Aggregates)},
	}

	for _, sheet := range sheets {
		if sheet.name != SheetRows {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet.name, err)
			}
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
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
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func purchaseRows(purchases []domain.Purchase, extraFields []string) [][]any {
	header := []any{"Customer ID", "Age", "Gender", "Item Purchased", "Category", "Purchase Amount (USD)", "Season"}
	for _, field := range extraFields {
		header = append(header, field)
	}

	rows := [][]any{header}
	for _, p := range purchases {
		row := []any{p.CustomerID, p.Age, p.Gender, p.Item, p.Category, p.Amount.InexactFloat64(), p.Season}
		for _, field := range extraFields {
			row = append(row, p.Extra[field])
		}
		rows = append(rows, row)
	}
	return rows
}

func countRows(label string, counts []domain.Count) [][]any {
	rows := [][]any{{label, "Count", "Percent", "Display"}}
	for _, c := range counts {
		rows = append(rows, []any{c.Label, c.Count, c.Percent, c.Display()})
	}
	return rows
}

func seasonRows(means []domain.SeasonMean) [][]any {
	rows := [][]any{{"Season", "Purchases", "Average purchase amount (USD)"}}
	for _, s := range means {
		rows = append(rows, []any{s.Season, s.Mean.Count, meanCell(s.Mean)})
	}
	return rows
}

func histogramRows(bins []domain.HistogramBin) [][]any {
	rows := [][]any{{"Age from", "Age to", "Customers"}}
	for _, b := range bins {
		rows = append(rows, []any{b.Lower, b.Upper, b.Count})
	}
	return rows
}

func genderRows(agg domain.Aggregates) [][]any {
	means := map[string]domain.Mean{
		"Male":   agg.MeanByGender.Male,
		"Female": agg.MeanByGender.Female,
	}

	rows := [][]any{{"Gender", "Count", "Percent", "Display"}}
	for _, c := range agg.ByGender {
		rows = append(rows, []any{c.Label, c.Count, c.Percent, c.Display()})
	}
	rows = append(rows, []any{}, []any{"Gender", "Average purchase amount (USD)"})
	for _, g := range []string{"Male", "Female"} {
		rows = append(rows, []any{g, meanCell(means[g])})
	}
	return rows
}

func meanCell(m domain.Mean) any {
	if !m.Valid {
		return m.String()
	}
	return m.Value.Round(2).InexactFloat64()
}
