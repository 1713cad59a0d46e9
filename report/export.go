package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the monthly report as a one-sheet spreadsheet.
func ExportXLSX(m Monthly, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := m.MonthName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Amount"},
		{"Hours worked", m.TotalHours},
		{"Shift income", m.ShiftIncome},
		{"Overtime pay", m.TotalOTPay},
		{"Pension", m.Pension},
		{"Total income", m.TotalIncome},
		{"Bills", m.TotalBills},
		{"Groceries", m.TotalGroceries},
		{"Fuel", m.TotalFuel},
		{"Est. tax", m.TotalTax},
		{"Net result", m.NetResult},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
