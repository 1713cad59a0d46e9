package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints the monthly report as a two-column terminal table.
func RenderTable(w io.Writer, m Monthly) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	t.AppendHeader(table.Row{m.MonthName, "Amount"})
	t.AppendRows([]table.Row{
		{"Hours worked", m.TotalHours},
		{"Shift income", m.ShiftIncome},
		{"Overtime pay", m.TotalOTPay},
		{"Pension", m.Pension},
		{"Total income", m.TotalIncome},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Bills", m.TotalBills},
		{"Groceries", m.TotalGroceries},
		{"Fuel", m.TotalFuel},
		{"Est. tax", m.TotalTax},
	})
	t.AppendSeparator()
	t.AppendFooter(table.Row{text.Bold.Sprint("Net result"), text.Bold.Sprint(m.NetResult)})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	t.Render()
}
