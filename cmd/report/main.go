/*
main.go - Monthly report CLI

PURPOSE:
  Prints the monthly budget report as a terminal table straight from the
  SQLite database, without going through the HTTP server. Optionally
  exports the same report as an XLSX spreadsheet.

EXAMPLES:
  # Current month
  ./report

  # Specific month
  ./report --month 2026-07

  # Export to a spreadsheet
  ./report --month 2026-07 --xlsx july.xlsx
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/joho/godotenv"

	"github.com/warp/budget-engine/report"
	"github.com/warp/budget-engine/store/sqlite"
)

type Params struct {
	Db    string `descr:"SQLite database path" default:"budget.db"`
	Month string `descr:"Target month (YYYY-MM, default: current month)"`
	Xlsx  string `descr:"Export the report to this XLSX file"`
}

func main() {
	_ = godotenv.Load()

	boa.NewCmdT[Params]("report").
		WithShort("Print the monthly budget report").
		WithLong("Aggregates shifts, bills, groceries and fuel for one calendar month and prints the income/spend breakdown as a table.").
		WithRunFunc(func(params *Params) {
			now := time.Now()
			year, month := now.Year(), now.Month()
			if params.Month != "" {
				t, err := time.Parse("2006-01", params.Month)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Invalid month %q, want YYYY-MM\n", params.Month)
					os.Exit(1)
				}
				year, month = t.Year(), t.Month()
			}

			dbPath := params.Db
			if env := os.Getenv("BUDGET_DB"); env != "" && params.Db == "budget.db" {
				dbPath = env
			}

			store, err := sqlite.New(dbPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
				os.Exit(1)
			}
			defer store.Close()

			ctx := context.Background()
			settings, err := store.GetSettings(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
				os.Exit(1)
			}
			rules, err := store.ListRules(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading rules: %v\n", err)
				os.Exit(1)
			}
			groceries, err := store.ListGroceries(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading groceries: %v\n", err)
				os.Exit(1)
			}
			fuelLogs, err := store.ListFuel(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading fuel logs: %v\n", err)
				os.Exit(1)
			}

			monthly := report.Build(report.Inputs{
				Rules:     rules,
				Groceries: groceries,
				Fuel:      fuelLogs,
				Settings:  settings,
			}, year, month)

			report.RenderTable(os.Stdout, monthly)

			if params.Xlsx != "" {
				if err := report.ExportXLSX(monthly, params.Xlsx); err != nil {
					fmt.Fprintf(os.Stderr, "Error exporting XLSX: %v\n", err)
					os.Exit(1)
				}
				fmt.Printf("Exported %s\n", params.Xlsx)
			}
		}).
		Run()
}
