/*
Package grocery tracks grocery spending across an active shopping list and a
permanent archive of completed runs.

PURPOSE:
  The active list is the working cart; archiving a run moves every active
  item into the archive (marked checked) in one step. Spend figures come in
  two flavors: pay-period spend (checked items only, sales tax added for
  taxed stores) and calendar-month totals (every item, checked or not).
*/
package grocery

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/payroll"
)

// Lists is the full grocery state: the working cart plus the archive.
type Lists struct {
	Active  []budget.GroceryItem
	Archive []budget.GroceryItem
}

// =============================================================================
// LIST MUTATIONS
// =============================================================================

// Add prepends an item to the active list, newest first.
func (l Lists) Add(item budget.GroceryItem) Lists {
	l.Active = append([]budget.GroceryItem{item}, l.Active...)
	return l
}

// ToggleChecked flips the checked flag of an active item.
func (l Lists) ToggleChecked(id string) Lists {
	out := make([]budget.GroceryItem, len(l.Active))
	for i, it := range l.Active {
		if it.ID == id {
			it.Checked = !it.Checked
		}
		out[i] = it
	}
	l.Active = out
	return l
}

// Update replaces an item in place, searching both lists.
func (l Lists) Update(item budget.GroceryItem) Lists {
	l.Active = replaceItem(l.Active, item)
	l.Archive = replaceItem(l.Archive, item)
	return l
}

// Delete removes an item by id from whichever list holds it.
func (l Lists) Delete(id string) Lists {
	l.Active = dropItem(l.Active, id)
	l.Archive = dropItem(l.Archive, id)
	return l
}

// ArchiveRun completes a shopping run: every active item moves to the
// archive marked checked and the active list empties. The move is all or
// nothing; an empty active list is an error, not a no-op.
func (l Lists) ArchiveRun() (Lists, error) {
	if len(l.Active) == 0 {
		return l, budget.ErrNothingToArchive
	}

	moved := make([]budget.GroceryItem, len(l.Active))
	for i, it := range l.Active {
		it.Checked = true
		moved[i] = it
	}
	l.Archive = append(moved, l.Archive...)
	l.Active = nil
	return l, nil
}

func replaceItem(items []budget.GroceryItem, item budget.GroceryItem) []budget.GroceryItem {
	out := make([]budget.GroceryItem, len(items))
	for i, it := range items {
		if it.ID == item.ID {
			it = item
		}
		out[i] = it
	}
	return out
}

func dropItem(items []budget.GroceryItem, id string) []budget.GroceryItem {
	out := make([]budget.GroceryItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// =============================================================================
// SPEND FIGURES
// =============================================================================

// Total sums the price of every item in a list, checked or not.
func Total(items []budget.GroceryItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(budget.ParseDecimal(it.Price))
	}
	return sum
}

// PeriodSpend sums checked items dated inside the pay period, across both
// lists. Items from stores configured as taxed get sales tax added on top;
// an item with no store counts under "Other".
func PeriodSpend(l Lists, p payroll.Period, settings budget.Settings) decimal.Decimal {
	rate := budget.Percent(settings.SalesTaxRate)
	sum := decimal.Zero

	for _, it := range append(append([]budget.GroceryItem{}, l.Active...), l.Archive...) {
		if !it.Checked || !p.ContainsDate(it.Date) {
			continue
		}
		price := budget.ParseDecimal(it.Price)
		sum = sum.Add(price)

		store := it.Store
		if store == "" {
			store = "Other"
		}
		if settings.TaxedStores[store] {
			sum = sum.Add(price.Mul(rate))
		}
	}
	return sum
}

// PeriodList merges both lists into one period-scoped view, newest first
// regardless of which list an item came from. Archived items always display
// as checked.
func PeriodList(l Lists, p payroll.Period) []budget.GroceryItem {
	var out []budget.GroceryItem
	for _, it := range l.Active {
		if p.ContainsDate(it.Date) {
			out = append(out, it)
		}
	}
	for _, it := range l.Archive {
		if p.ContainsDate(it.Date) {
			it.Checked = true
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MonthTotal sums every item dated in the given month across both lists,
// regardless of checked state. An item exists in exactly one list, so no
// double counting is possible.
func MonthTotal(l Lists, year int, month time.Month) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range append(append([]budget.GroceryItem{}, l.Active...), l.Archive...) {
		if budget.InMonthString(it.Date, year, month) {
			sum = sum.Add(budget.ParseDecimal(it.Price))
		}
	}
	return sum
}
