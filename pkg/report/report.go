package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Row is one unpaid recipient entry flattened out of a payment
type Row struct {
	MemberName  string
	MemberID    string
	PaymentName string
	PaymentID   string
	Amount      decimal.Decimal
	Currency    string
	Status      string
}

// Stats summarizes a collection run
type Stats struct {
	TotalPayments      int
	FilteredOut        int
	Processed          int
	Skipped            int
	PaymentsWithUnpaid int
	UnpaidItems        int
	Filters            TitleFilter
}

// Report holds the granular rows of a run plus its stats
type Report struct {
	Rows  []Row
	Stats Stats
}

// MemberTotal is the total owed by one member in one currency
type MemberTotal struct {
	MemberName string
	MemberID   string
	Currency   string
	Total      decimal.Decimal
}

// TitleTotal is the count and sum of unpaid entries under one payment title
type TitleTotal struct {
	Title string
	Count int
	Total decimal.Decimal
}

// MemberTotals aggregates the amount owed per member, sorted by amount
// descending. Sums are decimal-exact; repeated small amounts never drift.
func (r *Report) MemberTotals() []MemberTotal {
	type key struct {
		memberID string
		currency string
	}

	totals := make(map[key]*MemberTotal)
	var order []key
	for _, row := range r.Rows {
		k := key{memberID: row.MemberID, currency: row.Currency}
		if t, ok := totals[k]; ok {
			t.Total = t.Total.Add(row.Amount)
			continue
		}
		totals[k] = &MemberTotal{
			MemberName: row.MemberName,
			MemberID:   row.MemberID,
			Currency:   row.Currency,
			Total:      row.Amount,
		}
		order = append(order, k)
	}

	out := make([]MemberTotal, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})

	return out
}

// TitleTotals aggregates count and sum per payment title, sorted by amount
// descending.
func (r *Report) TitleTotals() []TitleTotal {
	totals := make(map[string]*TitleTotal)
	var order []string
	for _, row := range r.Rows {
		if t, ok := totals[row.PaymentName]; ok {
			t.Count++
			t.Total = t.Total.Add(row.Amount)
			continue
		}
		totals[row.PaymentName] = &TitleTotal{
			Title: row.PaymentName,
			Count: 1,
			Total: row.Amount,
		}
		order = append(order, row.PaymentName)
	}

	out := make([]TitleTotal, 0, len(order))
	for _, title := range order {
		out = append(out, *totals[title])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})

	return out
}

// TotalOwed sums all granular rows
func (r *Report) TotalOwed() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Rows {
		total = total.Add(row.Amount)
	}
	return total
}

// UniqueMembers counts distinct members with outstanding amounts
func (r *Report) UniqueMembers() int {
	seen := make(map[string]struct{})
	for _, row := range r.Rows {
		seen[row.MemberID] = struct{}{}
	}
	return len(seen)
}

// Empty reports whether the run found no outstanding payments
func (r *Report) Empty() bool {
	return len(r.Rows) == 0
}
