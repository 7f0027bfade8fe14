package kpi

import (
	"sort"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("log")

// Expected column names. Tables may carry any subset; each profile
// section is gated on the columns it needs.
const (
	ColDate     = "Date"
	ColCustomer = "Customer"
	ColRevenue  = "Total_Revenue"
	ColCategory = "Category"
	ColAmount   = "Amount"
)

const (
	trendMonths = 3
	topLimit    = 5
)

// MonthRevenue is one point of the monthly revenue trend.
type MonthRevenue struct {
	Month   string // "2006-01"
	Revenue float64
}

// Profile is an immutable KPI snapshot of one sales table and one
// expense table. Nil pointers and empty slices mark sections whose
// source columns were absent.
type Profile struct {
	TotalRevenue  *float64
	TotalExpenses *float64
	NetProfit     *float64
	Margin        *float64

	MonthlyTrend         []MonthRevenue
	TopCustomers         []EntityTotal
	TopExpenseCategories []EntityTotal
}

// SumNumeric sums a column coercing each cell to a number, counting
// unparseable cells as zero. A missing column sums to zero; callers gate
// on HasColumn first.
func SumNumeric(t *Table, column string) float64 {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0
	}
	var sum float64
	for _, row := range t.Rows {
		if v, ok := t.cellAt(row, idx).CoerceNumeric(); ok {
			sum += v
		}
	}
	return sum
}

// BuildProfile computes the full KPI snapshot for a sales and an expense
// table. It never fails: missing columns narrow the profile instead.
func BuildProfile(sales, expenses *Table) *Profile {
	p := &Profile{}

	hasRevenue := sales.HasColumn(ColRevenue)
	hasExpenses := expenses.HasColumn(ColAmount)

	if hasRevenue {
		total := SumNumeric(sales, ColRevenue)
		p.TotalRevenue = &total
	}
	if hasExpenses {
		total := SumNumeric(expenses, ColAmount)
		p.TotalExpenses = &total
	}

	// Profit and margin only when both totals are simultaneously known.
	if hasRevenue && hasExpenses {
		profit := *p.TotalRevenue - *p.TotalExpenses
		p.NetProfit = &profit

		margin := 0.0
		if *p.TotalRevenue > 0 {
			margin = profit / *p.TotalRevenue * 100
		}
		p.Margin = &margin
	}

	if sales.HasColumn(ColDate) && hasRevenue {
		p.MonthlyTrend = monthlyTrend(sales)
	}
	if sales.HasColumn(ColCustomer) && hasRevenue {
		p.TopCustomers = topTotals(sales, ColCustomer, ColRevenue, topLimit)
	}
	if expenses.HasColumn(ColCategory) && hasExpenses {
		p.TopExpenseCategories = topTotals(expenses, ColCategory, ColAmount, topLimit)
	}

	return p
}

// monthlyTrend groups revenue by calendar month, dropping rows whose
// date cell cannot be coerced, and keeps the last trendMonths months.
func monthlyTrend(sales *Table) []MonthRevenue {
	dateIdx := sales.ColumnIndex(ColDate)
	revIdx := sales.ColumnIndex(ColRevenue)

	byMonth := make(map[string]float64)
	dropped := 0
	for _, row := range sales.Rows {
		date, ok := sales.cellAt(row, dateIdx).CoerceDate()
		if !ok {
			dropped++
			continue
		}
		v, _ := sales.cellAt(row, revIdx).CoerceNumeric()
		byMonth[date.Format("2006-01")] += v
	}
	if dropped > 0 {
		log.Debugf("monthly trend: dropped %d rows with unparseable dates", dropped)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	if len(months) > trendMonths {
		months = months[len(months)-trendMonths:]
	}

	trend := make([]MonthRevenue, 0, len(months))
	for _, m := range months {
		trend = append(trend, MonthRevenue{Month: m, Revenue: byMonth[m]})
	}
	return trend
}

// topTotals ranks groups of groupCol by the sum of valueCol, descending,
// keeping at most limit entries. Ties keep the order groups first
// appeared in the table.
func topTotals(t *Table, groupCol, valueCol string, limit int) []EntityTotal {
	groupIdx := t.ColumnIndex(groupCol)
	valueIdx := t.ColumnIndex(valueCol)

	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range t.Rows {
		key := t.cellAt(row, groupIdx).String()
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		v, _ := t.cellAt(row, valueIdx).CoerceNumeric()
		sums[key] += v
	}

	top := newTopN(limit)
	for seq, key := range order {
		top.Insert(rankedEntry{EntityTotal: EntityTotal{Name: key, Total: sums[key]}, seq: seq})
	}
	return top.Values()
}
