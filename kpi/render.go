package kpi

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with thousands separators and two
// decimals, e.g. "1,234.56".
func FormatMoney(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatWhole renders an amount with thousands separators and no
// decimals, e.g. "1,235".
func FormatWhole(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// RenderText renders the profile as ordered lines for prompt grounding.
// Revenue and expense totals always render, with an explicit note when
// their source column was absent; every other section is omitted
// entirely when unavailable.
func (p *Profile) RenderText() string {
	var lines []string

	if p.TotalRevenue != nil {
		lines = append(lines, fmt.Sprintf("- Total Revenue: %s", FormatMoney(*p.TotalRevenue)))
	} else {
		lines = append(lines, "- Total Revenue: (missing column 'Total_Revenue')")
	}

	if p.TotalExpenses != nil {
		lines = append(lines, fmt.Sprintf("- Total Operating Expenses: %s", FormatMoney(*p.TotalExpenses)))
	} else {
		lines = append(lines, "- Total Operating Expenses: (missing column 'Amount')")
	}

	if p.NetProfit != nil && p.Margin != nil {
		lines = append(lines, fmt.Sprintf("- Net Profit: %s", FormatMoney(*p.NetProfit)))
		lines = append(lines, fmt.Sprintf("- Profit Margin: %.2f%%", *p.Margin))
	}

	if len(p.MonthlyTrend) > 0 {
		parts := make([]string, 0, len(p.MonthlyTrend))
		for _, mr := range p.MonthlyTrend {
			parts = append(parts, fmt.Sprintf("%s: %s", mr.Month, FormatWhole(mr.Revenue)))
		}
		lines = append(lines, "- Revenue (last 3 months): "+strings.Join(parts, ", "))
	}

	if len(p.TopCustomers) > 0 {
		lines = append(lines, "- Top Customers (by revenue): "+joinEntities(p.TopCustomers))
	}

	if len(p.TopExpenseCategories) > 0 {
		lines = append(lines, "- Top Expense Categories: "+joinEntities(p.TopExpenseCategories))
	}

	return strings.Join(lines, "\n")
}

func joinEntities(entities []EntityTotal) string {
	parts := make([]string, 0, len(entities))
	for _, e := range entities {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.Name, FormatWhole(e.Total)))
	}
	return strings.Join(parts, ", ")
}
