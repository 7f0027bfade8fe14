// Command datagen writes a synthetic manufacturing workbook suitable
// for exercising the advisor's data mode: a Products sheet, a year of
// Sales_Invoices, and an All_Expenses sheet reverse-engineered so the
// dataset lands on a realistic 8-12% profit margin.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

var productNames = []string{
	"PVC Pipe 20mm", "PVC Pipe 50mm", "PE Water Tank 500L", "Plastic Pallet", "Nylon Gear",
	"Industrial Plastic Container", "Plastic Valve", "Cable Tie Pack", "Plastic Chair", "Plastic Table",
	"Car Bumper Part", "Dashboard Panel", "Medical Syringe Body", "Pet Bottle 1L", "Pet Bottle 500ml",
	"Plastic Crate", "Irrigation Dripper", "Greenhouse Film Roll", "Plastic Bucket 20L", "Safety Helmet",
	"Plastic Gearbox Housing", "Electrical Conduit", "Switch Box", "Plastic Hinge", "Custom Injection Mold",
}

var expenseCategories = []string{
	"Raw Materials (PE, PP, PVC)",
	"Worker Salaries & Benefits",
	"Logistics & Freight",
	"Maintenance & Utilities",
	"Taxes & Insurance",
	"Cost of Capital",
}

// share of total expenses each category carries
var categoryWeights = []float64{0.50, 0.20, 0.10, 0.08, 0.07, 0.05}

func main() {
	out := flag.String("out", "Plastic_Manufacturing_Data_2025.xlsx", "output workbook path")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := generate(rng, *out); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)
}

func generate(rng *rand.Rand, out string) error {
	prices := make([]float64, len(productNames))
	productIDs := make([]string, len(productNames))
	for i := range productNames {
		prices[i] = round2(5.0 + rng.Float64()*145.0)
		productIDs[i] = fmt.Sprintf("PRD-%03d", i+1)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeProducts(f, productIDs, prices); err != nil {
		return err
	}
	totalRevenue, err := writeSales(f, rng, productIDs, prices)
	if err != nil {
		return err
	}
	if err := writeExpenses(f, rng, totalRevenue); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")
	return f.SaveAs(out)
}

func writeProducts(f *excelize.File, ids []string, prices []float64) error {
	if _, err := f.NewSheet("Products"); err != nil {
		return err
	}
	if err := setRow(f, "Products", 1, []interface{}{"Product_ID", "Product_Name", "Selling_Price"}); err != nil {
		return err
	}
	for i := range ids {
		if err := setRow(f, "Products", i+2, []interface{}{ids[i], productNames[i], prices[i]}); err != nil {
			return err
		}
	}
	return nil
}

// writeSales emits 2 to 5 invoices per day over 2025 and returns the
// summed revenue, which writeExpenses needs to hit the target margin.
func writeSales(f *excelize.File, rng *rand.Rand, ids []string, prices []float64) (float64, error) {
	if _, err := f.NewSheet("Sales_Invoices"); err != nil {
		return 0, err
	}
	header := []interface{}{"Date", "Invoice_ID", "Product_ID", "Quantity", "Unit_Price", "Total_Revenue"}
	if err := setRow(f, "Sales_Invoices", 1, header); err != nil {
		return 0, err
	}

	var totalRevenue float64
	row := 2
	invoice := 1001
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 365; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		for n := 2 + rng.Intn(4); n > 0; n-- {
			idx := rng.Intn(len(ids))
			qty := 20 + rng.Intn(480)
			revenue := round2(float64(qty) * prices[idx])
			totalRevenue += revenue
			cells := []interface{}{date, fmt.Sprintf("INV-%d", invoice), ids[idx], qty, prices[idx], revenue}
			if err := setRow(f, "Sales_Invoices", row, cells); err != nil {
				return 0, err
			}
			row++
			invoice++
		}
	}
	return totalRevenue, nil
}

// writeExpenses distributes the exact expense total needed for an 8-12%
// margin across twelve months and the weighted categories.
func writeExpenses(f *excelize.File, rng *rand.Rand, totalRevenue float64) error {
	if _, err := f.NewSheet("All_Expenses"); err != nil {
		return err
	}
	if err := setRow(f, "All_Expenses", 1, []interface{}{"Month", "Category", "Amount"}); err != nil {
		return err
	}

	targetMargin := 0.08 + rng.Float64()*0.04
	totalExpenses := totalRevenue * (1 - targetMargin)

	row := 2
	for month := 1; month <= 12; month++ {
		// slight monthly variance so the numbers don't look flat
		pool := totalExpenses / 12 * (0.95 + rng.Float64()*0.10)
		for i, category := range expenseCategories {
			cells := []interface{}{
				fmt.Sprintf("2025-%02d", month),
				category,
				round2(pool * categoryWeights[i]),
			}
			if err := setRow(f, "All_Expenses", row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
