package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"codexnova/internal"
)

// BuildReport assembles the operator-facing validation report from one
// extraction run.
func BuildReport(result internal.ExtractResult) internal.Report {
	productsByBrand := map[string][]internal.Product{}
	for _, product := range result.Products {
		productsByBrand[product.BrandCode] = append(productsByBrand[product.BrandCode], product)
	}

	return internal.Report{
		Summary: internal.ReportSummary{
			Brands:                len(result.Brands),
			Products:              len(result.Products),
			RatePlans:             len(result.RatePlans),
			ProductsUsingFallback: result.Stats.ProductsUsingFallback,
			Errors:                len(result.Errors),
			Warnings:              len(result.Warnings),
		},
		Brands:          result.Brands,
		ProductsByBrand: productsByBrand,
		Errors:          result.Errors,
		Warnings:        result.Warnings,
		Stats:           result.Stats,
	}
}

func WriteReportJSON(report internal.Report, outputPath string) error {
	blob, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, blob, 0o644)
}

// ExportRatePlansXLSX writes the extracted rate plan facts to a workbook
// for operator review, one row per fact.
func ExportRatePlansXLSX(result internal.ExtractResult, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"brand_code", "product_name", "rate_code", "rate_name", "price", "category", "source_row",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, plan := range result.RatePlans {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, plan.BrandCode)
		set(2, plan.ProductName)
		set(3, plan.RateCode)
		set(4, plan.RateName)
		set(5, plan.Price)
		set(6, plan.Category)
		set(7, plan.RowNum)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
