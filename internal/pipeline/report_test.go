package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"codexnova/internal"
)

func TestBuildReport(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type,product_prefix,Rate Plan Month",
		"VG,VG,NO,VG Digital,digital,DIG,199",
		"VG,VG,NO,VG Weekend,digital,,149",
		"AP,Aftenposten,NO,Aftenposten Duo,digital,DUO,249",
	)
	result := newTestExtractor().Extract(sheet)
	report := BuildReport(result)

	if report.Summary.Brands != 2 || report.Summary.Products != 3 || report.Summary.RatePlans != 3 {
		t.Fatalf("summary=%+v", report.Summary)
	}
	if report.Summary.ProductsUsingFallback != 1 {
		t.Fatalf("fallback=%d", report.Summary.ProductsUsingFallback)
	}
	if len(report.ProductsByBrand["VG"]) != 2 || len(report.ProductsByBrand["AP"]) != 1 {
		t.Fatalf("productsByBrand=%v", report.ProductsByBrand)
	}
}

func TestWriteReportJSON(t *testing.T) {
	report := internal.Report{
		Summary: internal.ReportSummary{Brands: 1},
		Brands:  []internal.Brand{{Code: "VG", Name: "VG", Country: "NO"}},
	}
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := WriteReportJSON(report, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded internal.Report
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Summary.Brands != 1 || decoded.Brands[0].Code != "VG" {
		t.Fatalf("decoded=%+v", decoded)
	}
}

func TestExportRatePlansXLSX(t *testing.T) {
	result := internal.ExtractResult{
		RatePlans: []internal.RatePlan{
			{BrandCode: "VG", ProductName: "VG Digital", RateCode: "M", RateName: "Month", Price: 199, Category: "standard", RowNum: 2},
		},
	}
	path := filepath.Join(t.TempDir(), "plans.xlsx")
	if err := ExportRatePlansXLSX(result, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[0][0] != "brand_code" || rows[1][0] != "VG" || rows[1][4] != "199" {
		t.Fatalf("rows=%v", rows)
	}
}
