package pipeline

import (
	"strings"
	"testing"
	"time"

	"codexnova/internal"
)

func TestGenerateSQLOrdering(t *testing.T) {
	result := internal.ExtractResult{
		Brands:   []internal.Brand{{Code: "VG", Name: "VG", Country: "NO"}},
		Products: []internal.Product{{BrandCode: "VG", Name: "VG Digital", Type: "digital", Shortcode: "DIG"}},
		RatePlans: []internal.RatePlan{
			{BrandCode: "VG", ProductName: "VG Digital", RateCode: "M", RateName: "Month", Price: 199, Category: "standard"},
		},
	}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	script := GenerateSQL(result, now)

	markers := []string{
		"-- STEP 1: BACKUP EXISTING DATA",
		"-- STEP 2: CLEAR EXISTING DATA",
		"DELETE FROM rate_plans;",
		"DELETE FROM products;",
		"DELETE FROM brands;",
		"-- STEP 3: INSERT BRANDS (1 brands)",
		"INSERT INTO brands (code, name, country) VALUES ('VG', 'VG', 'NO');",
		"-- STEP 4: INSERT PRODUCTS (1 products)",
		"-- STEP 5: INSERT RATE PLANS (1 rate plans)",
		"-- VG - VG Digital",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(script, marker)
		if idx < 0 {
			t.Fatalf("missing %q", marker)
		}
		if idx < last {
			t.Fatalf("%q out of order", marker)
		}
		last = idx
	}

	if !strings.Contains(script, "brands_backup_") {
		t.Fatalf("backup statement missing")
	}
	if !strings.Contains(script, "Generated: 2026-08-01T12:00:00Z") {
		t.Fatalf("timestamp missing")
	}
}

func TestGenerateSQLEscapesQuotes(t *testing.T) {
	result := internal.ExtractResult{
		Brands: []internal.Brand{{Code: "DA", Name: "Dagbladet's Best", Country: "NO"}},
	}
	script := GenerateSQL(result, time.Now())

	if !strings.Contains(script, "'Dagbladet''s Best'") {
		t.Fatalf("embedded quote not doubled:\n%s", script)
	}
}

func TestGenerateSQLRatePlanSubquery(t *testing.T) {
	result := internal.ExtractResult{
		RatePlans: []internal.RatePlan{
			{BrandCode: "AP", ProductName: "Aftenposten Duo", RateCode: "Y", RateName: "Year", Price: 3499, Category: "standard"},
		},
	}
	script := GenerateSQL(result, time.Now())

	want := "WHERE b.code = 'AP' AND p.name = 'Aftenposten Duo'), 'Y', 'Year', 3499, 'standard');"
	if !strings.Contains(script, want) {
		t.Fatalf("rate plan insert missing subquery:\n%s", script)
	}
}
