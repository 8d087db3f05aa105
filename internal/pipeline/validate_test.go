package pipeline

import (
	"strings"
	"testing"

	"codexnova/internal/taxonomy"
)

func newTestValidator() *Validator {
	return NewValidator(taxonomy.NovaProfile, taxonomy.DefaultMapping())
}

func TestValidateCleanSheet(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type,Rate Plan Month,Rate Plan Year",
		"VG,VG,NO,VG Digital,digital,199,1999",
		"AP,Aftenposten,NO,Aftenposten Duo,digital,249,N/A",
	)
	result := newTestValidator().Validate(sheet)

	if !result.IsValid {
		t.Fatalf("errors=%v", result.Errors)
	}
	if result.Stats.TotalRows != 2 || result.Stats.UniqueBrands != 2 || result.Stats.UniqueProducts != 2 {
		t.Fatalf("stats=%+v", result.Stats)
	}
	if result.Stats.TotalRatePlans != 3 {
		t.Fatalf("TotalRatePlans=%d", result.Stats.TotalRatePlans)
	}
	if result.Stats.RatePlansByBrand["VG"] != 2 || result.Stats.RatePlansByBrand["AP"] != 1 {
		t.Fatalf("byBrand=%v", result.Stats.RatePlansByBrand)
	}
}

func TestValidateMissingRequiredColumn(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,product_name,product_type",
		"VG,VG,VG Digital,digital",
	)
	result := newTestValidator().Validate(sheet)

	if result.IsValid {
		t.Fatalf("expected invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "missing required column: country" {
		t.Fatalf("errors=%v", result.Errors)
	}
}

func TestValidateRowErrors(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type",
		"VG,VG,DK,VG Digital,digital",
		"AP,Aftenposten,NO,Aftenposten Duo,paper",
		",Mystery,NO,Ghost,digital",
	)
	result := newTestValidator().Validate(sheet)

	if result.IsValid {
		t.Fatalf("expected invalid")
	}
	wants := []string{
		"Row 2: invalid country 'DK'. Must be NO or SE",
		"Row 3: invalid product type 'paper'. Must be 'print' or 'digital'",
		"Row 4: missing brand_code",
	}
	for _, want := range wants {
		found := false
		for _, e := range result.Errors {
			if e == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing %q in %v", want, result.Errors)
		}
	}
}

func TestValidateDuplicateProductKey(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type",
		"VG,VG,NO,VG Digital,digital",
		"AP,Aftenposten,NO,Aftenposten Duo,digital",
		"VG,VG,NO,VG Digital,digital",
	)
	result := newTestValidator().Validate(sheet)

	if result.IsValid {
		t.Fatalf("expected invalid")
	}
	want := "Row 4: duplicate brand+product combination VG:VG Digital (first seen at row 2)"
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Fatalf("errors=%v", result.Errors)
	}
}

func TestValidateCountsMatchExtraction(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type,Rate Plan Month,Rate Plan Year,Sthlm Månad",
		"VG,VG,NO,VG Digital,digital,199,N/A,abc",
		"EX,Expressen,SE,Expressen Digital,digital,99,999,149",
	)
	validation := newTestValidator().Validate(sheet)
	extraction := newTestExtractor().Extract(sheet)

	if validation.Stats.TotalRatePlans != len(extraction.RatePlans) {
		t.Fatalf("expected %d got %d", validation.Stats.TotalRatePlans, len(extraction.RatePlans))
	}
	byBrand := map[string]int{}
	for _, plan := range extraction.RatePlans {
		byBrand[plan.BrandCode]++
	}
	for brand, want := range validation.Stats.RatePlansByBrand {
		if byBrand[brand] != want {
			t.Fatalf("brand %s: expected %d got %d", brand, want, byBrand[brand])
		}
	}
}

func TestCheckAlignment(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type,Rate Plan Month,Rate Plan Year",
		"VG,VG,NO,VG Digital,digital,199,1999",
		"VG,VG,NO,VG Digital,digital,249,N/A",
	)
	result := newTestValidator().CheckAlignment(sheet)

	if len(result.Issues) != 1 {
		t.Fatalf("issues=%v", result.Issues)
	}
	want := "Row 3: duplicate rate plan alignment: VG:VG Digital:Rate Plan Month"
	if result.Issues[0] != want {
		t.Fatalf("issue=%q", result.Issues[0])
	}
	if result.TotalAlignments != 2 {
		t.Fatalf("TotalAlignments=%d", result.TotalAlignments)
	}
}

func TestCheckAlignmentClean(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type,Rate Plan Month",
		"VG,VG,NO,VG Digital,digital,199",
		"VG,VG,NO,VG Weekend,digital,149",
	)
	result := newTestValidator().CheckAlignment(sheet)

	if len(result.Issues) != 0 {
		t.Fatalf("issues=%v", result.Issues)
	}
	if result.TotalAlignments != 2 {
		t.Fatalf("TotalAlignments=%d", result.TotalAlignments)
	}
}

func TestValidateWhitespaceOnlyIsMissing(t *testing.T) {
	sheet := novaSheet(t,
		"brand_code,brand_name,country,product_name,product_type",
		"   ,VG,NO,VG Digital,digital",
	)
	result := newTestValidator().Validate(sheet)

	if result.IsValid {
		t.Fatalf("expected invalid")
	}
	if !strings.Contains(result.Errors[0], "missing brand_code") {
		t.Fatalf("errors=%v", result.Errors)
	}
}
