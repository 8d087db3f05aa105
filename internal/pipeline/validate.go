package pipeline

import (
	"fmt"

	"codexnova/internal"
	"codexnova/internal/taxonomy"
	"codexnova/internal/util"
)

// Validator checks a fully parsed sheet before any destructive write. It
// never short-circuits on the first bad row; all errors across all rows are
// collected in one pass.
type Validator struct {
	profile taxonomy.ColumnProfile
	mapping *taxonomy.RatePlanMapping
}

func NewValidator(profile taxonomy.ColumnProfile, mapping *taxonomy.RatePlanMapping) *Validator {
	return &Validator{profile: profile, mapping: mapping}
}

func (v *Validator) Validate(sheet internal.ParsedSheet) internal.ValidationResult {
	result := internal.ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Stats: internal.ValidationStats{
			TotalRows:        len(sheet.Rows),
			RatePlansByBrand: map[string]int{},
		},
	}

	for _, col := range v.profile.Required() {
		if !sheet.HasHeader(col) {
			result.Errors = append(result.Errors, fmt.Sprintf("missing required column: %s", col))
			result.IsValid = false
		}
	}
	if !result.IsValid {
		return result
	}

	uniqueBrands := map[string]struct{}{}
	uniqueProducts := map[string]struct{}{}
	productKeyRow := map[string]int{}

	for _, row := range sheet.Rows {
		for _, col := range v.profile.Required() {
			if row.Fields[col] == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: missing %s", row.Num, col))
				result.IsValid = false
			}
		}

		country := row.Fields[v.profile.Country]
		if country != "" && !contains(taxonomy.ValidCountries, country) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid country '%s'. Must be NO or SE", row.Num, country))
			result.IsValid = false
		}

		productType := row.Fields[v.profile.ProductType]
		if productType != "" && !contains(taxonomy.ValidProductTypes, productType) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: invalid product type '%s'. Must be 'print' or 'digital'", row.Num, productType))
			result.IsValid = false
		}

		brandCode := row.Fields[v.profile.BrandCode]
		productName := row.Fields[v.profile.ProductName]
		productKey := brandCode + ":" + productName
		if firstRow, seen := productKeyRow[productKey]; seen {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Row %d: duplicate brand+product combination %s (first seen at row %d)", row.Num, productKey, firstRow))
			result.IsValid = false
		} else {
			productKeyRow[productKey] = row.Num
		}

		uniqueBrands[brandCode] = struct{}{}
		uniqueProducts[productKey] = struct{}{}

		planCount := v.countRatePlans(sheet, row)
		result.Stats.TotalRatePlans += planCount
		result.Stats.RatePlansByBrand[brandCode] += planCount
	}

	result.Stats.UniqueBrands = len(uniqueBrands)
	result.Stats.UniqueProducts = len(uniqueProducts)
	return result
}

// countRatePlans applies the same price rule as extraction, so the expected
// counts here reconcile exactly against the facts written to the store.
func (v *Validator) countRatePlans(sheet internal.ParsedSheet, row internal.Row) int {
	count := 0
	for _, col := range v.mapping.Columns() {
		if !sheet.HasHeader(col.Column) {
			continue
		}
		if util.NormalizePrice(row.Fields[col.Column]).Valid {
			count++
		}
	}
	return count
}

// CheckAlignment flags (brand, product, rate column) triples that occur
// more than once across the whole sheet. Issues gate the import exactly
// like structural errors.
func (v *Validator) CheckAlignment(sheet internal.ParsedSheet) internal.AlignmentResult {
	result := internal.AlignmentResult{Issues: []string{}}
	seen := map[string]struct{}{}

	for _, row := range sheet.Rows {
		brandCode := row.Fields[v.profile.BrandCode]
		productName := row.Fields[v.profile.ProductName]

		for _, col := range v.mapping.Columns() {
			if !sheet.HasHeader(col.Column) {
				continue
			}
			if !util.NormalizePrice(row.Fields[col.Column]).Valid {
				continue
			}
			key := brandCode + ":" + productName + ":" + col.Column
			if _, dup := seen[key]; dup {
				result.Issues = append(result.Issues,
					fmt.Sprintf("Row %d: duplicate rate plan alignment: %s", row.Num, key))
				continue
			}
			seen[key] = struct{}{}
		}
	}

	result.TotalAlignments = len(seen)
	return result
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
