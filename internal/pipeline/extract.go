package pipeline

import (
	"fmt"
	"strings"

	"codexnova/internal"
	"codexnova/internal/taxonomy"
	"codexnova/internal/util"
)

// Extractor turns parsed rows into the in-memory Brand/Product/RatePlan
// model. All dedup state lives in the result being built; nothing is shared
// between runs.
type Extractor struct {
	profile     taxonomy.ColumnProfile
	mapping     *taxonomy.RatePlanMapping
	corrections []taxonomy.Correction
}

func NewExtractor(profile taxonomy.ColumnProfile, mapping *taxonomy.RatePlanMapping, corrections []taxonomy.Correction) *Extractor {
	return &Extractor{profile: profile, mapping: mapping, corrections: corrections}
}

type extractState struct {
	result      internal.ExtractResult
	brandSeen   map[string]struct{}
	productSeen map[string]struct{}
}

func (e *Extractor) Extract(sheet internal.ParsedSheet) internal.ExtractResult {
	state := &extractState{
		brandSeen:   map[string]struct{}{},
		productSeen: map[string]struct{}{},
	}
	state.result.Errors = []string{}
	state.result.Warnings = []string{}

	for _, row := range sheet.Rows {
		e.applyCorrections(row, state)
		e.extractBrand(row, state)
		ok := e.extractProduct(row, state)
		if ok {
			e.extractRatePlans(sheet, row, state)
		}
	}

	state.result.Stats.TotalRows = len(sheet.Rows)
	state.result.Stats.BrandsFound = len(state.result.Brands)
	state.result.Stats.ProductsProcessed = len(state.result.Products)
	return state.result
}

// applyCorrections rewrites known sheet transcription errors in place,
// recording a note naming the row and both values.
func (e *Extractor) applyCorrections(row internal.Row, state *extractState) {
	productName := row.Fields[e.profile.ProductName]
	for _, c := range e.corrections {
		if c.ProductName != productName {
			continue
		}
		header := e.correctionHeader(c.Field)
		if header == "" || row.Fields[header] != c.Old {
			continue
		}
		row.Fields[header] = c.New
		state.result.Warnings = append(state.result.Warnings,
			fmt.Sprintf("Row %d: corrected %s %q -> %q for %q", row.Num, c.Field, c.Old, c.New, productName))
	}
}

func (e *Extractor) correctionHeader(field string) string {
	switch field {
	case "promocode":
		return e.profile.Promocode
	case "brand_code":
		return e.profile.BrandCode
	case "product_prefix":
		return e.profile.ProductPrefix
	default:
		return ""
	}
}

// extractBrand inserts a brand on its first occurrence. Later rows with the
// same code never overwrite name or country.
func (e *Extractor) extractBrand(row internal.Row, state *extractState) {
	code := row.Fields[e.profile.BrandCode]
	name := row.Fields[e.profile.BrandName]
	country := row.Fields[e.profile.Country]

	if code == "" || name == "" {
		return
	}
	if _, seen := state.brandSeen[code]; seen {
		return
	}

	if country == "" {
		country = "NO"
	}
	state.brandSeen[code] = struct{}{}
	state.result.Brands = append(state.result.Brands, internal.Brand{Code: code, Name: name, Country: country})
}

// extractProduct returns false when the row has no usable brand/product
// identity; the rate plan columns for that row are then skipped entirely
// with the one error recorded here.
func (e *Extractor) extractProduct(row internal.Row, state *extractState) bool {
	brandCode := row.Fields[e.profile.BrandCode]
	productName := row.Fields[e.profile.ProductName]

	if brandCode == "" || productName == "" {
		state.result.Errors = append(state.result.Errors,
			fmt.Sprintf("Row %d: missing brand or product name", row.Num))
		return false
	}

	productPrefix := row.Fields[e.profile.ProductPrefix]
	shortcode := productPrefix
	if shortcode == "" {
		shortcode = brandCode
		state.result.Stats.ProductsUsingFallback++
		state.result.Warnings = append(state.result.Warnings,
			fmt.Sprintf("Row %d: product %q using brand prefix %q as fallback", row.Num, productName, brandCode))
	}

	promocode := row.Fields[e.profile.Promocode]
	if promocode != "" {
		expectedStart := brandCode + "-" + shortcode
		if !strings.HasPrefix(promocode, expectedStart) {
			state.result.Warnings = append(state.result.Warnings,
				fmt.Sprintf("Row %d: promocode mismatch, expected prefix %q but got %q", row.Num, expectedStart, promocode))
		}
	}

	key := brandCode + "|" + productName
	if _, seen := state.productSeen[key]; seen {
		return true
	}
	state.productSeen[key] = struct{}{}

	productType := strings.ToLower(row.Fields[e.profile.ProductType])
	if productType == "" {
		productType = "digital"
	}

	state.result.Products = append(state.result.Products, internal.Product{
		BrandCode: brandCode,
		Name:      productName,
		Type:      productType,
		Shortcode: shortcode,
		Promocode: promocode,
		RowNum:    row.Num,
	})
	return true
}

// extractRatePlans emits one fact per mapped column holding a usable price.
// Blank and N/A cells are absent, not zero; a cell whose digits do not
// parse is a warning and produces nothing.
func (e *Extractor) extractRatePlans(sheet internal.ParsedSheet, row internal.Row, state *extractState) {
	brandCode := row.Fields[e.profile.BrandCode]
	productName := row.Fields[e.profile.ProductName]

	for _, col := range e.mapping.Columns() {
		if !sheet.HasHeader(col.Column) {
			continue
		}
		cell := row.Fields[col.Column]

		price := util.NormalizePrice(cell)
		if price.Absent {
			state.result.Stats.RatePlansSkipped++
			continue
		}
		if !price.Valid {
			state.result.Warnings = append(state.result.Warnings,
				fmt.Sprintf("Row %d: invalid price %q for %s", row.Num, cell, col.Column))
			continue
		}

		state.result.RatePlans = append(state.result.RatePlans, internal.RatePlan{
			BrandCode:   brandCode,
			ProductName: productName,
			RateCode:    col.Code,
			RateName:    col.Name,
			Price:       price.Price,
			Category:    col.Category,
			RowNum:      row.Num,
		})
		state.result.Stats.RatePlansCreated++
	}
}
