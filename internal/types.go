package internal

// Brand is a top-level publisher identified by a short unique code.
// The code is a case-sensitive exact-match key.
type Brand struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Product is one subscription offering belonging to a brand. Identity is
// the (BrandCode, Name) pair. Shortcode falls back to the brand code when
// the sheet has no product prefix.
type Product struct {
	BrandCode string `json:"brand_code"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Shortcode string `json:"shortcode"`
	Promocode string `json:"standard_promocode,omitempty"`
	RowNum    int    `json:"row"`
}

// RatePlan is one priced billing variant attached to a product. One fact is
// produced per (product row, mapped column) with a usable price; facts are
// never deduplicated.
type RatePlan struct {
	BrandCode   string `json:"brand_code"`
	ProductName string `json:"product_name"`
	RateCode    string `json:"rate_code"`
	RateName    string `json:"rate_name"`
	Price       int    `json:"price"`
	Category    string `json:"category"`
	RowNum      int    `json:"row"`
}

// Row is one data row of the source sheet keyed by header name. Num is the
// sheet row number (header row is 1, first data row is 2), used in
// diagnostics.
type Row struct {
	Num    int
	Fields map[string]string
}

type ParsedSheet struct {
	Headers []string
	Rows    []Row
}

func (s ParsedSheet) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

type ExtractStats struct {
	TotalRows             int `json:"totalRows"`
	BrandsFound           int `json:"brandsFound"`
	ProductsProcessed     int `json:"productsProcessed"`
	RatePlansCreated      int `json:"ratePlansCreated"`
	RatePlansSkipped      int `json:"ratePlansSkipped"`
	ProductsUsingFallback int `json:"productsUsingFallback"`
}

// ExtractResult is the in-memory model for one import run. Brands keep
// sheet order; first occurrence of a brand code wins.
type ExtractResult struct {
	Brands    []Brand
	Products  []Product
	RatePlans []RatePlan
	Errors    []string
	Warnings  []string
	Stats     ExtractStats
}

type ValidationStats struct {
	TotalRows        int            `json:"totalRows"`
	UniqueBrands     int            `json:"uniqueBrands"`
	UniqueProducts   int            `json:"uniqueProducts"`
	TotalRatePlans   int            `json:"totalRatePlans"`
	RatePlansByBrand map[string]int `json:"ratePlansByBrand"`
}

type ValidationResult struct {
	IsValid  bool            `json:"isValid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// AlignmentResult reports (brand, product, rate column) triples that recur
// across the sheet. Any issue blocks the import just like a structural
// error.
type AlignmentResult struct {
	Issues          []string `json:"issues"`
	TotalAlignments int      `json:"totalAlignments"`
}

type ReportSummary struct {
	Brands                int `json:"brands"`
	Products              int `json:"products"`
	RatePlans             int `json:"ratePlans"`
	ProductsUsingFallback int `json:"productsUsingFallback"`
	Errors                int `json:"errors"`
	Warnings              int `json:"warnings"`
}

type Report struct {
	Summary         ReportSummary        `json:"summary"`
	Brands          []Brand              `json:"brands"`
	ProductsByBrand map[string][]Product `json:"productsByBrand"`
	Errors          []string             `json:"errors"`
	Warnings        []string             `json:"warnings"`
	Stats           ExtractStats         `json:"stats"`
}

// RunStatus tracks one import run. No state is ever re-entered; a new run
// starts at Idle.
type RunStatus string

const (
	RunIdle               RunStatus = "idle"
	RunValidating         RunStatus = "validating"
	RunValidationFailed   RunStatus = "validation_failed"
	RunValidated          RunStatus = "validated"
	RunImporting          RunStatus = "importing"
	RunImportFailed       RunStatus = "import_failed"
	RunImported           RunStatus = "imported"
	RunVerifying          RunStatus = "verifying"
	RunVerificationFailed RunStatus = "verification_failed"
	RunVerified           RunStatus = "verified"
)

// ImportCounts are the actual successful writes of a store-mode import.
type ImportCounts struct {
	Brands    int `json:"brands"`
	Products  int `json:"products"`
	RatePlans int `json:"ratePlans"`
	Failed    int `json:"failed"`
}
