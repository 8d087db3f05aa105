package taxonomy

import "fmt"

var (
	ValidCountries    = []string{"NO", "SE"}
	ValidProductTypes = []string{"print", "digital"}
)

// ColumnProfile maps the logical brand/product fields to the exact header
// text of one sheet generation. Two generations exist: the original export
// with display headers ("Brand Prefix", "Brandname") and the reworked
// snake_case sheet.
type ColumnProfile struct {
	Name string

	BrandCode     string
	BrandName     string
	Country       string
	ProductName   string
	ProductType   string
	ProductPrefix string
	Promocode     string
}

// Required lists the headers every row must fill for the profile.
func (p ColumnProfile) Required() []string {
	return []string{p.BrandCode, p.BrandName, p.Country, p.ProductName, p.ProductType}
}

var NovaProfile = ColumnProfile{
	Name:          "nova",
	BrandCode:     "brand_code",
	BrandName:     "brand_name",
	Country:       "country",
	ProductName:   "product_name",
	ProductType:   "product_type",
	ProductPrefix: "product_prefix",
	Promocode:     "standard_promocode",
}

var CodexProfile = ColumnProfile{
	Name:          "codex",
	BrandCode:     "Brand Prefix",
	BrandName:     "Brandname",
	Country:       "Country",
	ProductName:   "Product",
	ProductType:   "Product Type",
	ProductPrefix: "Product Prefix",
	Promocode:     "Standard promocode",
}

func ProfileByName(name string) (ColumnProfile, error) {
	switch name {
	case "nova":
		return NovaProfile, nil
	case "codex":
		return CodexProfile, nil
	default:
		return ColumnProfile{}, fmt.Errorf("unknown column profile: %s", name)
	}
}

// DetectProfile picks the profile whose brand-code header appears in the
// sheet. Used when COLUMN_PROFILE is left at "auto".
func DetectProfile(headers []string) (ColumnProfile, error) {
	for _, h := range headers {
		if h == NovaProfile.BrandCode {
			return NovaProfile, nil
		}
		if h == CodexProfile.BrandCode {
			return CodexProfile, nil
		}
	}
	return ColumnProfile{}, fmt.Errorf("header row matches no known column profile")
}
