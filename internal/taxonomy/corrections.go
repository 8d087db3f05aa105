package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
)

// Correction is an exact-match substitution for a known transcription error
// in the source sheet: when the named product carries Old in the given
// logical field, the value is replaced with New before extraction. Field is
// one of "promocode", "brand_code", "product_prefix".
type Correction struct {
	ProductName string `json:"productName"`
	Field       string `json:"field"`
	Old         string `json:"old"`
	New         string `json:"new"`
}

// DefaultCorrections carries the one known sheet quirk: the Aftenposten
// weekday product was transcribed with the Aftonbladet prefix.
func DefaultCorrections() []Correction {
	return []Correction{
		{
			ProductName: "Aftenposten mandag til lørdag",
			Field:       "promocode",
			Old:         "AB-D16",
			New:         "AP-D16",
		},
	}
}

func LoadCorrections(path string) ([]Correction, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var corrections []Correction
	if err := json.Unmarshal(blob, &corrections); err != nil {
		return nil, fmt.Errorf("parse corrections %s: %w", path, err)
	}
	for i, c := range corrections {
		switch c.Field {
		case "promocode", "brand_code", "product_prefix":
		default:
			return nil, fmt.Errorf("corrections %s: entry %d has unknown field %q", path, i, c.Field)
		}
		if c.ProductName == "" || c.Old == "" {
			return nil, fmt.Errorf("corrections %s: entry %d missing productName or old value", path, i)
		}
	}
	return corrections, nil
}
