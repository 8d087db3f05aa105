package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

const (
	CategoryStandard = "standard"
	CategoryApp      = "app"
	CategoryBusiness = "business"
	CategoryRegional = "regional"
)

// RatePlanColumn binds one known sheet column header to a rate plan type.
// Column headers are locale-sensitive and matched exactly, diacritics
// included.
type RatePlanColumn struct {
	Column    string `json:"column"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	SortOrder int    `json:"sortOrder"`
}

// RatePlanMapping is the full column table for one sheet generation. It is
// configuration data, not logic: historical sheet variants ship different
// tables, and a JSON file can replace the compiled-in default.
type RatePlanMapping struct {
	columns  []RatePlanColumn
	byHeader map[string]RatePlanColumn
}

func NewRatePlanMapping(columns []RatePlanColumn) *RatePlanMapping {
	m := &RatePlanMapping{
		columns:  make([]RatePlanColumn, len(columns)),
		byHeader: make(map[string]RatePlanColumn, len(columns)),
	}
	copy(m.columns, columns)
	sort.SliceStable(m.columns, func(i, j int) bool {
		return m.columns[i].SortOrder < m.columns[j].SortOrder
	})
	for _, c := range m.columns {
		m.byHeader[c.Column] = c
	}
	return m
}

// Columns returns the mapping in sort order. Extraction walks this slice so
// fact emission order is stable across runs.
func (m *RatePlanMapping) Columns() []RatePlanColumn {
	return m.columns
}

func (m *RatePlanMapping) Lookup(header string) (RatePlanColumn, bool) {
	c, ok := m.byHeader[header]
	return c, ok
}

func (m *RatePlanMapping) Len() int {
	return len(m.columns)
}

// DefaultMapping is the current Codex Nova sheet: nine standard cadences,
// in-app and publisher segments, and the Swedish regional split.
func DefaultMapping() *RatePlanMapping {
	return NewRatePlanMapping([]RatePlanColumn{
		{Column: "Rate Plan Day", Code: "D", Name: "Day", Category: CategoryStandard, SortOrder: 1},
		{Column: "Rate Plan Week", Code: "W", Name: "Week", Category: CategoryStandard, SortOrder: 5},
		{Column: "Rate Plan Month", Code: "M", Name: "Month", Category: CategoryStandard, SortOrder: 10},
		{Column: "Rate Plan Quarter", Code: "Q", Name: "Quarter", Category: CategoryStandard, SortOrder: 20},
		{Column: "Rate Plan 6 months", Code: "H", Name: "6 months", Category: CategoryStandard, SortOrder: 30},
		{Column: "Rate Plan Year", Code: "Y", Name: "Year", Category: CategoryStandard, SortOrder: 40},
		{Column: "Rate Plan Year/month", Code: "YM", Name: "Year/month", Category: CategoryStandard, SortOrder: 50},
		{Column: "Rate plan 6-month/month", Code: "HM", Name: "6-month/month", Category: CategoryStandard, SortOrder: 60},
		{Column: "Rate plan quarter/month", Code: "QM", Name: "Quarter/month", Category: CategoryStandard, SortOrder: 70},
		{Column: "Sthlm Månad", Code: "SE_ST_M", Name: "Stockholm Monthly", Category: CategoryRegional, SortOrder: 100},
		{Column: "Sthlm Kvartal", Code: "SE_ST_Q", Name: "Stockholm Quarterly", Category: CategoryRegional, SortOrder: 110},
		{Column: "Sthlm Halvår", Code: "SE_ST_H", Name: "Stockholm Half-year", Category: CategoryRegional, SortOrder: 120},
		{Column: "Sthlm År", Code: "SE_ST_Y", Name: "Stockholm Yearly", Category: CategoryRegional, SortOrder: 130},
		{Column: "Övriga Sverige Månad", Code: "SE_OS_M", Name: "Övriga Sverige Monthly", Category: CategoryRegional, SortOrder: 140},
		{Column: "Övriga Sverige Kvartal", Code: "SE_OS_Q", Name: "Övriga Sverige Quarterly", Category: CategoryRegional, SortOrder: 150},
		{Column: "Övriga Sverige Halvår", Code: "SE_OS_H", Name: "Övriga Sverige Half-year", Category: CategoryRegional, SortOrder: 160},
		{Column: "Övriga Sverige År", Code: "SE_OS_Y", Name: "Övriga Sverige Yearly", Category: CategoryRegional, SortOrder: 170},
		{Column: "In-app 3 mån", Code: "APP_3M", Name: "In-app 3 months", Category: CategoryApp, SortOrder: 200},
		{Column: "in-app 6 mån", Code: "APP_6M", Name: "In-app 6 months", Category: CategoryApp, SortOrder: 210},
		{Column: "Pub 1500", Code: "PUB_1500", Name: "Pub 1500", Category: CategoryBusiness, SortOrder: 300},
		{Column: "Pub 2000", Code: "PUB_2000", Name: "Pub 2000", Category: CategoryBusiness, SortOrder: 310},
		{Column: "B2B Year", Code: "B2B_Y", Name: "B2B Year", Category: CategoryBusiness, SortOrder: 400},
		{Column: "Företag År", Code: "FO_Y", Name: "Företag Year", Category: CategoryBusiness, SortOrder: 410},
	})
}

// LoadMapping reads a JSON array of RatePlanColumn entries, replacing the
// compiled-in table wholesale.
func LoadMapping(path string) (*RatePlanMapping, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var columns []RatePlanColumn
	if err := json.Unmarshal(blob, &columns); err != nil {
		return nil, fmt.Errorf("parse rate plan mapping %s: %w", path, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("rate plan mapping %s is empty", path)
	}
	for i, c := range columns {
		if c.Column == "" || c.Code == "" {
			return nil, fmt.Errorf("rate plan mapping %s: entry %d missing column or code", path, i)
		}
	}
	return NewRatePlanMapping(columns), nil
}
