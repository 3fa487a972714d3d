package catalog

import "strings"

// LiveSlug is the only catalog entry backed by the live data source
const LiveSlug = "dsex-prices-historical"

// MockCSV is the static export stub served for fixture-backed datasets
const MockCSV = "mock,csv,data\n1,2,3"

// Dataset is one storefront catalog entry. Fixture-backed entries carry
// their preview rows inline; the live entry is served from the store.
type Dataset struct {
	ID          string           `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	UpdatedAt   string           `json:"updatedAt"`
	Source      string           `json:"source"`
	Tags        []string         `json:"tags"`
	Fields      []string         `json:"fields,omitempty"`
	Preview     []map[string]any `json:"previewData,omitempty"`
}

// Summary is the listing shape: a Dataset without fields or preview rows
type Summary struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	UpdatedAt   string   `json:"updatedAt"`
	Source      string   `json:"source"`
	Tags        []string `json:"tags"`
}

var datasets = []Dataset{
	{
		ID:          "1",
		Slug:        LiveSlug,
		Title:       "DSEX Historical Stock Prices",
		Description: "Daily historical stock prices for all companies listed on the Dhaka Stock Exchange (DSEX). Includes open, high, low, close, and volume data.",
		Price:       49,
		UpdatedAt:   "Live",
		Source:      "Dhaka Stock Exchange",
		Tags:        []string{"Finance", "Stock Market", "Bangladesh"},
		Fields:      []string{"trading_code", "sector", "date", "openp", "high", "low", "closep", "volume"},
	},
	{
		ID:          "2",
		Slug:        "bd-remittance-monthly",
		Title:       "Bangladesh Monthly Remittance Inflows",
		Description: "Monthly wage earners' remittance inflows by country of origin, compiled from central bank bulletins.",
		Price:       19,
		UpdatedAt:   "2024-11-30",
		Source:      "Bangladesh Bank",
		Tags:        []string{"Finance", "Remittance", "Bangladesh"},
		Fields:      []string{"month", "country", "amount_usd_mn"},
		Preview: []map[string]any{
			{"month": "2024-11", "country": "Saudi Arabia", "amount_usd_mn": 454.2},
			{"month": "2024-11", "country": "UAE", "amount_usd_mn": 388.7},
			{"month": "2024-11", "country": "USA", "amount_usd_mn": 310.1},
		},
	},
}

// All returns the catalog listing
func All() []Summary {
	out := make([]Summary, len(datasets))
	for i, d := range datasets {
		out[i] = Summary{
			ID:          d.ID,
			Slug:        d.Slug,
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
			UpdatedAt:   d.UpdatedAt,
			Source:      d.Source,
			Tags:        d.Tags,
		}
	}
	return out
}

// Find looks up a catalog entry by slug
func Find(slug string) (Dataset, bool) {
	for _, d := range datasets {
		if d.Slug == slug {
			return d, true
		}
	}
	return Dataset{}, false
}

// IsLive reports whether a slug routes to the live data source
func IsLive(slug string) bool {
	return slug == LiveSlug || (slug != "" && strings.Contains(slug, "dsex"))
}
