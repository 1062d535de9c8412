package api

import "github.com/shopspring/decimal"

// FilterRequest carries user filter input. Absent bounds and null lists mean
// "everything"; an empty list selects nothing.
type FilterRequest struct {
	AgeMin     *int             `json:"age_min,omitempty"`
	AgeMax     *int             `json:"age_max,omitempty"`
	AmountMin  *decimal.Decimal `json:"amount_min,omitempty"`
	AmountMax  *decimal.Decimal `json:"amount_max,omitempty"`
	Genders    []string         `json:"genders"`
	Categories []string         `json:"categories"`
	Items      []string         `json:"items"`
}

type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type DecimalRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type FilterSpec struct {
	Age        IntRange     `json:"age"`
	Amount     DecimalRange `json:"amount"`
	Genders    []string     `json:"genders"`
	Categories []string     `json:"categories"`
	Items      []string     `json:"items"`
}

type FilterOptions struct {
	Age        IntRange     `json:"age"`
	Amount     DecimalRange `json:"amount"`
	Genders    []string     `json:"genders"`
	Categories []string     `json:"categories"`
	Items      []string     `json:"items"`
	Seasons    []string     `json:"seasons"`
}

type Purchase struct {
	CustomerID string            `json:"customer_id,omitempty"`
	Age        int               `json:"age"`
	Gender     string            `json:"gender"`
	Category   string            `json:"category"`
	Item       string            `json:"item"`
	Amount     decimal.Decimal   `json:"amount"`
	Season     string            `json:"season"`
	Extra      map[string]string `json:"extra,omitempty"`
}

type Count struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Display string  `json:"display"`
}

// Mean has a nil Value when the group had no rows.
type Mean struct {
	Value *decimal.Decimal `json:"value"`
	Count int              `json:"count"`
}

type SeasonMean struct {
	Season string `json:"season"`
	Mean   Mean   `json:"mean"`
}

type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type GenderComparison struct {
	Male   Mean `json:"male"`
	Female Mean `json:"female"`
}

type Aggregates struct {
	Total          int              `json:"total"`
	CategoryCounts []Count          `json:"category_counts"`
	SeasonMeans    []SeasonMean     `json:"season_means"`
	AgeHistogram   []HistogramBin   `json:"age_histogram"`
	ItemShares     []Count          `json:"item_shares"`
	GenderShares   []Count          `json:"gender_shares"`
	GenderMeans    GenderComparison `json:"gender_means"`
}

type ChartRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`
}

type TextOutput struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Dashboard struct {
	Filters         FilterSpec     `json:"filters"`
	RowCount        int            `json:"row_count"`
	EmptySelections []string       `json:"empty_selections"`
	Aggregates      Aggregates     `json:"aggregates"`
	Charts          []ChartRequest `json:"charts"`
	Texts           []TextOutput   `json:"texts"`
}

type RowsPage struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Rows   []Purchase `json:"rows"`
}
