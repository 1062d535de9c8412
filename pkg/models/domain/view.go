package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownChart = errors.New("unknown chart")

// FilteredView is the order-preserving subset of a dataset that passed a FilterSpec.
type FilteredView struct {
	Rows            []Purchase
	EmptySelections []string
}

func (v FilteredView) Len() int {
	return len(v.Rows)
}

// Mean is an arithmetic mean that may be undefined for an empty group.
type Mean struct {
	Value decimal.Decimal
	Count int
	Valid bool
}

func (m Mean) String() string {
	if !m.Valid {
		return "no data"
	}
	return m.Value.StringFixed(2)
}

// Count is a group size together with its share of the filtered rows.
type Count struct {
	Label   string
	Count   int
	Percent float64
}

// Display renders the count as "pct% (count)".
func (c Count) Display() string {
	return fmt.Sprintf("%.1f%% (%d)", c.Percent, c.Count)
}

type SeasonMean struct {
	Season string
	Mean   Mean
}

// HistogramBin covers [Lower, Upper); the last bin of a histogram is closed.
type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

type GenderComparison struct {
	Male   Mean
	Female Mean
}

type Aggregates struct {
	Total        int
	ByCategory   []Count
	MeanBySeason []SeasonMean
	AgeHistogram []HistogramBin
	ByItem       []Count
	ByGender     []Count
	MeanByGender GenderComparison
}

type ChartName string

const (
	ChartCategoryCounts ChartName = "category_counts"
	ChartSeasonMean     ChartName = "season_mean"
	ChartAgeHistogram   ChartName = "age_histogram"
	ChartItemShare      ChartName = "item_share"
	ChartGenderShare    ChartName = "gender_share"
	ChartGenderMean     ChartName = "gender_mean"
)

func ParseChartName(s string) (ChartName, error) {
	switch name := ChartName(s); name {
	case ChartCategoryCounts, ChartSeasonMean, ChartAgeHistogram,
		ChartItemShare, ChartGenderShare, ChartGenderMean:
		return name, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownChart)
}

type ChartKind string

const (
	ChartKindBar       ChartKind = "bar"
	ChartKindHistogram ChartKind = "histogram"
	ChartKindPie       ChartKind = "pie"
)

// ChartRequest tells the presentation layer which chart to draw and how to label it.
type ChartRequest struct {
	Name   ChartName
	Kind   ChartKind
	Title  string
	XLabel string
	YLabel string
}

// TextOutput is a scalar figure shown as text next to the charts.
type TextOutput struct {
	Label string
	Value string
}

// ViewModel is everything the presentation layer needs for one interaction.
type ViewModel struct {
	Spec       FilterSpec
	View       FilteredView
	Aggregates Aggregates
	Charts     []ChartRequest
	Texts      []TextOutput
}
