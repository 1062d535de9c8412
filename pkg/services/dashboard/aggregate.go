package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

const DefaultHistogramBins = 20

const (
	genderMale   = "Male"
	genderFemale = "Female"
)

// GenderMatch selects how gender labels are compared for the two-group mean.
type GenderMatch string

const (
	// GenderMatchContains accepts compound labels such as "Male (self-described)".
	GenderMatchContains GenderMatch = "contains"
	GenderMatchExact    GenderMatch = "exact"
)

func ParseGenderMatch(s string) (GenderMatch, error) {
	switch m := GenderMatch(s); m {
	case GenderMatchContains, GenderMatchExact:
		return m, nil
	case "":
		return GenderMatchContains, nil
	}
	return "", fmt.Errorf("unsupported gender match mode %q", s)
}

func (m GenderMatch) matches(label, target string) bool {
	if m == GenderMatchExact {
		return label == target
	}
	return strings.Contains(label, target)
}

// Settings tune the aggregations that have parameters.
type Settings struct {
	HistogramBins int
	GenderMatch   GenderMatch
}

func DefaultSettings() Settings {
	return Settings{
		HistogramBins: DefaultHistogramBins,
		GenderMatch:   GenderMatchContains,
	}
}

// Aggregate computes every dashboard aggregation over view.
// seasons lists the seasons to report, normally all seasons of the dataset.
func Aggregate(view domain.FilteredView, seasons []string, settings Settings) domain.Aggregates {
	return domain.Aggregates{
		Total:        view.Len(),
		ByCategory:   CountByCategory(view),
		MeanBySeason: MeanAmountBySeason(view, seasons),
		AgeHistogram: AgeHistogram(view, settings.HistogramBins),
		ByItem:       CountByItem(view),
		ByGender:     CountByGender(view),
		MeanByGender: MeanAmountByGender(view, settings.GenderMatch),
	}
}

func CountByCategory(view domain.FilteredView) []domain.Count {
	return countBy(view, func(p domain.Purchase) string { return p.Category })
}

func CountByItem(view domain.FilteredView) []domain.Count {
	return countBy(view, func(p domain.Purchase) string { return p.Item })
}

func CountByGender(view domain.FilteredView) []domain.Count {
	return countBy(view, func(p domain.Purchase) string { return p.Gender })
}

// MeanAmountBySeason reports one mean per season; seasons without rows are not Valid.
func MeanAmountBySeason(view domain.FilteredView, seasons []string) []domain.SeasonMean {
	sums := make(map[string]decimal.Decimal, len(seasons))
	counts := make(map[string]int, len(seasons))
	for _, r := range view.Rows {
		sums[r.Season] = sums[r.Season].Add(r.Amount)
		counts[r.Season]++
	}

	result := make([]domain.SeasonMean, 0, len(seasons))
	for _, s := range seasons {
		result = append(result, domain.SeasonMean{
			Season: s,
			Mean:   NewMean(sums[s], counts[s]),
		})
	}
	return result
}

// MeanAmountByGender averages the purchase amount of the Male and Female subsets.
func MeanAmountByGender(view domain.FilteredView, match GenderMatch) domain.GenderComparison {
	var (
		maleSum, femaleSum     decimal.Decimal
		maleCount, femaleCount int
	)
	for _, r := range view.Rows {
		if match.matches(r.Gender, genderMale) {
			maleSum = maleSum.Add(r.Amount)
			maleCount++
		}
		if match.matches(r.Gender, genderFemale) {
			femaleSum = femaleSum.Add(r.Amount)
			femaleCount++
		}
	}
	return domain.GenderComparison{
		Male:   NewMean(maleSum, maleCount),
		Female: NewMean(femaleSum, femaleCount),
	}
}

// AgeHistogram splits the observed age range of view into bins of equal width.
func AgeHistogram(view domain.FilteredView, bins int) []domain.HistogramBin {
	ages := make([]float64, 0, view.Len())
	for _, r := range view.Rows {
		ages = append(ages, float64(r.Age))
	}
	return Histogram(ages, bins)
}

// Histogram counts values into bins equal-width bins spanning [min, max].
// The last bin includes max. A degenerate range is widened by 0.5 on each side.
func Histogram(values []float64, bins int) []domain.HistogramBin {
	if len(values) == 0 {
		return []domain.HistogramBin{}
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	result := make([]domain.HistogramBin, bins)
	for i := range result {
		result[i].Lower = lo + float64(i)*width
		result[i].Upper = lo + float64(i+1)*width
	}
	result[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}
	return result
}

// NewMean divides sum by count, leaving the mean undefined for an empty group.
func NewMean(sum decimal.Decimal, count int) domain.Mean {
	if count == 0 {
		return domain.Mean{}
	}
	return domain.Mean{
		Value: sum.Div(decimal.NewFromInt(int64(count))),
		Count: count,
		Valid: true,
	}
}

func countBy(view domain.FilteredView, key func(domain.Purchase) string) []domain.Count {
	counts := make(map[string]int)
	for _, r := range view.Rows {
		counts[key(r)]++
	}
	return NewCounts(counts, view.Len())
}

// NewCounts turns raw group sizes into counts with percentages, largest first.
func NewCounts(counts map[string]int, total int) []domain.Count {
	result := make([]domain.Count, 0, len(counts))
	for label, n := range counts {
		c := domain.Count{Label: label, Count: n}
		if total > 0 {
			c.Percent = float64(n) / float64(total) * 100
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}
