package adapters

import (
	"maps"

	"github.com/de-tools/shopping-atlas/pkg/models/api"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
)

func MapViewModelDomainToApi(vm domain.ViewModel) api.Dashboard {
	charts := make([]api.ChartRequest, 0, len(vm.Charts))
	for _, c := range vm.Charts {
		charts = append(charts, api.ChartRequest{
			Name:   string(c.Name),
			Kind:   string(c.Kind),
			Title:  c.Title,
			XLabel: c.XLabel,
			YLabel: c.YLabel,
		})
	}

	texts := make([]api.TextOutput, 0, len(vm.Texts))
	for _, t := range vm.Texts {
		texts = append(texts, api.TextOutput{Label: t.Label, Value: t.Value})
	}

	return api.Dashboard{
		Filters:         MapFilterSpecDomainToApi(vm.Spec),
		RowCount:        vm.View.Len(),
		EmptySelections: nonNil(vm.View.EmptySelections),
		Aggregates:      MapAggregatesDomainToApi(vm.Aggregates),
		Charts:          charts,
		Texts:           texts,
	}
}

func MapAggregatesDomainToApi(agg domain.Aggregates) api.Aggregates {
	seasons := make([]api.SeasonMean, 0, len(agg.MeanBySeason))
	for _, s := range agg.MeanBySeason {
		seasons = append(seasons, api.SeasonMean{Season: s.Season, Mean: MapMeanDomainToApi(s.Mean)})
	}

	bins := make([]api.HistogramBin, 0, len(agg.AgeHistogram))
	for _, b := range agg.AgeHistogram {
		bins = append(bins, api.HistogramBin{Lower: b.Lower, Upper: b.Upper, Count: b.Count})
	}

	return api.Aggregates{
		Total:          agg.Total,
		CategoryCounts: MapCountsDomainToApi(agg.ByCategory),
		SeasonMeans:    seasons,
		AgeHistogram:   bins,
		ItemShares:     MapCountsDomainToApi(agg.ByItem),
		GenderShares:   MapCountsDomainToApi(agg.ByGender),
		GenderMeans: api.GenderComparison{
			Male:   MapMeanDomainToApi(agg.MeanByGender.Male),
			Female: MapMeanDomainToApi(agg.MeanByGender.Female),
		},
	}
}

func MapCountsDomainToApi(counts []domain.Count) []api.Count {
	result := make([]api.Count, 0, len(counts))
	for _, c := range counts {
		result = append(result, api.Count{
			Label:   c.Label,
			Count:   c.Count,
			Percent: c.Percent,
			Display: c.Display(),
		})
	}
	return result
}

func MapMeanDomainToApi(m domain.Mean) api.Mean {
	if !m.Valid {
		return api.Mean{}
	}
	value := m.Value.Round(2)
	return api.Mean{Value: &value, Count: m.Count}
}

func MapPurchasesDomainToApi(rows []domain.Purchase) []api.Purchase {
	result := make([]api.Purchase, 0, len(rows))
	for _, r := range rows {
		result = append(result, api.Purchase{
			CustomerID: r.CustomerID,
			Age:        r.Age,
			Gender:     r.Gender,
			Category:   r.Category,
			Item:       r.Item,
			Amount:     r.Amount,
			Season:     r.Season,
			Extra:      maps.Clone(r.Extra),
		})
	}
	return result
}
