package adapters

import (
	"slices"

	"github.com/de-tools/shopping-atlas/pkg/models/api"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
)

// MapFilterRequestToDomain resolves omitted request fields against the dataset options.
func MapFilterRequestToDomain(req api.FilterRequest, opts domain.FilterOptions) domain.FilterSpec {
	spec := domain.FilterSpec{
		Age:        opts.Age,
		Amount:     opts.Amount,
		Genders:    membership(req.Genders, opts.Genders),
		Categories: membership(req.Categories, opts.Categories),
		Items:      membership(req.Items, opts.Items),
	}
	if req.AgeMin != nil {
		spec.Age.Min = *req.AgeMin
	}
	if req.AgeMax != nil {
		spec.Age.Max = *req.AgeMax
	}
	if req.AmountMin != nil {
		spec.Amount.Min = *req.AmountMin
	}
	if req.AmountMax != nil {
		spec.Amount.Max = *req.AmountMax
	}
	return spec
}

func membership(selected, all []string) []string {
	if selected == nil {
		return slices.Clone(all)
	}
	return slices.Clone(selected)
}

func MapFilterSpecDomainToApi(spec domain.FilterSpec) api.FilterSpec {
	return api.FilterSpec{
		Age:        api.IntRange{Min: spec.Age.Min, Max: spec.Age.Max},
		Amount:     api.DecimalRange{Min: spec.Amount.Min, Max: spec.Amount.Max},
		Genders:    nonNil(spec.Genders),
		Categories: nonNil(spec.Categories),
		Items:      nonNil(spec.Items),
	}
}

func MapFilterOptionsDomainToApi(opts domain.FilterOptions) api.FilterOptions {
	return api.FilterOptions{
		Age:        api.IntRange{Min: opts.Age.Min, Max: opts.Age.Max},
		Amount:     api.DecimalRange{Min: opts.Amount.Min, Max: opts.Amount.Max},
		Genders:    nonNil(opts.Genders),
		Categories: nonNil(opts.Categories),
		Items:      nonNil(opts.Items),
		Seasons:    nonNil(opts.Seasons),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
