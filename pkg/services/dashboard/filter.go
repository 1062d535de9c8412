package dashboard

import (
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
)

// DefaultFilterSpec selects every row of the dataset: full ranges and full option sets.
func DefaultFilterSpec(ds domain.Dataset) domain.FilterSpec {
	return domain.FilterSpec{
		Age:        ds.AgeBounds(),
		Amount:     ds.AmountBounds(),
		Genders:    ds.Genders(),
		Categories: ds.Categories(),
		Items:      ds.Items(),
	}
}

// Options describes the filter widgets for a dataset.
func Options(ds domain.Dataset) domain.FilterOptions {
	return domain.FilterOptions{
		Age:        ds.AgeBounds(),
		Amount:     ds.AmountBounds(),
		Genders:    ds.Genders(),
		Categories: ds.Categories(),
		Items:      ds.Items(),
		Seasons:    ds.Seasons(),
	}
}

// Evaluate returns the rows of ds satisfying every predicate of spec, in dataset order.
// An empty membership set matches no row.
func Evaluate(ds domain.Dataset, spec domain.FilterSpec) domain.FilteredView {
	view := domain.FilteredView{
		Rows:            make([]domain.Purchase, 0),
		EmptySelections: spec.EmptySelections(),
	}
	if len(view.EmptySelections) > 0 {
		return view
	}

	genders := toSet(spec.Genders)
	categories := toSet(spec.Categories)
	items := toSet(spec.Items)

	for _, r := range ds.Rows() {
		if !spec.Age.Contains(r.Age) || !spec.Amount.Contains(r.Amount) {
			continue
		}
		if _, ok := genders[r.Gender]; !ok {
			continue
		}
		if _, ok := categories[r.Category]; !ok {
			continue
		}
		if _, ok := items[r.Item]; !ok {
			continue
		}
		view.Rows = append(view.Rows, r)
	}
	return view
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
