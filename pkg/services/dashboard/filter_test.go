package dashboard

import (
	"slices"
	"testing"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Scenarios(t *testing.T) {
	ds := twoRowDataset()

	t.Run("all rows selected", func(t *testing.T) {
		view := Evaluate(ds, scenarioSpec())
		assert.Equal(t, 2, view.Len())
		assert.Empty(t, view.EmptySelections)
	})

	t.Run("male only", func(t *testing.T) {
		spec := scenarioSpec()
		spec.Genders = []string{"Male"}

		view := Evaluate(ds, spec)
		require.Equal(t, 1, view.Len())
		assert.Equal(t, "Boots", view.Rows[0].Item)
	})

	t.Run("empty category set", func(t *testing.T) {
		spec := scenarioSpec()
		spec.Categories = []string{}

		first := Evaluate(ds, spec)
		second := Evaluate(ds, spec)

		assert.Equal(t, 0, first.Len())
		assert.Equal(t, []string{"category"}, first.EmptySelections)
		assert.Equal(t, first, second)
	})

	t.Run("nil item set matches nothing", func(t *testing.T) {
		spec := scenarioSpec()
		spec.Items = nil

		view := Evaluate(ds, spec)
		assert.Equal(t, 0, view.Len())
		assert.Equal(t, []string{"item"}, view.EmptySelections)
	})
}

func TestEvaluate_RangeBoundsAreInclusive(t *testing.T) {
	ds := twoRowDataset()
	spec := scenarioSpec()
	spec.Age = domain.IntRange{Min: 25, Max: 25}
	spec.Amount = domain.DecimalRange{Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(50)}

	view := Evaluate(ds, spec)
	require.Equal(t, 1, view.Len())
	assert.Equal(t, 25, view.Rows[0].Age)
}

func TestEvaluate_ConjunctionAndSubset(t *testing.T) {
	ds := wideDataset()
	specs := []domain.FilterSpec{
		DefaultFilterSpec(ds),
		{
			Age:        domain.IntRange{Min: 18, Max: 50},
			Amount:     domain.DecimalRange{Min: decimal.NewFromInt(30), Max: decimal.NewFromInt(90)},
			Genders:    []string{"Male"},
			Categories: []string{"Clothing", "Footwear"},
			Items:      ds.Items(),
		},
		{
			Age:        domain.IntRange{Min: 40, Max: 70},
			Amount:     ds.AmountBounds(),
			Genders:    ds.Genders(),
			Categories: ds.Categories(),
			Items:      []string{"Belt", "Jacket", "Blouse"},
		},
	}

	for _, spec := range specs {
		view := Evaluate(ds, spec)

		last := -1
		for _, r := range view.Rows {
			assert.True(t, spec.Age.Contains(r.Age))
			assert.True(t, spec.Amount.Contains(r.Amount))
			assert.Contains(t, spec.Genders, r.Gender)
			assert.Contains(t, spec.Categories, r.Category)
			assert.Contains(t, spec.Items, r.Item)

			idx := slices.IndexFunc(ds.Rows(), func(p domain.Purchase) bool {
				return p.Age == r.Age && p.Item == r.Item && p.Amount.Equal(r.Amount)
			})
			require.GreaterOrEqual(t, idx, 0, "row must come from the dataset")
			assert.Greater(t, idx, last, "dataset order must be preserved")
			last = idx
		}

		assert.Equal(t, view, Evaluate(ds, spec))
	}
}

func TestDefaultFilterSpec_SelectsEverything(t *testing.T) {
	ds := wideDataset()

	spec := DefaultFilterSpec(ds)

	assert.Equal(t, domain.IntRange{Min: 19, Max: 63}, spec.Age)
	assert.True(t, spec.Amount.Min.Equal(decimal.NewFromInt(20)))
	assert.True(t, spec.Amount.Max.Equal(decimal.NewFromInt(97)))
	assert.Equal(t, []string{"Male", "Female"}, spec.Genders)
	assert.Equal(t, []string{"Clothing", "Footwear", "Accessories", "Outerwear"}, spec.Categories)
	assert.Equal(t, ds.Len(), Evaluate(ds, spec).Len())
}

func TestOptions(t *testing.T) {
	opts := Options(wideDataset())

	assert.Equal(t, []string{"Winter", "Spring", "Summer", "Fall"}, opts.Seasons)
	assert.Equal(t, []string{"Blouse", "Sweater", "Jeans", "Sandals", "Sneakers", "Belt", "Coat", "Jacket"}, opts.Items)
}
