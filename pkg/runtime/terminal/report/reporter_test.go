package report

import (
	"bytes"
	"testing"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/services/dashboard"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportDataset() domain.Dataset {
	return domain.NewDataset([]domain.Purchase{
		{Age: 25, Gender: "Male", Category: "Footwear", Item: "Boots", Amount: decimal.NewFromInt(50), Season: "Winter"},
		{Age: 30, Gender: "Female", Category: "Footwear", Item: "Sandals", Amount: decimal.NewFromInt(30), Season: "Summer"},
		{Age: 41, Gender: "Male", Category: "Outerwear", Item: "Boots", Amount: decimal.NewFromInt(80), Season: "Winter"},
	}, nil)
}

func TestReporter_Handle(t *testing.T) {
	ds := reportDataset()
	vm, err := dashboard.Render(ds, dashboard.DefaultFilterSpec(ds), dashboard.DefaultSettings())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(&vm))

	out := buf.String()
	assert.Contains(t, out, "Shopping trends: 3 purchases match")
	assert.Contains(t, out, "=== Purchases by category ===")
	assert.Contains(t, out, "66.7% (2)")
	assert.Contains(t, out, "Average purchase amount (Male): 65.00")
	assert.Contains(t, out, "Average purchase amount (Female): 30.00")
	assert.NotContains(t, out, "Nothing selected")
}

func TestReporter_Handle_EmptySelection(t *testing.T) {
	ds := reportDataset()
	spec := dashboard.DefaultFilterSpec(ds)
	spec.Items = nil

	vm, err := dashboard.Render(ds, spec, dashboard.DefaultSettings())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(&vm))

	out := buf.String()
	assert.Contains(t, out, "Shopping trends: 0 purchases match")
	assert.Contains(t, out, "Items: (none)")
	assert.Contains(t, out, "Nothing selected for: item")
	assert.Contains(t, out, "Average purchase amount (Male): no data")
}
