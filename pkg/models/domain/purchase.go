package domain

import (
	"github.com/shopspring/decimal"
)

// AmountScale is the most decimal places a purchase amount may have.
const AmountScale = 4

// Purchase is a single retail transaction row of the dataset.
type Purchase struct {
	CustomerID string
	Age        int
	Gender     string
	Category   string
	Item       string
	Amount     decimal.Decimal
	Season     string
	Extra      map[string]string
}

// Dataset is the immutable, ordered collection of purchases loaded at startup.
type Dataset struct {
	rows        []Purchase
	extraFields []string
}

func NewDataset(rows []Purchase, extraFields []string) Dataset {
	return Dataset{
		rows:        rows,
		extraFields: append([]string(nil), extraFields...),
	}
}

func (d Dataset) Len() int {
	return len(d.rows)
}

// Rows exposes the underlying rows. Callers must not modify them.
func (d Dataset) Rows() []Purchase {
	return d.rows
}

func (d Dataset) ExtraFields() []string {
	return d.extraFields
}

func (d Dataset) AgeBounds() IntRange {
	if len(d.rows) == 0 {
		return IntRange{}
	}
	bounds := IntRange{Min: d.rows[0].Age, Max: d.rows[0].Age}
	for _, r := range d.rows[1:] {
		bounds.Min = min(bounds.Min, r.Age)
		bounds.Max = max(bounds.Max, r.Age)
	}
	return bounds
}

func (d Dataset) AmountBounds() DecimalRange {
	if len(d.rows) == 0 {
		return DecimalRange{Min: decimal.Zero, Max: decimal.Zero}
	}
	bounds := DecimalRange{Min: d.rows[0].Amount, Max: d.rows[0].Amount}
	for _, r := range d.rows[1:] {
		bounds.Min = decimal.Min(bounds.Min, r.Amount)
		bounds.Max = decimal.Max(bounds.Max, r.Amount)
	}
	return bounds
}

func (d Dataset) Genders() []string {
	return d.distinct(func(p Purchase) string { return p.Gender })
}

func (d Dataset) Categories() []string {
	return d.distinct(func(p Purchase) string { return p.Category })
}

func (d Dataset) Items() []string {
	return d.distinct(func(p Purchase) string { return p.Item })
}

func (d Dataset) Seasons() []string {
	return d.distinct(func(p Purchase) string { return p.Season })
}

// distinct returns the unique values of a field in first-appearance order.
func (d Dataset) distinct(field func(Purchase) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range d.rows {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
