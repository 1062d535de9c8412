package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("invalid range")

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int
	Max int
}

func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DecimalRange is an inclusive decimal interval.
type DecimalRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (r DecimalRange) Contains(v decimal.Decimal) bool {
	return v.GreaterThanOrEqual(r.Min) && v.LessThanOrEqual(r.Max)
}

// FilterSpec is a fully resolved set of inclusion predicates.
// A nil or empty membership list matches nothing.
type FilterSpec struct {
	Age        IntRange
	Amount     DecimalRange
	Genders    []string
	Categories []string
	Items      []string
}

func (f FilterSpec) Validate() error {
	if f.Age.Min > f.Age.Max {
		return fmt.Errorf("age %d..%d: %w", f.Age.Min, f.Age.Max, ErrInvalidRange)
	}
	if f.Amount.Min.GreaterThan(f.Amount.Max) {
		return fmt.Errorf("amount %s..%s: %w", f.Amount.Min, f.Amount.Max, ErrInvalidRange)
	}
	return nil
}

// EmptySelections names the membership predicates with no selected values.
func (f FilterSpec) EmptySelections() []string {
	var empty []string
	if len(f.Genders) == 0 {
		empty = append(empty, "gender")
	}
	if len(f.Categories) == 0 {
		empty = append(empty, "category")
	}
	if len(f.Items) == 0 {
		empty = append(empty, "item")
	}
	return empty
}

// FilterOptions describes the filter widgets: bounds and the selectable values.
type FilterOptions struct {
	Age        IntRange
	Amount     DecimalRange
	Genders    []string
	Categories []string
	Items      []string
	Seasons    []string
}
