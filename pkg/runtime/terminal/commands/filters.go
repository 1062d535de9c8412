package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/adapters"
	"github.com/de-tools/shopping-atlas/pkg/models/api"
	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// FilterFlags are the filter widgets of the terminal front end. A flag that is
// not given selects everything; --gender "" selects no gender at all.
type FilterFlags struct {
	ageMin     int
	ageMax     int
	amountMin  string
	amountMax  string
	genders    []string
	categories []string
	items      []string
}

func (f *FilterFlags) Register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.ageMin, "age-min", 0, "Lowest customer age to include")
	cmd.Flags().IntVar(&f.ageMax, "age-max", 0, "Highest customer age to include")
	cmd.Flags().StringVar(&f.amountMin, "amount-min", "", "Lowest purchase amount (USD) to include")
	cmd.Flags().StringVar(&f.amountMax, "amount-max", "", "Highest purchase amount (USD) to include")
	cmd.Flags().StringArrayVar(&f.genders, "gender", nil, "Gender to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.categories, "category", nil, "Category to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "Item to include (repeatable)")
}

// Spec resolves the flags against the dataset options.
func (f *FilterFlags) Spec(cmd *cobra.Command, opts domain.FilterOptions) (domain.FilterSpec, error) {
	req, err := f.request(cmd)
	if err != nil {
		return domain.FilterSpec{}, err
	}
	return adapters.MapFilterRequestToDomain(req, opts), nil
}

func (f *FilterFlags) request(cmd *cobra.Command) (api.FilterRequest, error) {
	flags := cmd.Flags()

	var req api.FilterRequest
	if flags.Changed("age-min") {
		req.AgeMin = &f.ageMin
	}
	if flags.Changed("age-max") {
		req.AgeMax = &f.ageMax
	}
	if flags.Changed("amount-min") {
		v, err := decimal.NewFromString(f.amountMin)
		if err != nil {
			return api.FilterRequest{}, fmt.Errorf("invalid --amount-min %q: %w", f.amountMin, err)
		}
		req.AmountMin = &v
	}
	if flags.Changed("amount-max") {
		v, err := decimal.NewFromString(f.amountMax)
		if err != nil {
			return api.FilterRequest{}, fmt.Errorf("invalid --amount-max %q: %w", f.amountMax, err)
		}
		req.AmountMax = &v
	}
	if flags.Changed("gender") {
		req.Genders = nonEmpty(f.genders)
	}
	if flags.Changed("category") {
		req.Categories = nonEmpty(f.categories)
	}
	if flags.Changed("item") {
		req.Items = nonEmpty(f.items)
	}
	return req, nil
}

func nonEmpty(values []string) []string {
	selected := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	return selected
}
