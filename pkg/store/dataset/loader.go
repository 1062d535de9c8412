package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingFile = errors.New("dataset not found")
	ErrMalformed   = errors.New("malformed dataset")
)

const (
	ColumnCustomerID = "Customer ID"
	ColumnAge        = "Age"
	ColumnGender     = "Gender"
	ColumnCategory   = "Category"
	ColumnItem       = "Item Purchased"
	ColumnAmount     = "Purchase Amount (USD)"
	ColumnSeason     = "Season"
)

var requiredColumns = []string{
	ColumnAge,
	ColumnGender,
	ColumnCategory,
	ColumnItem,
	ColumnAmount,
	ColumnSeason,
}

// Load reads the whole dataset from src. The result is meant to be built once
// at startup and shared read-only afterwards.
func Load(ctx context.Context, src Source) (domain.Dataset, error) {
	logger := zerolog.Ctx(ctx)

	rc, err := src.Open(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	defer rc.Close()

	ds, err := Parse(rc)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%s: %w", src, err)
	}

	logger.Info().
		Str("source", src.String()).
		Int("rows", ds.Len()).
		Strs("extra_fields", ds.ExtraFields()).
		Msg("dataset loaded")
	return ds, nil
}

// Parse reads purchase records from CSV. Columns other than the known ones are
// carried in Purchase.Extra.
func Parse(r io.Reader) (domain.Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			ColumnAge: series.Int,
		}),
	)
	if df.Err != nil {
		return domain.Dataset{}, fmt.Errorf("read csv: %v: %w", df.Err, ErrMalformed)
	}

	names := df.Names()
	for _, col := range requiredColumns {
		if !slices.Contains(names, col) {
			return domain.Dataset{}, fmt.Errorf("missing column %q: %w", col, ErrMalformed)
		}
	}

	ages, err := df.Col(ColumnAge).Int()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("column %q: %v: %w", ColumnAge, err, ErrMalformed)
	}

	amounts := df.Col(ColumnAmount).Records()
	genders := df.Col(ColumnGender).Records()
	categories := df.Col(ColumnCategory).Records()
	items := df.Col(ColumnItem).Records()
	seasons := df.Col(ColumnSeason).Records()

	var customerIDs []string
	if slices.Contains(names, ColumnCustomerID) {
		customerIDs = df.Col(ColumnCustomerID).Records()
	}

	extraFields := make([]string, 0)
	extraValues := make(map[string][]string)
	for _, name := range names {
		if name == ColumnCustomerID || slices.Contains(requiredColumns, name) {
			continue
		}
		extraFields = append(extraFields, name)
		extraValues[name] = df.Col(name).Records()
	}

	rows := make([]domain.Purchase, df.Nrow())
	for i := range rows {
		amount, err := decimal.NewFromString(strings.TrimSpace(amounts[i]))
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("row %d: column %q: %v: %w", i+1, ColumnAmount, err, ErrMalformed)
		}
		if !amount.Equal(amount.Truncate(domain.AmountScale)) {
			return domain.Dataset{}, fmt.Errorf("row %d: column %q: %s has more than %d decimal places: %w",
				i+1, ColumnAmount, amount, domain.AmountScale, ErrMalformed)
		}

		p := domain.Purchase{
			Age:      ages[i],
			Gender:   genders[i],
			Category: categories[i],
			Item:     items[i],
			Amount:   amount,
			Season:   seasons[i],
		}
		if customerIDs != nil {
			p.CustomerID = customerIDs[i]
		}
		if len(extraFields) > 0 {
			p.Extra = make(map[string]string, len(extraFields))
			for _, name := range extraFields {
				p.Extra[name] = extraValues[name][i]
			}
		}
		rows[i] = p
	}

	return domain.NewDataset(rows, extraFields), nil
}
