package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Engine evaluates a filter spec and the aggregations over its view.
type Engine interface {
	Query(ctx context.Context, spec domain.FilterSpec) (domain.FilteredView, domain.Aggregates, error)
}

// Render is the whole pipeline for one interaction: validate, filter, aggregate, describe.
func Render(ds domain.Dataset, spec domain.FilterSpec, settings Settings) (domain.ViewModel, error) {
	if err := spec.Validate(); err != nil {
		return domain.ViewModel{}, err
	}
	view := Evaluate(ds, spec)
	aggregates := Aggregate(view, ds.Seasons(), settings)
	return NewViewModel(spec, view, aggregates), nil
}

// NewViewModel attaches the fixed chart requests and text outputs to computed results.
func NewViewModel(spec domain.FilterSpec, view domain.FilteredView, aggregates domain.Aggregates) domain.ViewModel {
	return domain.ViewModel{
		Spec:       spec,
		View:       view,
		Aggregates: aggregates,
		Charts:     ChartRequests(),
		Texts: []domain.TextOutput{
			{Label: "Average purchase amount (Male)", Value: aggregates.MeanByGender.Male.String()},
			{Label: "Average purchase amount (Female)", Value: aggregates.MeanByGender.Female.String()},
		},
	}
}

func ChartRequests() []domain.ChartRequest {
	return []domain.ChartRequest{
		{
			Name:   domain.ChartCategoryCounts,
			Kind:   domain.ChartKindBar,
			Title:  "Purchases by category",
			XLabel: "Category",
			YLabel: "Purchases",
		},
		{
			Name:   domain.ChartSeasonMean,
			Kind:   domain.ChartKindBar,
			Title:  "Average purchase amount by season",
			XLabel: "Season",
			YLabel: "Average purchase amount (USD)",
		},
		{
			Name:   domain.ChartAgeHistogram,
			Kind:   domain.ChartKindHistogram,
			Title:  "Customers by age",
			XLabel: "Age",
			YLabel: "Customers",
		},
		{
			Name:  domain.ChartItemShare,
			Kind:  domain.ChartKindPie,
			Title: "Purchases by item",
		},
		{
			Name:  domain.ChartGenderShare,
			Kind:  domain.ChartKindPie,
			Title: "Purchases by gender",
		},
		{
			Name:   domain.ChartGenderMean,
			Kind:   domain.ChartKindBar,
			Title:  "Average purchase amount by gender",
			XLabel: "Gender",
			YLabel: "Average purchase amount (USD)",
		},
	}
}

// MemoryEngine evaluates queries over the in-process dataset.
type MemoryEngine struct {
	dataset  domain.Dataset
	seasons  []string
	settings Settings
}

func NewMemoryEngine(ds domain.Dataset, settings Settings) *MemoryEngine {
	return &MemoryEngine{
		dataset:  ds,
		seasons:  ds.Seasons(),
		settings: settings,
	}
}

func (e *MemoryEngine) Query(_ context.Context, spec domain.FilterSpec) (domain.FilteredView, domain.Aggregates, error) {
	view := Evaluate(e.dataset, spec)
	return view, Aggregate(view, e.seasons, e.settings), nil
}

// Renderer serves view models for a dataset through an Engine.
type Renderer struct {
	dataset domain.Dataset
	options domain.FilterOptions
	engine  Engine
}

func NewRenderer(ds domain.Dataset, engine Engine) *Renderer {
	return &Renderer{
		dataset: ds,
		options: Options(ds),
		engine:  engine,
	}
}

func (r *Renderer) Options() domain.FilterOptions {
	return r.options
}

func (r *Renderer) ExtraFields() []string {
	return r.dataset.ExtraFields()
}

func (r *Renderer) DefaultSpec() domain.FilterSpec {
	return DefaultFilterSpec(r.dataset)
}

func (r *Renderer) Render(ctx context.Context, spec domain.FilterSpec) (domain.ViewModel, error) {
	logger := zerolog.Ctx(ctx)
	if err := spec.Validate(); err != nil {
		return domain.ViewModel{}, err
	}

	start := time.Now()
	view, aggregates, err := r.engine.Query(ctx, spec)
	if err != nil {
		return domain.ViewModel{}, fmt.Errorf("query dashboard: %w", err)
	}

	logger.Debug().
		Int("rows", view.Len()).
		Int("dataset_rows", r.dataset.Len()).
		Strs("empty_selections", view.EmptySelections).
		Dur("elapsed", time.Since(start)).
		Msg("dashboard rendered")

	return NewViewModel(spec, view, aggregates), nil
}
