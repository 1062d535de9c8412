package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
	"github.com/de-tools/shopping-atlas/pkg/services/dashboard"
	chart "github.com/wcharczuk/go-chart/v2"
)

var ErrNoData = errors.New("no data to chart")

const (
	defaultHeight = 480
	minBarWidth   = 640
	barWidth      = 40
	barSpacing    = 20
	pieSize       = 640
)

// Render writes the named chart for agg to w as PNG.
func Render(w io.Writer, name domain.ChartName, agg domain.Aggregates) error {
	req, err := request(name)
	if err != nil {
		return err
	}

	switch name {
	case domain.ChartCategoryCounts:
		return renderBars(w, req, countValues(agg.ByCategory, func(c domain.Count) string { return c.Label }))
	case domain.ChartSeasonMean:
		values := make([]chart.Value, 0, len(agg.MeanBySeason))
		for _, s := range agg.MeanBySeason {
			if s.Mean.Valid {
				values = append(values, chart.Value{Label: s.Season, Value: s.Mean.Value.InexactFloat64()})
			}
		}
		return renderBars(w, req, values)
	case domain.ChartAgeHistogram:
		values := make([]chart.Value, 0, len(agg.AgeHistogram))
		for _, b := range agg.AgeHistogram {
			values = append(values, chart.Value{Label: fmt.Sprintf("%.0f", b.Lower), Value: float64(b.Count)})
		}
		return renderBars(w, req, values)
	case domain.ChartItemShare:
		return renderPie(w, req, countValues(agg.ByItem, func(c domain.Count) string {
			return fmt.Sprintf("%s %s", c.Label, c.Display())
		}))
	case domain.ChartGenderShare:
		return renderPie(w, req, countValues(agg.ByGender, func(c domain.Count) string {
			return fmt.Sprintf("%s %.1f%%", c.Label, c.Percent)
		}))
	case domain.ChartGenderMean:
		var values []chart.Value
		for _, g := range []struct {
			label string
			mean  domain.Mean
		}{
			{"Male", agg.MeanByGender.Male},
			{"Female", agg.MeanByGender.Female},
		} {
			if g.mean.Valid {
				values = append(values, chart.Value{Label: g.label, Value: g.mean.Value.InexactFloat64()})
			}
		}
		return renderBars(w, req, values)
	}
	return fmt.Errorf("%q: %w", name, domain.ErrUnknownChart)
}

func request(name domain.ChartName) (domain.ChartRequest, error) {
	for _, req := range dashboard.ChartRequests() {
		if req.Name == name {
			return req, nil
		}
	}
	return domain.ChartRequest{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownChart)
}

func countValues(counts []domain.Count, label func(domain.Count) string) []chart.Value {
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		values = append(values, chart.Value{Label: label(c), Value: float64(c.Count)})
	}
	return values
}

func renderBars(w io.Writer, req domain.ChartRequest, values []chart.Value) error {
	if len(values) == 0 {
		return ErrNoData
	}

	top := 0.0
	for _, v := range values {
		top = max(top, v.Value)
	}
	if top == 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      req.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      max(minBarWidth, len(values)*(barWidth+barSpacing)+160),
		Height:     defaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Name:  req.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: values,
	}
	return graph.Render(chart.PNG, w)
}

func renderPie(w io.Writer, req domain.ChartRequest, values []chart.Value) error {
	if len(values) == 0 {
		return ErrNoData
	}

	graph := chart.PieChart{
		Title:  req.Title,
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}
