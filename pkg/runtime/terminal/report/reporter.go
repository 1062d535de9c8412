package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/shopping-atlas/pkg/models/domain"
)

type TableConfig struct {
	LabelWidth  int
	ValueWidth  int
	DetailWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth:  32,
		ValueWidth:  14,
		DetailWidth: 20,
	}
}

// Reporter prints a dashboard view model as plain-text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
Shopping trends: {{.View.Len}} purchases match
Age: {{.Spec.Age.Min}} to {{.Spec.Age.Max}}
Purchase amount (USD): {{.Spec.Amount.Min}} to {{.Spec.Amount.Max}}
Genders: {{join .Spec.Genders}}
Categories: {{join .Spec.Categories}}
Items: {{join .Spec.Items}}
{{if .View.EmptySelections}}
Nothing selected for: {{join .View.EmptySelections}}
{{end}}
=== Purchases by category ===
{{separator}}
{{formatRow "Category" "Count" "Share"}}
{{separator}}
{{range .Aggregates.ByCategory}}{{formatRow .Label .Count .Display}}
{{end}}{{separator}}

=== Average purchase amount by season ===
{{separator}}
{{formatRow "Season" "Mean (USD)" "Purchases"}}
{{separator}}
{{range .Aggregates.MeanBySeason}}{{formatRow .Season .Mean.String .Mean.Count}}
{{end}}{{separator}}

=== Customers by age ===
{{separator}}
{{formatRow "Age" "Customers" ""}}
{{separator}}
{{range .Aggregates.AgeHistogram}}{{formatRow (printf "%.1f - %.1f" .Lower .Upper) .Count ""}}
{{end}}{{separator}}

=== Purchases by item ===
{{separator}}
{{formatRow "Item" "Count" "Share"}}
{{separator}}
{{range .Aggregates.ByItem}}{{formatRow .Label .Count .Display}}
{{end}}{{separator}}

=== Purchases by gender ===
{{separator}}
{{formatRow "Gender" "Count" "Share"}}
{{separator}}
{{range .Aggregates.ByGender}}{{formatRow .Label .Count .Display}}
{{end}}{{separator}}

{{range .Texts}}{{.Label}}: {{.Value}}
{{end}}`

func (c *Reporter) Handle(vm *domain.ViewModel) error {
	funcMap := template.FuncMap{
		"formatRow": func(label string, value any, detail any) string {
			return fmt.Sprintf("| %-*s | %*v | %-*v |",
				c.config.LabelWidth, label,
				c.config.ValueWidth, value,
				c.config.DetailWidth, detail)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.DetailWidth+2))
		},
		"join": func(values []string) string {
			if len(values) == 0 {
				return "(none)"
			}
			return strings.Join(values, ", ")
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, vm)
}
