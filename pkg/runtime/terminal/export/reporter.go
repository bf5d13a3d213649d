package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
)

type TableConfig struct {
	DeveloperWidth int
	SprintWidth    int
	NumberWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DeveloperWidth: 24,
		SprintWidth:    20,
		NumberWidth:    10,
	}
}

// Reporter prints a performance batch to the console in a fixed-width
// tabular form.
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

func (c *Reporter) Handle(batch []domain.PerformanceRecord) error {
	funcMap := template.FuncMap{
		"formatRow": func(developer, sprint string, assigned, completed any, hours, efficiency any) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %*v | %*v | %*v |",
				c.config.DeveloperWidth, developer,
				c.config.SprintWidth, sprint,
				c.config.NumberWidth, assigned,
				c.config.NumberWidth, completed,
				c.config.NumberWidth, hours,
				c.config.NumberWidth, efficiency)
		},
		"formatHours": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"formatPct": func(v float64) string {
			return fmt.Sprintf("%.0f%%", v)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.DeveloperWidth+2),
				strings.Repeat("-", c.config.SprintWidth+2),
				strings.Repeat("-", c.config.NumberWidth+2),
				strings.Repeat("-", c.config.NumberWidth+2),
				strings.Repeat("-", c.config.NumberWidth+2),
				strings.Repeat("-", c.config.NumberWidth+2))
		},
	}

	tmpl := `
Performance Records ({{len .}} entries)

{{separator}}
{{formatRow "Developer" "Sprint" "Assigned" "Completed" "Hours" "Efficiency"}}
{{separator}}
{{range .}}{{formatRow .DeveloperName .SprintName .TasksAssigned .TasksCompleted (formatHours .HoursWorked) (formatPct .Efficiency)}}
{{end}}{{separator}}
`

	t, err := template.New("records").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, batch)
}
