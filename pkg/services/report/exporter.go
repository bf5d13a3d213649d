package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dev-metrics/sprint-pulse/pkg/models/domain"
	"github.com/dev-metrics/sprint-pulse/pkg/services/insight"
	"github.com/dev-metrics/sprint-pulse/pkg/services/metrics"
	"github.com/dev-metrics/sprint-pulse/pkg/services/series"
	"github.com/rs/zerolog"
)

// ErrEmptyDataset is returned before any rendering happens when the scoped
// performance batch holds no records.
var ErrEmptyDataset = errors.New("no performance data available to export")

// ExportData is the scoped input of one report generation. Records are the
// already filtered batch; Tasks and Assignments are the raw collections the
// metrics were derived from; Sprints arrive in chronological store order.
type ExportData struct {
	ProjectName     string
	Records         []domain.PerformanceRecord
	Tasks           []domain.Task
	Assignments     []domain.TaskAssignment
	Sprints         []domain.Sprint
	Developers      []domain.Developer
	Metrics         domain.Metrics
	SprintFilter    string
	DeveloperFilter string
}

// Artifact is the finished report, ready to be written out under Filename.
type Artifact struct {
	Filename string
	Content  []byte
	Pages    int
	Warnings []string
}

// Exporter assembles the paginated performance report. Each call owns its
// own page buffer and cursor; one Exporter may serve concurrent exports.
type Exporter struct {
	layout   Layout
	analyzer insight.Analyzer
	now      func() time.Time
}

func NewExporter(analyzer insight.Analyzer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		layout:   DefaultLayout(),
		analyzer: analyzer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type ExporterOption func(*Exporter)

func WithLayout(layout Layout) ExporterOption {
	return func(e *Exporter) { e.layout = layout }
}

// WithClock fixes the generation timestamp source.
func WithClock(now func() time.Time) ExporterOption {
	return func(e *Exporter) { e.now = now }
}

// ExportPerformanceReport validates the dataset, performs the single
// insight round trip and lays out the document. A failed insight call
// degrades to a static notice; a cancelled context aborts assembly with no
// partial artifact.
func (e *Exporter) ExportPerformanceReport(ctx context.Context, data ExportData) (*Artifact, error) {
	logger := zerolog.Ctx(ctx)

	if len(data.Records) == 0 {
		return nil, ErrEmptyDataset
	}

	analysis := domain.AnalysisResult{
		Success: false,
		Summary: insight.FallbackSummary(data.Metrics),
	}
	if e.analyzer != nil {
		analysis = e.analyzer.AnalyzePerformance(ctx, insight.Request{
			PerformanceData: data.Records,
			Sprints:         data.Sprints,
			Developers:      data.Developers,
			Metrics:         data.Metrics,
		})
	}
	if err := ctx.Err(); err != nil {
		// The in-flight analysis result, if any, is discarded.
		return nil, fmt.Errorf("report assembly aborted: %w", err)
	}

	generatedAt := e.now()
	b := newBuilder(e.layout)

	e.writeHeader(b, data, generatedAt)
	e.writeSummary(b, data)
	e.writeMetricsTable(b, data.Metrics)
	e.writePerDeveloperTable(b, data)
	e.writeSprintAnalysisTable(b, data)
	e.writeEfficiencyRanking(b, data)
	e.writeInsightSection(b, analysis)

	doc := b.finalize(fmt.Sprintf("sprint-pulse · generated %s", generatedAt.Format("2006-01-02 15:04")))
	for _, w := range doc.Warnings {
		logger.Warn().Str("warning", w).Msg("render overflow")
	}

	return &Artifact{
		Filename: Filename(data.SprintFilter, data.DeveloperFilter, generatedAt),
		Content:  doc.Bytes(),
		Pages:    doc.PageCount(),
		Warnings: doc.Warnings,
	}, nil
}

// Filename encodes report type, active filters and generation date.
func Filename(sprintFilter, developerFilter string, at time.Time) string {
	return fmt.Sprintf(
		"performance-report-%s-%s-%s.txt",
		slug(sprintFilter), slug(developerFilter), at.Format("2006-01-02"),
	)
}

func slug(s string) string {
	if s == "" {
		return "all"
	}
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "all"
	}
	return b.String()
}

func (e *Exporter) writeHeader(b *builder, data ExportData, generatedAt time.Time) {
	width := e.layout.PageWidth
	lines := []string{
		centered(width, "Developer Performance Report"),
		"",
		centered(width, fmt.Sprintf("Project: %s", data.ProjectName)),
		centered(width, fmt.Sprintf("Generated: %s", generatedAt.Format("January 2, 2006 15:04"))),
		centered(width, fmt.Sprintf("Filters: sprint=%s developer=%s",
			orAll(data.SprintFilter), orAll(data.DeveloperFilter))),
		"",
		strings.Repeat("=", width),
		"",
	}
	b.writeBlock(lines)
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func (e *Exporter) writeSummary(b *builder, data ExportData) {
	m := data.Metrics
	lines := []string{
		"Executive Summary",
		"",
		fmt.Sprintf("  Active developers:     %d (across %d sprints)", m.ActiveDevelopers, m.ActiveSprints),
		fmt.Sprintf("  Tasks completed:       %d of %d assigned", m.TotalTasksCompleted, m.TotalTasksAssigned),
		fmt.Sprintf("  Hours worked:          %.1fh", m.TotalHoursWorked),
		fmt.Sprintf("  Tasks with hours:      %d (%d over estimate)", m.TasksWithHoursLogged, m.TimeOverruns),
		"",
	}
	b.writeBlock(lines)
}

func (e *Exporter) writeMetricsTable(b *builder, m domain.Metrics) {
	b.writeBlock([]string{"Key Metrics", ""})
	sample := fmt.Sprintf("sample of %d tasks", m.SampleSize)
	if m.SampleSize == 0 {
		sample = "no data in scope"
	}
	t := Table{
		Columns: []Column{
			{Title: "Metric", Width: 28},
			{Title: "Value", Width: 14},
			{Title: "Note", Width: 42},
		},
		Rows: [][]string{
			{"Completion rate", fmt.Sprintf("%.1f%%", m.CompletionRate), sample},
			{"Productivity index", fmt.Sprintf("%.1f%%", m.ProductivityIndex), "estimated vs real hours"},
			{"Average hours per task", fmt.Sprintf("%.1fh", m.AverageHoursPerTask), "per completed task"},
			{"Time variance", fmt.Sprintf("%+.1f%%", m.TimeVariance), "real vs estimated"},
			{"On-time delivery", fmt.Sprintf("%.1f%%", m.OnTimeDeliveryRate), "tracks completion rate"},
			{"Total estimated hours", fmt.Sprintf("%.1fh", m.TotalEstimatedHours), ""},
			{"Total real hours", fmt.Sprintf("%.1fh", m.TotalRealHours), ""},
		},
	}
	b.writeTable(t)
	b.blank(1)
}

func (e *Exporter) writePerDeveloperTable(b *builder, data ExportData) {
	b.writeBlock([]string{"Performance by Developer and Sprint", ""})

	normalized := metrics.NormalizeEfficiency(metrics.FilterActive(data.Records))
	t := Table{
		Columns: []Column{
			{Title: "Developer", Width: 20},
			{Title: "Sprint", Width: 18},
			{Title: "Assigned", Width: 8},
			{Title: "Done", Width: 6},
			{Title: "Hours", Width: 8},
			{Title: "Eff %", Width: 8},
			{Title: "Norm %", Width: 8},
		},
	}
	for _, r := range normalized {
		t.Rows = append(t.Rows, []string{
			r.DeveloperName,
			r.SprintName,
			fmt.Sprintf("%d", r.TasksAssigned),
			fmt.Sprintf("%d", r.TasksCompleted),
			fmt.Sprintf("%.1f", r.HoursWorked),
			fmt.Sprintf("%.0f", r.Efficiency),
			fmt.Sprintf("%.0f", r.NormalizedEfficiency),
		})
	}
	b.writeTable(t)
	b.blank(1)
}

func (e *Exporter) writeSprintAnalysisTable(b *builder, data ExportData) {
	b.writeBlock([]string{"Sprint Analysis", ""})

	t := Table{
		Columns: []Column{
			{Title: "Sprint", Width: 18},
			{Title: "Period", Width: 24},
			{Title: "Assigned", Width: 8},
			{Title: "Done", Width: 6},
			{Title: "Rate", Width: 7},
			{Title: "Hours", Width: 9},
		},
	}
	for _, sprint := range data.Sprints {
		sprintID := sprint.ID
		m := metrics.Compute(data.Records, data.Tasks, data.Assignments, metrics.Filter{SprintID: &sprintID})
		t.Rows = append(t.Rows, []string{
			sprint.Name,
			fmt.Sprintf("%s - %s",
				sprint.StartDate.Format("2006-01-02"), sprint.EndDate.Format("2006-01-02")),
			fmt.Sprintf("%d", m.TotalTasksAssigned),
			fmt.Sprintf("%d", m.TotalTasksCompleted),
			fmt.Sprintf("%.0f%%", m.CompletionRate),
			fmt.Sprintf("%.1fh", m.TotalHoursWorked),
		})
	}
	b.writeTable(t)
	b.blank(1)
}

func (e *Exporter) writeEfficiencyRanking(b *builder, data ExportData) {
	b.writeBlock([]string{"Efficiency Ranking", ""})

	points := series.EfficiencyPerDeveloper(data.Records)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Normalized > points[j].Normalized
	})

	t := Table{
		Columns: []Column{
			{Title: "Rank", Width: 5},
			{Title: "Developer", Width: 24},
			{Title: "Normalized", Width: 10},
			{Title: "Original", Width: 10},
		},
	}
	for i, p := range points {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", i+1),
			p.Developer.Name,
			fmt.Sprintf("%.1f%%", p.Normalized),
			fmt.Sprintf("%.1f%%", p.Original),
		})
	}
	b.writeTable(t)
	b.blank(1)
}

func (e *Exporter) writeInsightSection(b *builder, analysis domain.AnalysisResult) {
	width := e.layout.PageWidth
	b.writeBlock([]string{"Team Analysis", ""})

	if !analysis.Success {
		notice := append(
			[]string{"  Insight analysis unavailable for this report."},
			indent(wrap(analysis.Summary, width-4), "  ")...,
		)
		b.writeBlock(notice)
		return
	}

	b.writeBlock(indent(wrap(analysis.Summary, width-4), "  "))
	b.blank(1)

	for _, in := range analysis.Insights {
		block := []string{
			fmt.Sprintf("  [%s/%s] %s", in.Category, in.Severity, in.Title),
		}
		block = append(block, indent(wrap(in.Description, width-6), "    ")...)
		if in.Recommendation != "" {
			block = append(block, indent(wrap("Recommendation: "+in.Recommendation, width-6), "    ")...)
		}
		block = append(block, "")
		b.writeBlock(block)
	}
}

func indent(lines []string, prefix string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = prefix + line
	}
	return out
}
