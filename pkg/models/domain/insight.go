package domain

type InsightCategory string

const (
	InsightCategoryPerformance InsightCategory = "performance"
	InsightCategoryEfficiency  InsightCategory = "efficiency"
	InsightCategoryWorkload    InsightCategory = "workload"
	InsightCategorySprint      InsightCategory = "sprint"
	InsightCategoryGeneral     InsightCategory = "general"
)

type InsightSeverity string

const (
	InsightSeverityLow    InsightSeverity = "low"
	InsightSeverityMedium InsightSeverity = "medium"
	InsightSeverityHigh   InsightSeverity = "high"
)

// Insight is one narrative finding produced by the external analysis
// collaborator.
type Insight struct {
	Category       InsightCategory
	Severity       InsightSeverity
	Title          string
	Description    string
	Recommendation string
	DataPoints     []string
}

// AnalysisResult is the gateway's answer. Success false carries a locally
// generated fallback summary and no insights; it is never a fatal condition
// for report assembly.
type AnalysisResult struct {
	Success  bool
	Insights []Insight
	Summary  string
	Err      string
}
