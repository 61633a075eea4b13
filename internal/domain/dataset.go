package domain

import "time"

// ChartType enumerates the chart kinds the dashboard can render for a dataset.
type ChartType string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypePie     ChartType = "pie"
	ChartTypeScatter ChartType = "scatter"
)

// ParseChartType validates a raw chart type, defaulting to bar when empty.
func ParseChartType(raw string) (ChartType, bool) {
	switch ChartType(raw) {
	case "":
		return ChartTypeBar, true
	case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeScatter:
		return ChartType(raw), true
	}
	return "", false
}

// Dataset records one ingested spreadsheet upload.
type Dataset struct {
	ID        string
	UserID    string
	FileName  string
	RowCount  int
	Columns   []string
	ChartType ChartType
	XAxis     string
	YAxis     string
	CreatedAt time.Time
}

// Row is a single parsed spreadsheet row keyed by header cell.
type Row map[string]any
