package dto

import (
	"time"

	"github.com/spec-kit/sheet-analytics/internal/domain"
)

// DatasetResponse is the wire view of one upload record.
type DatasetResponse struct {
	ID        string           `json:"id"`
	FileName  string           `json:"fileName"`
	RowCount  int              `json:"rowCount"`
	Columns   []string         `json:"columns"`
	ChartType domain.ChartType `json:"chartType"`
	XAxis     string           `json:"xAxis"`
	YAxis     string           `json:"yAxis"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewDatasetResponse maps a domain dataset.
func NewDatasetResponse(ds *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:        ds.ID,
		FileName:  ds.FileName,
		RowCount:  ds.RowCount,
		Columns:   ds.Columns,
		ChartType: ds.ChartType,
		XAxis:     ds.XAxis,
		YAxis:     ds.YAxis,
		CreatedAt: ds.CreatedAt,
	}
}

// NewDatasetResponses maps a list.
func NewDatasetResponses(datasets []*domain.Dataset) []DatasetResponse {
	out := make([]DatasetResponse, 0, len(datasets))
	for _, ds := range datasets {
		out = append(out, NewDatasetResponse(ds))
	}
	return out
}
