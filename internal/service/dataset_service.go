package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sheet-analytics/internal/cache"
	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/events"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	"github.com/spec-kit/sheet-analytics/internal/spreadsheet"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

const historyCacheTTL = 5 * time.Minute

// DatasetService ingests spreadsheet uploads and serves upload history.
type DatasetService struct {
	datasets   repository.DatasetRepository
	parser     *spreadsheet.Parser
	store      *cache.Cache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDatasetService builds the service.
func NewDatasetService(datasets repository.DatasetRepository, parser *spreadsheet.Parser, store *cache.Cache, dispatcher events.Dispatcher, logger *zap.Logger) *DatasetService {
	return &DatasetService{
		datasets:   datasets,
		parser:     parser,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// IngestInput describes one upload.
type IngestInput struct {
	UserID    string
	FileName  string
	ChartType string
	XAxis     string
	YAxis     string
	File      io.Reader
}

// Ingest parses the upload, persists its metadata and returns the parsed rows.
func (s *DatasetService) Ingest(ctx context.Context, in IngestInput) (*domain.Dataset, []domain.Row, error) {
	chartType, ok := domain.ParseChartType(in.ChartType)
	if !ok {
		return nil, nil, apperrors.NewValidationError("invalid chart type", map[string]any{"chart_type": in.ChartType})
	}

	result, err := s.parser.Parse(in.FileName, in.File)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat),
			errors.Is(err, spreadsheet.ErrEmptyWorkbook),
			errors.Is(err, spreadsheet.ErrTooManyRows):
			return nil, nil, apperrors.NewValidationError(err.Error(), nil)
		default:
			return nil, nil, apperrors.MapError(err)
		}
	}

	dataset := &domain.Dataset{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		FileName:  in.FileName,
		RowCount:  len(result.Rows),
		Columns:   result.Columns,
		ChartType: chartType,
		XAxis:     in.XAxis,
		YAxis:     in.YAxis,
	}
	if err := s.datasets.Create(ctx, dataset); err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDatasetIngested,
		UserID:    in.UserID,
		Timestamp: time.Now(),
		Payload: events.DatasetIngestedPayload{
			DatasetID: dataset.ID,
			FileName:  dataset.FileName,
			RowCount:  dataset.RowCount,
		},
	})

	return dataset, result.Rows, nil
}

// History lists the caller's datasets, newest first, through the cache.
func (s *DatasetService) History(ctx context.Context, userID string) ([]*domain.Dataset, error) {
	key := "history:" + userID

	var cached []*domain.Dataset
	if err := s.store.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("history cache read failed", zap.Error(err))
	}

	datasets, err := s.datasets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.store.Set(ctx, key, datasets, historyCacheTTL); err != nil {
		s.logger.Warn("history cache write failed", zap.Error(err))
	}
	return datasets, nil
}

// Get returns a single dataset, enforcing ownership. A foreign record is
// reported as not found rather than forbidden so ids are not probeable.
func (s *DatasetService) Get(ctx context.Context, userID, datasetID string) (*domain.Dataset, error) {
	dataset, err := s.datasets.GetByID(ctx, datasetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("dataset", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if dataset.UserID != userID {
		return nil, apperrors.NewNotFound("dataset", nil)
	}
	return dataset, nil
}

// Delete removes a dataset the caller owns.
func (s *DatasetService) Delete(ctx context.Context, userID, datasetID string) error {
	if _, err := s.Get(ctx, userID, datasetID); err != nil {
		return err
	}
	if err := s.datasets.Delete(ctx, datasetID); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDatasetDeleted,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   events.DatasetDeletedPayload{DatasetID: datasetID},
	})
	return nil
}

func (s *DatasetService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
