// Package jobs contains the background worker that pre-builds the
// nightly stock report so the download page can serve it instantly.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockfront/stockfront/internal/backend"
	jobmetrics "github.com/stockfront/stockfront/internal/jobs"
	"github.com/stockfront/stockfront/internal/report"
	"github.com/stockfront/stockfront/internal/shared"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportSnapshot rebuilds the cached stock report PDF.
	TaskReportSnapshot = "report:snapshot"
)

// ReportSnapshotPayload parameterises a snapshot build. Empty filters
// mean the full report across all warehouses and categories.
type ReportSnapshotPayload struct {
	WarehouseIDs []int64 `json:"warehouseIds,omitempty"`
	CategoryIDs  []int64 `json:"categoryIds,omitempty"`
}

// NewReportSnapshotTask constructs an Asynq task.
func NewReportSnapshotTask(payload ReportSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportSnapshot, data), nil
}

// SnapshotBuilder signs in with the service account, requests the stock
// report from the backend and stores the PDF for the download page.
type SnapshotBuilder struct {
	logger   *slog.Logger
	api      *backend.Client
	store    *report.SnapshotStore
	metrics  *jobmetrics.Metrics
	username string
	password string
}

// NewSnapshotBuilder constructs a SnapshotBuilder.
func NewSnapshotBuilder(logger *slog.Logger, api *backend.Client, store *report.SnapshotStore, username, password string) *SnapshotBuilder {
	return &SnapshotBuilder{
		logger:   logger,
		api:      api,
		store:    store,
		metrics:  jobmetrics.NewMetrics(nil),
		username: username,
		password: password,
	}
}

// Handle processes TaskReportSnapshot tasks.
func (b *SnapshotBuilder) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := b.metrics.Track(TaskReportSnapshot)
	var payload ReportSnapshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}

	token, err := b.api.Login(ctx, b.username, b.password)
	if err != nil {
		b.logger.Error("snapshot login failed", slog.Any("error", err))
		return tracker.End(err)
	}
	ctx = shared.ContextWithToken(ctx, token)

	pdf, err := b.api.StockReport(ctx, backend.StockReportRequest{
		WarehouseIDs: payload.WarehouseIDs,
		CategoryIDs:  payload.CategoryIDs,
	})
	if err != nil {
		b.logger.Error("snapshot build failed", slog.Any("error", err))
		return tracker.End(err)
	}

	builtAt := time.Now()
	if err := b.store.Save(ctx, pdf, builtAt); err != nil {
		b.logger.Error("snapshot store failed", slog.Any("error", err))
		return tracker.End(err)
	}
	b.logger.Info("stock report snapshot stored",
		slog.Int("bytes", len(pdf)),
		slog.Time("built_at", builtAt))
	return tracker.End(nil)
}
