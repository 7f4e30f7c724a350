package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/domain/repositories"
)

// UsageUsecase appends per-request usage lines and aggregates them into
// analytics windows.
type UsageUsecase struct {
	usageRepo repositories.UsageRecordRepository

	now func() time.Time
}

// NewUsageUsecase creates a new usage usecase
func NewUsageUsecase(usageRepo repositories.UsageRecordRepository) *UsageUsecase {
	return &UsageUsecase{
		usageRepo: usageRepo,
		now:       time.Now,
	}
}

// Record appends one usage line. The record is immutable once written.
func (u *UsageUsecase) Record(ctx context.Context, record *entities.UsageRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = u.now()
	}
	if err := u.usageRepo.Create(ctx, record); err != nil {
		return domainerrors.Persistence(err)
	}
	return nil
}

// Aggregate computes the stats for one analytics window ending now,
// optionally narrowed to a single key. The delta compares against the window
// of the same length immediately before; both averages are nil when their
// window holds no records.
func (u *UsageUsecase) Aggregate(ctx context.Context, tenantID uuid.UUID, apiKeyID *uuid.UUID, period entities.UsagePeriod) (*entities.UsageStats, error) {
	length, ok := period.Duration()
	if !ok {
		return nil, domainerrors.Validation(fmt.Sprintf("unsupported period %q", period))
	}

	to := u.now()
	from := to.Add(-length)

	records, err := u.usageRepo.FindInWindow(ctx, tenantID, apiKeyID, from, to)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}

	stats := &entities.UsageStats{
		Period:        period,
		TotalRequests: int64(len(records)),
		ByEndpoint:    make(map[string]int64),
		ByMethod:      make(map[string]int64),
		ByStatusClass: make(map[string]int64),
		ByHour:        make(map[string]int64),
	}

	var totalMs int64
	for _, r := range records {
		stats.ByEndpoint[r.Endpoint]++
		stats.ByMethod[r.Method]++
		stats.ByStatusClass[statusClass(r.StatusCode)]++
		stats.ByHour[r.CreatedAt.UTC().Format("2006-01-02T15:00")]++
		totalMs += r.DurationMs
	}
	if len(records) > 0 {
		avg := float64(totalMs) / float64(len(records))
		stats.AvgResponseTimeMs = &avg
	}

	prevRecords, err := u.usageRepo.FindInWindow(ctx, tenantID, apiKeyID, from.Add(-length), from)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	if len(prevRecords) > 0 {
		var prevMs int64
		for _, r := range prevRecords {
			prevMs += r.DurationMs
		}
		prevAvg := float64(prevMs) / float64(len(prevRecords))
		stats.PrevAvgMs = &prevAvg
		if stats.AvgResponseTimeMs != nil {
			delta := *stats.AvgResponseTimeMs - prevAvg
			stats.DeltaAvgMs = &delta
		}
	}

	return stats, nil
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
