package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docstack.backend/internal/domain/entities"
	domainerrors "docstack.backend/internal/domain/errors"
	"docstack.backend/internal/domain/repositories"
	"docstack.backend/internal/infrastructure/metrics"
	"docstack.backend/pkg/logger"
)

// auditWriteTimeout bounds the detached audit append.
const auditWriteTimeout = 10 * time.Second

// AuditUsecase appends action log entries and serves the tenant-scoped
// audit view with actor enrichment.
type AuditUsecase struct {
	auditRepo repositories.AuditRepository
	userRepo  repositories.UserRepository

	now func() time.Time
}

// NewAuditUsecase creates a new audit usecase
func NewAuditUsecase(auditRepo repositories.AuditRepository, userRepo repositories.UserRepository) *AuditUsecase {
	return &AuditUsecase{
		auditRepo: auditRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// Record appends one audit line off the caller's path. The write detaches
// from ctx, which may already be finished by the time it runs; a write
// failure is logged, never propagated to the caller's request.
func (u *AuditUsecase) Record(_ context.Context, entry *entities.AuditEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = u.now()
	}
	go u.write(entry)
}

// write runs detached from the request; it gets its own context and never
// lets a panic escape the goroutine.
func (u *AuditUsecase) write(entry *entities.AuditEntry) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(context.Background(), "audit bookkeeping panic", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := u.auditRepo.Create(ctx, entry); err != nil {
		metrics.AuditWritesTotal.WithLabelValues("error").Inc()
		logger.Warn(ctx, "audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("tenant_id", entry.TenantID.String()),
			zap.Error(err),
		)
		return
	}
	metrics.AuditWritesTotal.WithLabelValues("ok").Inc()
}

// List retrieves the tenant's audit page plus the whole-match summary, and
// enriches each entry with the actor's name and email. Enrichment is
// best-effort: an unresolvable actor leaves the fields empty.
func (u *AuditUsecase) List(ctx context.Context, tenantID uuid.UUID, filters entities.AuditListFilters) ([]*entities.AuditEntry, *entities.AuditSummary, error) {
	entries, summary, err := u.auditRepo.List(ctx, tenantID, filters)
	if err != nil {
		return nil, nil, domainerrors.Persistence(err)
	}

	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool)
	for _, e := range entries {
		if !e.ActorUserID.Valid {
			continue
		}
		id, parseErr := uuid.Parse(e.ActorUserID.String)
		if parseErr != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		actors, lookupErr := u.userRepo.GetByIDs(ctx, ids)
		if lookupErr != nil {
			logger.Warn(ctx, "audit actor enrichment failed", zap.Error(lookupErr))
			return entries, summary, nil
		}
		for _, e := range entries {
			if !e.ActorUserID.Valid {
				continue
			}
			id, parseErr := uuid.Parse(e.ActorUserID.String)
			if parseErr != nil {
				continue
			}
			if actor, ok := actors[id]; ok {
				e.ActorName = actor.Name
				e.ActorEmail = actor.Email
			}
		}
	}

	return entries, summary, nil
}
