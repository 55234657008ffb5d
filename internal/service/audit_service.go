package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/jobs"
)

const auditJobType = "audit_log"

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, int, error)
}

// auditRecorder is what the ledger and registry services depend on.
type auditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

// AuditEvent describes one significant action. ActorID and IP may be empty.
type AuditEvent struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Payload  interface{}
	IP       string
}

// AuditService appends audit entries without ever failing the caller.
type AuditService struct {
	repo    auditRepository
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time

	mu    sync.RWMutex
	queue *jobs.Queue
}

// NewAuditService constructs an AuditService writing synchronously.
func NewAuditService(repo auditRepository, logger *zap.Logger, metrics *MetricsService) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger, metrics: metrics, now: time.Now}
}

// StartAsync routes subsequent writes through an in-process queue. Failed
// writes are never retried.
func (s *AuditService) StartAsync(ctx context.Context, bufferSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue != nil {
		return
	}
	queue := jobs.NewQueue("audit", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: bufferSize,
		MaxRetries: 0,
		Logger:     s.logger,
	})
	queue.Start(ctx)
	s.queue = queue
}

// Stop drains pending asynchronous writes.
func (s *AuditService) Stop() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	if queue != nil {
		queue.Stop()
	}
}

// Record stores the event. Marshal, storage and enqueue failures are logged
// and counted but never surface to the caller.
func (s *AuditService) Record(ctx context.Context, event AuditEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("audit record panicked", zap.Any("panic", r), zap.String("action", event.Action))
			s.metrics.RecordAuditFailure("panic")
		}
	}()

	entry, err := s.buildEntry(event)
	if err != nil {
		s.logger.Warn("failed to encode audit payload", zap.String("action", event.Action), zap.Error(err))
		s.metrics.RecordAuditFailure("marshal")
		return
	}

	s.mu.RLock()
	queue := s.queue
	s.mu.RUnlock()

	if queue != nil {
		job := jobs.Job{ID: fmt.Sprintf("%s:%s:%d", event.Action, event.EntityID, entry.TS.UnixNano()), Type: auditJobType, Payload: entry}
		err := queue.TryEnqueue(job)
		if err == nil {
			return
		}
		s.logger.Warn("audit queue unavailable, writing inline", zap.Error(err))
		ctx = context.WithoutCancel(ctx)
	}

	s.write(ctx, entry)
}

// List returns a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLog, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 25
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return logs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *AuditService) buildEntry(event AuditEvent) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		Action:   event.Action,
		Entity:   event.Entity,
		EntityID: event.EntityID,
		TS:       s.now().UTC(),
	}
	if event.ActorID != "" {
		actor := event.ActorID
		entry.ActorID = &actor
	}
	if event.IP != "" {
		ip := event.IP
		entry.IP = &ip
	}
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, err
		}
		entry.Payload = raw
	}
	return entry, nil
}

func (s *AuditService) write(ctx context.Context, entry *models.AuditLog) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("audit write panicked", zap.Any("panic", r), zap.String("action", entry.Action))
			s.metrics.RecordAuditFailure("panic")
		}
	}()
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.String("entity", entry.Entity), zap.Error(err))
		s.metrics.RecordAuditFailure("storage")
		return
	}
	s.metrics.RecordAudit()
}

func (s *AuditService) handleJob(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.AuditLog)
	if !ok {
		s.metrics.RecordAuditFailure("payload")
		return fmt.Errorf("unexpected audit job payload %T", job.Payload)
	}
	s.write(ctx, entry)
	return nil
}
