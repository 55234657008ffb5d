package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type caseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.VisitCase, error)
	FindByCitizenTopic(ctx context.Context, citizenID, topicID int64) (*models.VisitCase, error)
	Insert(ctx context.Context, vc *models.VisitCase) (bool, error)
	Reopen(ctx context.Context, id int64, justification string, at time.Time) (*models.VisitCase, error)
	Close(ctx context.Context, id int64, reason string, at time.Time) (*models.VisitCase, error)
}

// CaseService keeps exactly one persistent case per citizen and topic.
type CaseService struct {
	repo   caseRepository
	audit  auditRecorder
	logger *zap.Logger
	now    func() time.Time
}

// NewCaseService constructs the case registry.
func NewCaseService(repo caseRepository, audit auditRecorder, logger *zap.Logger) *CaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// ResolveOrOpen returns the case for (citizen, topic). A missing case is
// created OPEN, a CLOSED one is reopened with the justification, and an open
// one is returned unchanged.
func (s *CaseService) ResolveOrOpen(ctx context.Context, citizenID, topicID int64, justification string, meta models.ActionMeta) (*models.VisitCase, error) {
	justification = strings.TrimSpace(justification)

	vc, err := s.repo.FindByCitizenTopic(ctx, citizenID, topicID)
	if err == nil {
		return s.ensureOpen(ctx, vc, justification, meta)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
	}

	vc = &models.VisitCase{
		Code:      models.CaseCode(citizenID, topicID),
		CitizenID: citizenID,
		TopicID:   topicID,
		State:     models.CaseStateOpen,
		OpenedAt:  s.now().UTC(),
	}
	inserted, err := s.repo.Insert(ctx, vc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create case")
	}
	if inserted {
		s.audit.Record(ctx, AuditEvent{
			ActorID:  meta.ActorID,
			Action:   models.AuditActionCaseCreated,
			Entity:   models.AuditEntityCase,
			EntityID: strconv.FormatInt(vc.ID, 10),
			Payload:  map[string]interface{}{"code": vc.Code, "citizen_id": citizenID, "topic_id": topicID},
			IP:       meta.IP,
		})
		return vc, nil
	}

	s.logger.Debug("case insert lost race, re-fetching", zap.Int64("citizen_id", citizenID), zap.Int64("topic_id", topicID))
	existing, err := s.repo.FindByCitizenTopic(ctx, citizenID, topicID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCaseExists.Code, appErrors.ErrCaseExists.Status, "case already exists for citizen and topic")
	}
	return s.ensureOpen(ctx, existing, justification, meta)
}

// Close moves an open case to CLOSED.
func (s *CaseService) Close(ctx context.Context, caseID int64, reason string, meta models.ActionMeta) (*models.VisitCase, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reason is required")
	}

	vc, err := s.repo.Close(ctx, caseID, reason, s.now().UTC())
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close case")
		}
		if _, findErr := s.repo.FindByID(ctx, caseID); findErr != nil {
			if errors.Is(findErr, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "case not found")
			}
			return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "case already closed")
	}

	s.audit.Record(ctx, AuditEvent{
		ActorID:  meta.ActorID,
		Action:   models.AuditActionCaseClosed,
		Entity:   models.AuditEntityCase,
		EntityID: strconv.FormatInt(vc.ID, 10),
		Payload:  map[string]interface{}{"code": vc.Code, "reason": reason},
		IP:       meta.IP,
	})
	return vc, nil
}

func (s *CaseService) ensureOpen(ctx context.Context, vc *models.VisitCase, justification string, meta models.ActionMeta) (*models.VisitCase, error) {
	if vc.State != models.CaseStateClosed {
		return vc, nil
	}

	reopened, err := s.repo.Reopen(ctx, vc.ID, justification, s.now().UTC())
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reopen case")
		}
		// Reopened by another intake in the meantime.
		current, findErr := s.repo.FindByID(ctx, vc.ID)
		if findErr != nil {
			return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load case")
		}
		return current, nil
	}

	s.audit.Record(ctx, AuditEvent{
		ActorID:  meta.ActorID,
		Action:   models.AuditActionCaseReopened,
		Entity:   models.AuditEntityCase,
		EntityID: strconv.FormatInt(reopened.ID, 10),
		Payload:  map[string]interface{}{"code": reopened.Code, "justification": justification},
		IP:       meta.IP,
	})
	return reopened, nil
}
