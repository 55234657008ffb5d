package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

const defaultRecentVisits = 20

type visitRepository interface {
	CreateWithBadge(ctx context.Context, visit *models.Visit, badge func(id int64) string) error
	Checkout(ctx context.Context, id int64, at time.Time) (bool, error)
	FindIDByBadge(ctx context.Context, badgeCode string) (int64, error)
	GetDetail(ctx context.Context, id int64) (*models.VisitDetail, error)
	ListActive(ctx context.Context, limit int) ([]models.VisitDetail, error)
	ListRecent(ctx context.Context, limit int) ([]models.VisitDetail, error)
}

type topicRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Topic, error)
}

type citizenDirectory interface {
	Validate(input models.CitizenInput) error
	Upsert(ctx context.Context, input models.CitizenInput) (*models.Citizen, error)
}

type caseRegistry interface {
	ResolveOrOpen(ctx context.Context, citizenID, topicID int64, justification string, meta models.ActionMeta) (*models.VisitCase, error)
}

// CheckInInput is the visit-level part of an intake.
type CheckInInput struct {
	TargetUnit string
	Reason     string
	PhotoPath  string
}

// VisitService runs the intake flow and records check-ins and check-outs.
type VisitService struct {
	visits    visitRepository
	topics    topicRepository
	citizens  citizenDirectory
	cases     caseRegistry
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewVisitService constructs the visit ledger. Badge years follow loc.
func NewVisitService(visits visitRepository, topics topicRepository, citizens citizenDirectory, cases caseRegistry, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *VisitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &VisitService{
		visits:    visits,
		topics:    topics,
		citizens:  citizens,
		cases:     cases,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		location:  loc,
		now:       time.Now,
	}
}

// Register validates the whole intake first, then upserts the citizen,
// resolves the case and records the check-in.
func (s *VisitService) Register(ctx context.Context, req models.VisitRequest, meta models.ActionMeta) (*models.VisitDetail, error) {
	req.TargetUnit = strings.TrimSpace(req.TargetUnit)
	req.Reason = strings.TrimSpace(req.Reason)
	req.PhotoPath = strings.TrimSpace(req.PhotoPath)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit payload")
	}
	if err := s.citizens.Validate(req.Citizen); err != nil {
		return nil, err
	}

	topic, err := s.topics.FindByID(ctx, req.TopicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "topic does not exist or is inactive")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load topic")
	}
	if !topic.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "topic does not exist or is inactive")
	}

	citizen, err := s.citizens.Upsert(ctx, req.Citizen)
	if err != nil {
		return nil, err
	}

	vc, err := s.cases.ResolveOrOpen(ctx, citizen.ID, topic.ID, req.ReopenJustification, meta)
	if err != nil {
		return nil, err
	}

	visit, err := s.CheckIn(ctx, vc, CheckInInput{TargetUnit: req.TargetUnit, Reason: req.Reason, PhotoPath: req.PhotoPath}, meta)
	if err != nil {
		return nil, err
	}

	detail, err := s.visits.GetDetail(ctx, visit.ID)
	if err != nil {
		s.logger.Warn("failed to reload visit after check-in", zap.Int64("visit_id", visit.ID), zap.Error(err))
		return &models.VisitDetail{Visit: *visit, Case: *vc, Citizen: *citizen, Topic: *topic}, nil
	}
	return detail, nil
}

// CheckIn records a visit under the case and assigns its badge code.
func (s *VisitService) CheckIn(ctx context.Context, vc *models.VisitCase, in CheckInInput, meta models.ActionMeta) (*models.Visit, error) {
	visit := &models.Visit{
		CaseID:       vc.ID,
		CheckinAt:    s.now().UTC(),
		IntakeUserID: meta.ActorID,
		TargetUnit:   in.TargetUnit,
		Reason:       in.Reason,
		PhotoPath:    in.PhotoPath,
	}
	year := visit.CheckinAt.In(s.location).Year()
	if err := s.visits.CreateWithBadge(ctx, visit, func(id int64) string {
		return models.BadgeCode(year, id)
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record visit")
	}

	s.metrics.RecordVisitEvent(VisitEventCheckin)
	s.audit.Record(ctx, AuditEvent{
		ActorID:  meta.ActorID,
		Action:   models.AuditActionVisitCheckin,
		Entity:   models.AuditEntityVisit,
		EntityID: strconv.FormatInt(visit.ID, 10),
		Payload:  map[string]interface{}{"badge_code": visit.Badge(), "case_code": vc.Code, "target_unit": visit.TargetUnit},
		IP:       meta.IP,
	})
	return visit, nil
}

// CheckOut closes the visit exactly once. A missing visit yields NOT_FOUND
// and a finished one ALREADY_CHECKED_OUT; neither mutates anything.
func (s *VisitService) CheckOut(ctx context.Context, id int64, meta models.ActionMeta) (*models.VisitDetail, error) {
	at := s.now().UTC()
	updated, err := s.visits.Checkout(ctx, id, at)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check out visit")
	}
	if !updated {
		if _, err := s.visits.GetDetail(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "visit not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visit")
		}
		return nil, appErrors.Clone(appErrors.ErrAlreadyCheckedOut, "visit already checked out")
	}

	s.metrics.RecordVisitEvent(VisitEventCheckout)
	s.audit.Record(ctx, AuditEvent{
		ActorID:  meta.ActorID,
		Action:   models.AuditActionVisitCheckout,
		Entity:   models.AuditEntityVisit,
		EntityID: strconv.FormatInt(id, 10),
		Payload:  map[string]interface{}{"checkout_at": at.Format(time.RFC3339)},
		IP:       meta.IP,
	})

	detail, err := s.visits.GetDetail(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visit")
	}
	return detail, nil
}

// CheckOutByBadge resolves the badge code and checks the visit out.
func (s *VisitService) CheckOutByBadge(ctx context.Context, badgeCode string, meta models.ActionMeta) (*models.VisitDetail, error) {
	badgeCode = strings.TrimSpace(badgeCode)
	if badgeCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "badge_code is required")
	}
	id, err := s.visits.FindIDByBadge(ctx, badgeCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "visit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve badge")
	}
	return s.CheckOut(ctx, id, meta)
}

// Get returns a visit with its case, citizen and topic.
func (s *VisitService) Get(ctx context.Context, id int64) (*models.VisitDetail, error) {
	detail, err := s.visits.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "visit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load visit")
	}
	return detail, nil
}

// Active lists visits still inside the building.
func (s *VisitService) Active(ctx context.Context, limit int) ([]models.VisitDetail, error) {
	visits, err := s.visits.ListActive(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active visits")
	}
	if visits == nil {
		visits = []models.VisitDetail{}
	}
	return visits, nil
}

// Recent lists the latest check-ins.
func (s *VisitService) Recent(ctx context.Context, limit int) ([]models.VisitDetail, error) {
	if limit <= 0 {
		limit = defaultRecentVisits
	}
	visits, err := s.visits.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent visits")
	}
	if visits == nil {
		visits = []models.VisitDetail{}
	}
	return visits, nil
}
