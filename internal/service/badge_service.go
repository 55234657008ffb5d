package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
	"github.com/noah-isme/sisvisitas-api/pkg/export"
)

type visitDetailGetter interface {
	Get(ctx context.Context, id int64) (*models.VisitDetail, error)
}

type photoReader interface {
	Read(relPath string) ([]byte, error)
}

// BadgeService renders the printable badge of a visit.
type BadgeService struct {
	visits   visitDetailGetter
	photos   photoReader
	renderer *export.BadgeRenderer
	metrics  *MetricsService
	logger   *zap.Logger
	location *time.Location
}

// NewBadgeService constructs a BadgeService.
func NewBadgeService(visits visitDetailGetter, photos photoReader, renderer *export.BadgeRenderer, metrics *MetricsService, logger *zap.Logger, loc *time.Location) *BadgeService {
	if renderer == nil {
		renderer = export.NewBadgeRenderer(export.BadgeOptions{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BadgeService{visits: visits, photos: photos, renderer: renderer, metrics: metrics, logger: logger, location: loc}
}

// Render loads the visit and draws its badge. Photo problems only cost the
// photo, never the badge.
func (s *BadgeService) Render(ctx context.Context, visitID int64) (*models.Document, error) {
	detail, err := s.visits.Get(ctx, visitID)
	if err != nil {
		return nil, err
	}

	data := export.BadgeData{
		VisitorName: detail.Citizen.Name,
		TopicLabel:  detail.Topic.Label(),
		TargetUnit:  detail.TargetUnit,
		BadgeCode:   detail.Badge(),
		CheckinAt:   detail.CheckinAt,
		Location:    s.location,
		Photo:       s.loadPhoto(detail.PhotoPath),
	}

	start := time.Now()
	body, err := s.renderer.Render(data)
	s.metrics.ObserveRender("badge", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render badge")
	}

	name := data.BadgeCode
	if name == "" {
		name = fmt.Sprintf("visita-%d", detail.ID)
	}
	return &models.Document{
		Filename:    fmt.Sprintf("gafete-%s.pdf", name),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func (s *BadgeService) loadPhoto(path string) []byte {
	if path == "" || s.photos == nil {
		return nil
	}
	data, err := s.photos.Read(path)
	if err != nil {
		s.logger.Warn("badge photo unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return data
}
