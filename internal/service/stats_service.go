package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type visitStatsRepository interface {
	CountActive(ctx context.Context) (int, error)
	CountCheckinsBetween(ctx context.Context, from, to time.Time) (int, error)
	CountCheckoutsBetween(ctx context.Context, from, to time.Time) (int, error)
	AverageMinutesBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// StatsService computes the front-desk dashboard counters.
type StatsService struct {
	repo     visitStatsRepository
	location *time.Location
	now      func() time.Time
}

// NewStatsService constructs a StatsService. Days are cut in loc.
func NewStatsService(repo visitStatsRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{repo: repo, location: loc, now: time.Now}
}

// Today returns active visits plus today's check-ins, check-outs and average
// stay of visits completed today.
func (s *StatsService) Today(ctx context.Context) (*models.VisitStats, error) {
	start, end := dayWindow(s.now(), s.location)
	stats := &models.VisitStats{DayStart: start, DayEnd: end}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountActive(ctx)
		stats.Active = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountCheckinsBetween(ctx, start, end)
		stats.CheckinsToday = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountCheckoutsBetween(ctx, start, end)
		stats.CheckoutsToday = n
		return err
	})
	g.Go(func() error {
		avg, err := s.repo.AverageMinutesBetween(ctx, start, end)
		stats.AverageMinutesToday = avg
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute visit stats")
	}
	return stats, nil
}

// dayWindow returns [midnight, next midnight) of the day containing t in loc.
func dayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
