package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

const visitDetailSelect = `SELECT v.id, v.case_id, v.checkin_at, v.checkout_at, v.intake_user_id, v.target_unit, v.reason, v.photo_path, v.badge_code, v.created_at, v.updated_at,
vc.id AS "vcase.id", vc.code AS "vcase.code", vc.citizen_id AS "vcase.citizen_id", vc.topic_id AS "vcase.topic_id", vc.state AS "vcase.state",
vc.opened_at AS "vcase.opened_at", vc.closed_at AS "vcase.closed_at", vc.closed_reason AS "vcase.closed_reason", vc.last_reopen_reason AS "vcase.last_reopen_reason",
vc.created_at AS "vcase.created_at", vc.updated_at AS "vcase.updated_at",
ci.id AS "citizen.id", ci.national_id AS "citizen.national_id", ci.passport AS "citizen.passport", ci.name AS "citizen.name", ci.phone AS "citizen.phone",
ci.origin AS "citizen.origin", ci.created_at AS "citizen.created_at", ci.updated_at AS "citizen.updated_at",
t.id AS "topic.id", t.code AS "topic.code", t.name AS "topic.name", t.description AS "topic.description", t.unit AS "topic.unit",
t.is_active AS "topic.is_active", t.created_at AS "topic.created_at", t.updated_at AS "topic.updated_at"
FROM visits v
JOIN visit_cases vc ON vc.id = v.case_id
JOIN citizens ci ON ci.id = vc.citizen_id
JOIN topics t ON t.id = vc.topic_id`

// VisitRepository persists visits and answers front-desk queries.
type VisitRepository struct {
	db *sqlx.DB
}

// NewVisitRepository creates a new instance of VisitRepository.
func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// CreateWithBadge inserts the visit and, once it has an identity, assigns the
// badge code derived from it. Both writes share one transaction.
func (r *VisitRepository) CreateWithBadge(ctx context.Context, visit *models.Visit, badge func(id int64) string) (err error) {
	now := time.Now().UTC()
	if visit.CheckinAt.IsZero() {
		visit.CheckinAt = now
	}
	visit.CreatedAt = now
	visit.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin visit tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO visits (case_id, checkin_at, intake_user_id, target_unit, reason, photo_path, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insert,
		visit.CaseID, visit.CheckinAt, visit.IntakeUserID, visit.TargetUnit, visit.Reason, visit.PhotoPath, visit.CreatedAt, visit.UpdatedAt,
	).Scan(&visit.ID); err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}

	code := badge(visit.ID)
	const assign = `UPDATE visits SET badge_code = $2 WHERE id = $1 AND badge_code IS NULL`
	res, err := tx.ExecContext(ctx, assign, visit.ID, code)
	if err != nil {
		return fmt.Errorf("assign badge code: %w", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		err = fmt.Errorf("assign badge code: %d rows affected", n)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit visit tx: %w", err)
	}
	visit.BadgeCode = &code
	return nil
}

// Checkout sets checkout_at only when it is still NULL. It reports whether
// this call performed the transition.
func (r *VisitRepository) Checkout(ctx context.Context, id int64, at time.Time) (bool, error) {
	const query = `UPDATE visits SET checkout_at = $2, updated_at = $2 WHERE id = $1 AND checkout_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("checkout visit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checkout visit rows: %w", err)
	}
	return n == 1, nil
}

// FindIDByBadge resolves a badge code (case-insensitive) to its visit identity.
func (r *VisitRepository) FindIDByBadge(ctx context.Context, badgeCode string) (int64, error) {
	const query = `SELECT id FROM visits WHERE UPPER(badge_code) = UPPER($1) LIMIT 1`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, badgeCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("find visit by badge: %w", err)
	}
	return id, nil
}

// GetDetail returns a visit with its case, citizen and topic.
func (r *VisitRepository) GetDetail(ctx context.Context, id int64) (*models.VisitDetail, error) {
	query := visitDetailSelect + ` WHERE v.id = $1 LIMIT 1`
	var detail models.VisitDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get visit detail: %w", err)
	}
	return &detail, nil
}

// ListActive returns visits without checkout, newest first.
func (r *VisitRepository) ListActive(ctx context.Context, limit int) ([]models.VisitDetail, error) {
	query := visitDetailSelect + fmt.Sprintf(` WHERE v.checkout_at IS NULL ORDER BY v.checkin_at DESC LIMIT %d`, clampLimit(limit, 500))
	var visits []models.VisitDetail
	if err := r.db.SelectContext(ctx, &visits, query); err != nil {
		return nil, fmt.Errorf("list active visits: %w", err)
	}
	return visits, nil
}

// ListRecent returns the latest visits by check-in time.
func (r *VisitRepository) ListRecent(ctx context.Context, limit int) ([]models.VisitDetail, error) {
	query := visitDetailSelect + fmt.Sprintf(` ORDER BY v.checkin_at DESC LIMIT %d`, clampLimit(limit, 100))
	var visits []models.VisitDetail
	if err := r.db.SelectContext(ctx, &visits, query); err != nil {
		return nil, fmt.Errorf("list recent visits: %w", err)
	}
	return visits, nil
}

// ListForReport returns visits checked in within [From, To) matching the
// citizen filter, newest first, capped at filter.Limit.
func (r *VisitRepository) ListForReport(ctx context.Context, filter models.VisitFilter) ([]models.VisitDetail, error) {
	where, args := reportConditions(filter)
	query := visitDetailSelect + where + fmt.Sprintf(` ORDER BY v.checkin_at DESC LIMIT %d`, clampLimit(filter.Limit, 10000))
	var visits []models.VisitDetail
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, fmt.Errorf("list visits for report: %w", err)
	}
	return visits, nil
}

// CountForReport counts every visit matching the report filter.
func (r *VisitRepository) CountForReport(ctx context.Context, filter models.VisitFilter) (int, error) {
	where, args := reportConditions(filter)
	query := `SELECT COUNT(*) FROM visits v JOIN visit_cases vc ON vc.id = v.case_id JOIN citizens ci ON ci.id = vc.citizen_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count visits for report: %w", err)
	}
	return total, nil
}

// CountActive counts visits without checkout.
func (r *VisitRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM visits WHERE checkout_at IS NULL`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count active visits: %w", err)
	}
	return total, nil
}

// CountCheckinsBetween counts check-ins within [from, to).
func (r *VisitRepository) CountCheckinsBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM visits WHERE checkin_at >= $1 AND checkin_at < $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, from, to); err != nil {
		return 0, fmt.Errorf("count checkins: %w", err)
	}
	return total, nil
}

// CountCheckoutsBetween counts check-outs within [from, to).
func (r *VisitRepository) CountCheckoutsBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM visits WHERE checkout_at >= $1 AND checkout_at < $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, from, to); err != nil {
		return 0, fmt.Errorf("count checkouts: %w", err)
	}
	return total, nil
}

// AverageMinutesBetween averages the duration of visits checked out within [from, to).
func (r *VisitRepository) AverageMinutesBetween(ctx context.Context, from, to time.Time) (float64, error) {
	const query = `SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (checkout_at - checkin_at)) / 60), 0) FROM visits WHERE checkout_at >= $1 AND checkout_at < $2`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, from, to); err != nil {
		return 0, fmt.Errorf("average visit minutes: %w", err)
	}
	return avg, nil
}

func reportConditions(filter models.VisitFilter) (string, []interface{}) {
	conditions := []string{"v.checkin_at >= $1", "v.checkin_at < $2"}
	args := []interface{}{filter.From, filter.To}

	if filter.CitizenID != nil {
		args = append(args, *filter.CitizenID)
		conditions = append(conditions, fmt.Sprintf("ci.id = $%d", len(args)))
	} else if filter.CitizenName != "" {
		args = append(args, "%"+strings.ToLower(filter.CitizenName)+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(ci.name) LIKE $%d", len(args)))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}
