package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

const caseColumns = `id, code, citizen_id, topic_id, state, opened_at, closed_at, closed_reason, last_reopen_reason, created_at, updated_at`

// CaseRepository persists visit cases.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository creates a new instance of CaseRepository.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// FindByID returns a case by identifier.
func (r *CaseRepository) FindByID(ctx context.Context, id int64) (*models.VisitCase, error) {
	query := `SELECT ` + caseColumns + ` FROM visit_cases WHERE id = $1 LIMIT 1`
	var vc models.VisitCase
	if err := r.db.GetContext(ctx, &vc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find case by id: %w", err)
	}
	return &vc, nil
}

// FindByCitizenTopic returns the case for a (citizen, topic) pair.
func (r *CaseRepository) FindByCitizenTopic(ctx context.Context, citizenID, topicID int64) (*models.VisitCase, error) {
	query := `SELECT ` + caseColumns + ` FROM visit_cases WHERE citizen_id = $1 AND topic_id = $2 LIMIT 1`
	var vc models.VisitCase
	if err := r.db.GetContext(ctx, &vc, query, citizenID, topicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find case by citizen and topic: %w", err)
	}
	return &vc, nil
}

// Insert creates the case unless one already exists for the same pair.
// It reports false when a concurrent writer won the race.
func (r *CaseRepository) Insert(ctx context.Context, vc *models.VisitCase) (bool, error) {
	now := time.Now().UTC()
	vc.CreatedAt = now
	vc.UpdatedAt = now

	const query = `INSERT INTO visit_cases (code, citizen_id, topic_id, state, opened_at, closed_reason, last_reopen_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, '', '', $6, $7)
ON CONFLICT (citizen_id, topic_id) DO NOTHING
RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, vc.Code, vc.CitizenID, vc.TopicID, vc.State, vc.OpenedAt, vc.CreatedAt, vc.UpdatedAt).Scan(&vc.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert case: %w", err)
	}
	return true, nil
}

// Reopen moves a closed case back to OPEN. It returns sql.ErrNoRows when the
// case is not closed anymore.
func (r *CaseRepository) Reopen(ctx context.Context, id int64, justification string, at time.Time) (*models.VisitCase, error) {
	query := `UPDATE visit_cases SET state = 'OPEN', opened_at = $2, closed_at = NULL, closed_reason = '', last_reopen_reason = $3, updated_at = $2
WHERE id = $1 AND state = 'CLOSED'
RETURNING ` + caseColumns
	var vc models.VisitCase
	if err := r.db.GetContext(ctx, &vc, query, id, at, justification); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("reopen case: %w", err)
	}
	return &vc, nil
}

// Close marks a case as CLOSED. It returns sql.ErrNoRows when the case is
// missing or already closed.
func (r *CaseRepository) Close(ctx context.Context, id int64, reason string, at time.Time) (*models.VisitCase, error) {
	query := `UPDATE visit_cases SET state = 'CLOSED', closed_at = $2, closed_reason = $3, updated_at = $2
WHERE id = $1 AND state <> 'CLOSED'
RETURNING ` + caseColumns
	var vc models.VisitCase
	if err := r.db.GetContext(ctx, &vc, query, id, at, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("close case: %w", err)
	}
	return &vc, nil
}

// ListByCitizen returns the citizen's cases with their topics, newest first.
func (r *CaseRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]models.CaseDetail, error) {
	const query = `SELECT vc.id, vc.code, vc.citizen_id, vc.topic_id, vc.state, vc.opened_at, vc.closed_at, vc.closed_reason, vc.last_reopen_reason, vc.created_at, vc.updated_at,
t.id AS "topic.id", t.code AS "topic.code", t.name AS "topic.name", t.description AS "topic.description", t.unit AS "topic.unit", t.is_active AS "topic.is_active", t.created_at AS "topic.created_at", t.updated_at AS "topic.updated_at"
FROM visit_cases vc
JOIN topics t ON t.id = vc.topic_id
WHERE vc.citizen_id = $1
ORDER BY vc.opened_at DESC`
	var cases []models.CaseDetail
	if err := r.db.SelectContext(ctx, &cases, query, citizenID); err != nil {
		return nil, fmt.Errorf("list cases by citizen: %w", err)
	}
	return cases, nil
}
