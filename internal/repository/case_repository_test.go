package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

var caseCols = []string{"id", "code", "citizen_id", "topic_id", "state", "opened_at", "closed_at", "closed_reason", "last_reopen_reason", "created_at", "updated_at"}

func TestCaseInsertCreatesCase(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (citizen_id, topic_id) DO NOTHING")).
		WithArgs("CASE-4-2", int64(4), int64(2), models.CaseStateOpen, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	vc := &models.VisitCase{Code: models.CaseCode(4, 2), CitizenID: 4, TopicID: 2, State: models.CaseStateOpen, OpenedAt: time.Now()}
	created, err := repo.Insert(context.Background(), vc)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(9), vc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseInsertLosesRace(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCaseRepository(db)

	mock.ExpectQuery("INSERT INTO visit_cases").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	created, err := repo.Insert(context.Background(), &models.VisitCase{Code: "CASE-1-1", CitizenID: 1, TopicID: 1, State: models.CaseStateOpen})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCaseReopenOnlyClosed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCaseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND state = 'CLOSED'")).
		WithArgs(int64(5), now, "vuelve").
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow(int64(5), "CASE-1-2", int64(1), int64(2), "OPEN", now, nil, "", "vuelve", now, now))

	vc, err := repo.Reopen(context.Background(), 5, "vuelve", now)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStateOpen, vc.State)
	assert.Equal(t, "CASE-1-2", vc.Code)
	assert.Nil(t, vc.ClosedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCaseCloseAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCaseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND state <> 'CLOSED'")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Close(context.Background(), 5, "resuelto", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCaseListByCitizen(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCaseRepository(db)

	now := time.Now()
	cols := append(append([]string{}, caseCols...), "topic.id", "topic.code", "topic.name", "topic.description", "topic.unit", "topic.is_active", "topic.created_at", "topic.updated_at")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE vc.citizen_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			int64(5), "CASE-1-2", int64(1), int64(2), "OPEN", now, nil, "", "", now, now,
			int64(2), "LIC", "Licencias", "", "Ventanilla", true, now, now,
		))

	cases, err := repo.ListByCitizen(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "LIC - Licencias", cases[0].Topic.Label())
	assert.NoError(t, mock.ExpectationsWereMet())
}
