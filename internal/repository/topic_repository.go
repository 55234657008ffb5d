package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sisvisitas-api/internal/models"
)

// TopicRepository reads the topic catalog.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new instance of TopicRepository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// FindByID returns a topic regardless of its active flag.
func (r *TopicRepository) FindByID(ctx context.Context, id int64) (*models.Topic, error) {
	const query = `SELECT id, code, name, description, unit, is_active, created_at, updated_at FROM topics WHERE id = $1 LIMIT 1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find topic by id: %w", err)
	}
	return &topic, nil
}
