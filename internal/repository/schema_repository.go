package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SchemaRepository applies DDL scripts.
type SchemaRepository struct {
	db *sqlx.DB
}

// NewSchemaRepository creates a new instance of SchemaRepository.
func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// Apply executes a schema script. Scripts are written to be re-runnable.
func (r *SchemaRepository) Apply(ctx context.Context, name, script string) error {
	if _, err := r.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	return nil
}
