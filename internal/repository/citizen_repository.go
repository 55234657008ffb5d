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

const citizenColumns = `id, national_id, passport, name, phone, origin, created_at, updated_at`

// CitizenRepository provides database access for citizens.
type CitizenRepository struct {
	db *sqlx.DB
}

// NewCitizenRepository creates a new instance of CitizenRepository.
func NewCitizenRepository(db *sqlx.DB) *CitizenRepository {
	return &CitizenRepository{db: db}
}

// FindByID returns a citizen by identifier.
func (r *CitizenRepository) FindByID(ctx context.Context, id int64) (*models.Citizen, error) {
	return r.findOne(ctx, "id", id)
}

// FindByNationalID returns a citizen by national ID.
func (r *CitizenRepository) FindByNationalID(ctx context.Context, nationalID string) (*models.Citizen, error) {
	return r.findOne(ctx, "national_id", nationalID)
}

// FindByPassport returns a citizen by passport number.
func (r *CitizenRepository) FindByPassport(ctx context.Context, passport string) (*models.Citizen, error) {
	return r.findOne(ctx, "passport", passport)
}

func (r *CitizenRepository) findOne(ctx context.Context, column string, value interface{}) (*models.Citizen, error) {
	query := fmt.Sprintf(`SELECT %s FROM citizens WHERE %s = $1 LIMIT 1`, citizenColumns, column)
	var citizen models.Citizen
	if err := r.db.GetContext(ctx, &citizen, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find citizen by %s: %w", column, err)
	}
	return &citizen, nil
}

// Create inserts a citizen and fills its generated identity.
func (r *CitizenRepository) Create(ctx context.Context, citizen *models.Citizen) error {
	now := time.Now().UTC()
	citizen.CreatedAt = now
	citizen.UpdatedAt = now

	const query = `INSERT INTO citizens (national_id, passport, name, phone, origin, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		citizen.NationalID, citizen.Passport, citizen.Name, citizen.Phone, citizen.Origin, citizen.CreatedAt, citizen.UpdatedAt,
	).Scan(&citizen.ID); err != nil {
		return fmt.Errorf("create citizen: %w", err)
	}
	return nil
}

// UpdateContact stores changed name, phone and origin values.
func (r *CitizenRepository) UpdateContact(ctx context.Context, citizen *models.Citizen) error {
	citizen.UpdatedAt = time.Now().UTC()
	const query = `UPDATE citizens SET name = $2, phone = $3, origin = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, citizen.ID, citizen.Name, citizen.Phone, citizen.Origin, citizen.UpdatedAt); err != nil {
		return fmt.Errorf("update citizen: %w", err)
	}
	return nil
}
