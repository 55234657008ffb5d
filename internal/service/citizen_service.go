package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/pkg/database"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

var (
	nationalIDPattern = regexp.MustCompile(`^[0-9]{6,13}$`)
	phonePattern      = regexp.MustCompile(`^[0-9+\-() ]{6,20}$`)
)

type citizenRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Citizen, error)
	FindByNationalID(ctx context.Context, nationalID string) (*models.Citizen, error)
	FindByPassport(ctx context.Context, passport string) (*models.Citizen, error)
	Create(ctx context.Context, citizen *models.Citizen) error
	UpdateContact(ctx context.Context, citizen *models.Citizen) error
}

type citizenCaseLister interface {
	ListByCitizen(ctx context.Context, citizenID int64) ([]models.CaseDetail, error)
}

// CitizenService keeps one identity record per national ID or passport.
type CitizenService struct {
	repo      citizenRepository
	cases     citizenCaseLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCitizenService constructs the citizen directory.
func NewCitizenService(repo citizenRepository, cases citizenCaseLister, validate *validator.Validate, logger *zap.Logger) *CitizenService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &CitizenService{repo: repo, cases: cases, validator: validate, logger: logger}
	svc.validator.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		return nationalIDPattern.MatchString(fl.Field().String())
	})
	svc.validator.RegisterValidation("visitor_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return svc
}

// Validate checks the identity payload without touching storage.
func (s *CitizenService) Validate(input models.CitizenInput) error {
	input = normalizeCitizen(input)
	if input.NationalID == "" && input.Passport == "" {
		return appErrors.Clone(appErrors.ErrValidation, "national_id or passport is required")
	}
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid citizen payload")
	}
	return nil
}

// Upsert finds the citizen by national ID (preferred) or passport, creating it
// when missing and refreshing contact details when they changed.
func (s *CitizenService) Upsert(ctx context.Context, input models.CitizenInput) (*models.Citizen, error) {
	if err := s.Validate(input); err != nil {
		return nil, err
	}
	input = normalizeCitizen(input)

	citizen, err := s.findByIdentifier(ctx, input)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load citizen")
	}

	if citizen == nil {
		citizen = &models.Citizen{Name: input.Name, Phone: input.Phone, Origin: input.Origin}
		if input.NationalID != "" {
			citizen.NationalID = &input.NationalID
		} else {
			citizen.Passport = &input.Passport
		}
		err := s.repo.Create(ctx, citizen)
		if err == nil {
			return citizen, nil
		}
		if !database.IsUniqueViolation(err, "") {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create citizen")
		}
		// A concurrent intake created the same identity first.
		citizen, err = s.findByIdentifier(ctx, input)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "citizen was created concurrently")
		}
	}

	if applyContact(citizen, input) {
		if err := s.repo.UpdateContact(ctx, citizen); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update citizen")
		}
	}
	return citizen, nil
}

// Lookup returns a citizen and its cases by national ID or passport.
func (s *CitizenService) Lookup(ctx context.Context, nationalID, passport string) (*models.CitizenLookup, error) {
	input := normalizeCitizen(models.CitizenInput{NationalID: nationalID, Passport: passport})
	if input.NationalID == "" && input.Passport == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "national_id or passport is required")
	}

	citizen, err := s.findByIdentifier(ctx, input)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "citizen not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load citizen")
	}

	cases, err := s.cases.ListByCitizen(ctx, citizen.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load citizen cases")
	}
	if cases == nil {
		cases = []models.CaseDetail{}
	}
	return &models.CitizenLookup{Citizen: *citizen, Cases: cases}, nil
}

func (s *CitizenService) findByIdentifier(ctx context.Context, input models.CitizenInput) (*models.Citizen, error) {
	if input.NationalID != "" {
		return s.repo.FindByNationalID(ctx, input.NationalID)
	}
	return s.repo.FindByPassport(ctx, input.Passport)
}

func normalizeCitizen(input models.CitizenInput) models.CitizenInput {
	input.NationalID = strings.TrimSpace(input.NationalID)
	input.Passport = strings.TrimSpace(input.Passport)
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Origin = strings.TrimSpace(input.Origin)
	return input
}

// applyContact copies changed contact data. A blank name never overwrites.
func applyContact(citizen *models.Citizen, input models.CitizenInput) bool {
	changed := false
	if input.Name != "" && citizen.Name != input.Name {
		citizen.Name = input.Name
		changed = true
	}
	if citizen.Phone != input.Phone {
		citizen.Phone = input.Phone
		changed = true
	}
	if citizen.Origin != input.Origin {
		citizen.Origin = input.Origin
		changed = true
	}
	return changed
}
