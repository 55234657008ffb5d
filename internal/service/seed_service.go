package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	"github.com/noah-isme/sisvisitas-api/migrations"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type schemaApplier interface {
	Apply(ctx context.Context, name, script string) error
}

type seedUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	EnsureGroup(ctx context.Context, name string) error
	AddToGroup(ctx context.Context, userID, group string) error
}

// SeedConfig describes the default administrator.
type SeedConfig struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// SeedResult reports what the bootstrap changed.
type SeedResult struct {
	ScriptsApplied []string
	Groups         []string
	AdminCreated   bool
	AdminID        string
}

// SeedService bootstraps schema, groups and the default administrator. Every
// step is safe to repeat.
type SeedService struct {
	schema  schemaApplier
	users   seedUserRepository
	audit   auditRecorder
	logger  *zap.Logger
	scripts func() ([]migrations.Script, error)
}

// NewSeedService constructs a SeedService.
func NewSeedService(schema schemaApplier, users seedUserRepository, audit auditRecorder, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{schema: schema, users: users, audit: audit, logger: logger, scripts: migrations.Scripts}
}

// Run applies the bootstrap. An existing administrator keeps its password.
func (s *SeedService) Run(ctx context.Context, cfg SeedConfig) (*SeedResult, error) {
	cfg.AdminUsername = strings.TrimSpace(cfg.AdminUsername)
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admin username and password are required")
	}

	result := &SeedResult{}

	scripts, err := s.scripts()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read schema scripts")
	}
	for _, script := range scripts {
		if err := s.schema.Apply(ctx, script.Name, script.SQL); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply schema")
		}
		result.ScriptsApplied = append(result.ScriptsApplied, script.Name)
		s.logger.Info("schema applied", zap.String("script", script.Name))
	}

	for _, group := range models.DefaultGroups {
		if err := s.users.EnsureGroup(ctx, group); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ensure group")
		}
		result.Groups = append(result.Groups, group)
	}
	s.logger.Info("groups ready", zap.Strings("groups", result.Groups))

	admin, err := s.users.FindByUsername(ctx, cfg.AdminUsername)
	switch {
	case err == nil:
		s.logger.Warn("admin already exists, password left unchanged", zap.String("username", admin.Username))
	case errors.Is(err, sql.ErrNoRows):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, appErrors.Wrap(hashErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		admin = &models.User{
			Username:     cfg.AdminUsername,
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			FullName:     "Administrador",
			IsSuperuser:  true,
			Active:       true,
		}
		if err := s.users.Create(ctx, admin); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
		}
		result.AdminCreated = true
		s.audit.Record(ctx, AuditEvent{
			Action:   models.AuditActionUserCreated,
			Entity:   models.AuditEntityUser,
			EntityID: admin.ID,
			Payload:  map[string]interface{}{"username": admin.Username, "source": "seed"},
		})
		s.logger.Info("admin created", zap.String("username", admin.Username))
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if err := s.users.AddToGroup(ctx, admin.ID, models.GroupAdmin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grant admin group")
	}
	result.AdminID = admin.ID
	return result, nil
}
