// Command seed applies the schema and ensures the default groups and
// administrator exist. It is safe to run on every deploy.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sisvisitas-api/internal/repository"
	"github.com/noah-isme/sisvisitas-api/internal/service"
	"github.com/noah-isme/sisvisitas-api/pkg/config"
	"github.com/noah-isme/sisvisitas-api/pkg/database"
	"github.com/noah-isme/sisvisitas-api/pkg/logger"
)

func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "overall bootstrap timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	audit := service.NewAuditService(repository.NewAuditRepository(db), logr, nil)
	seeder := service.NewSeedService(repository.NewSchemaRepository(db), repository.NewUserRepository(db), audit, logr)

	result, err := seeder.Run(ctx, service.SeedConfig{
		AdminUsername: cfg.Seed.AdminUsername,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
	})
	if err != nil {
		logr.Fatal("bootstrap failed", zap.Error(err))
	}

	logr.Info("bootstrap complete",
		zap.Strings("scripts", result.ScriptsApplied),
		zap.Strings("groups", result.Groups),
		zap.Bool("admin_created", result.AdminCreated),
		zap.String("admin_id", result.AdminID),
	)
}
