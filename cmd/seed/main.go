package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/observability"
	"github.com/salonkit/salon-service/internal/persistence"
)

// Development seed: one tenant with an admin account. Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()

	var tenantID string
	err = pool.QueryRow(ctx, `SELECT id FROM tenants WHERE name = $1`, "Demo Salon").Scan(&tenantID)
	if err != nil {
		err = pool.QueryRow(ctx, `INSERT INTO tenants (name) VALUES ($1) RETURNING id`, "Demo Salon").Scan(&tenantID)
		if err != nil {
			logger.Fatal("failed to create tenant", zap.Error(err))
		}
		logger.Info("created tenant", zap.String("tenant_id", tenantID))
	}

	hash, err := auth.HashPassword("admin123", cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	const insertAdmin = `
        INSERT INTO staff_accounts (tenant_id, name, email, password_hash, role)
        VALUES ($1, $2, $3, $4, 'ADMIN')
        ON CONFLICT (tenant_id, email) DO NOTHING`

	cmd, err := pool.Exec(ctx, insertAdmin, tenantID, "Admin", "admin@salon.com", hash)
	if err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}
	if cmd.RowsAffected() > 0 {
		logger.Info("seeded admin account", zap.String("email", "admin@salon.com"))
	} else {
		logger.Info("admin account already present")
	}
}
