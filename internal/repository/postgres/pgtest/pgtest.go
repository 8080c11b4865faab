//go:build integration

// Package pgtest starts a throwaway Postgres with the schema applied.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"lead-intake-go/internal/config"
	"lead-intake-go/internal/db"
	"lead-intake-go/migrations"
	"lead-intake-go/pkg/logger"
)

func Start(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("lead_intake"),
		postgres.WithUsername("lead"),
		postgres.WithPassword("lead"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	log := logger.Nop()
	gormDB, err := db.NewPostgres(config.DBConfig{DSN: dsn}, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gormDB) })

	if _, err := db.Migrate(gormDB, migrations.Files, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}
