// Package pgtest starts a throwaway Postgres for integration suites.
package pgtest

import (
	"context"
	"fmt"
	"time"

	adapter "mercuri/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated Postgres running in a container.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and applies the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, terminateWith(ctx, container, err)
	}

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, terminateWith(ctx, container, err)
	}

	if err := adapter.Migrate(db); err != nil {
		return nil, terminateWith(ctx, container, err)
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every table the engine writes, plus accounts.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE offer_events, offers, orders, riders, accounts").Error
}

// Stop terminates the container.
func (d *Database) Stop(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

func terminateWith(ctx context.Context, c *postgres.PostgresContainer, err error) error {
	if termErr := c.Terminate(ctx); termErr != nil {
		return fmt.Errorf("%w (terminate: %v)", err, termErr)
	}
	return err
}
