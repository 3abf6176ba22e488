package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mongodb"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Mongo migrations are JSON arrays of database commands (createIndexes,
// dropIndexes, ...) executed in order by the mongodb driver.
//
//go:embed mongo/*.json
var mongoFS embed.FS

// ApplyPostgres runs the embedded SQL migrations up.
func ApplyPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return fmt.Errorf("open sql db: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sql db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init db driver: %w", err)
	}
	return apply(sqlFS, "sql", "pgx", dbDriver)
}

// ApplyMongo runs the embedded Mongo command migrations against dbName.
func ApplyMongo(ctx context.Context, client *mongo.Client, dbName string) error {
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	dbDriver, err := mongodb.WithInstance(client, &mongodb.Config{
		DatabaseName:         dbName,
		MigrationsCollection: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("init db driver: %w", err)
	}
	return apply(mongoFS, "mongo", "mongodb", dbDriver)
}

func apply(fsys fs.FS, dir, driverName string, dbDriver database.Driver) error {
	srcDriver, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("init iofs: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, driverName, dbDriver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	// Close would also disconnect the caller's client/pool, so only the
	// source is released here.
	defer srcDriver.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("migrate up: %w (every version needs both an up and a down file)", err)
		}
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
