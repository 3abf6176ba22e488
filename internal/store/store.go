package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"storefront/internal/config"
	"storefront/internal/db"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	userrepo "storefront/internal/repository/user"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Driver   string
	Products productrepo.Repository
	Users    userrepo.Repository
	Orders   orderrepo.Repository

	pinger interface{ Ping(context.Context) error }
	close  func(context.Context) error
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend named by cfg.StoreDriver. A Mongo server that
// does not answer the initial ping is logged and the store is returned anyway.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	switch cfg.StoreDriver {
	case config.DriverMongo, "":
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		pinger := db.MongoPinger{Client: client}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pinger.Ping(pingCtx); err != nil {
			logger.Printf("mongo not reachable at startup: %v", err)
		} else {
			logger.Printf("connected to mongo database %q", cfg.MongoDatabase)
		}
		return NewMongo(client, cfg.MongoDatabase, logger), nil
	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.DBConnString)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMongo builds a Store over an existing Mongo client.
func NewMongo(client *mongo.Client, dbName string, logger *log.Logger) *Store {
	database := client.Database(dbName)
	return &Store{
		Driver:   config.DriverMongo,
		Products: productrepo.NewMongo(database, logger),
		Users:    userrepo.NewMongo(database, logger),
		Orders:   orderrepo.NewMongo(database, logger),
		pinger:   db.MongoPinger{Client: client},
		close:    client.Disconnect,
	}
}

// NewPostgres builds a Store over an existing pool.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Store {
	return &Store{
		Driver:   config.DriverPostgres,
		Products: productrepo.NewPostgres(pool, logger),
		Users:    userrepo.NewPostgres(pool, logger),
		Orders:   orderrepo.NewPostgres(pool, logger),
		pinger:   pool,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}
}
