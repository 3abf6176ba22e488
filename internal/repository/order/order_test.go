package order

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_CreateStoresVerbatim(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.ApplyPostgres(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE orders`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	exerciseRepository(ctx, t, NewPostgres(pool, nil), uuid.NewString())
}

func TestMongo_CreateStoresVerbatim(t *testing.T) {
	ctx := context.Background()
	exerciseRepository(ctx, t, NewMongo(testDatabase(ctx, t), nil), primitive.NewObjectID().Hex())
}

func exerciseRepository(ctx context.Context, t *testing.T, repo Repository, userID string) {
	t.Helper()

	items := []domain.LineItem{{Name: "Widget", Quantity: 2, Price: 100}}
	// The total deliberately disagrees with the items: the store keeps it as given.
	created, err := repo.Create(ctx, domain.Order{UserID: userID, LineItems: items, TotalAmount: 150})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and order date, got %+v", created)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != userID || got.TotalAmount != 150 {
		t.Fatalf("unexpected order %+v", got)
	}
	if !reflect.DeepEqual(got.LineItems, items) {
		t.Fatalf("line items changed: %+v", got.LineItems)
	}

	if _, err := repo.Create(ctx, domain.Order{UserID: "not-an-id", TotalAmount: 1}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func testDatabase(ctx context.Context, t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo container test in short mode")
	}
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("start mongo: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate mongo: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	client, err := db.ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	if err := migrate.ApplyMongo(ctx, client, "storefront_test"); err != nil {
		t.Fatalf("apply mongo migrations: %v", err)
	}
	return client.Database("storefront_test")
}
