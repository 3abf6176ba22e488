package product

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"storefront/internal/domain"
)

// CollectionName is the Mongo collection holding products.
const CollectionName = "products"

type productDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     d.Price,
		CreatedAt: d.CreatedAt,
	}
}

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewMongo returns a Repository backed by the products collection of db.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection(CollectionName), logger: logger}
}

func (r *mongoRepo) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Printf("product repo: decode error=%v", err)
		return nil, fmt.Errorf("decode products: %w", err)
	}

	result := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toDomain())
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *mongoRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	doc := productDoc{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Printf("product repo: create name=%s error=%v", p.Name, err)
		return nil, fmt.Errorf("insert product: %w", err)
	}
	res := doc.toDomain()
	r.logger.Printf("product repo: created name=%s id=%s", res.Name, res.ID)
	return &res, nil
}

func (r *mongoRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	filter := bson.M{"name": p.Name}
	update := bson.M{
		"$set":         bson.M{"price": p.Price},
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC().Truncate(time.Millisecond)},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var doc productDoc
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		r.logger.Printf("product repo: upsert name=%s error=%v", p.Name, err)
		return nil, fmt.Errorf("upsert product: %w", err)
	}
	res := doc.toDomain()
	r.logger.Printf("product repo: upserted name=%s id=%s", res.Name, res.ID)
	return &res, nil
}
