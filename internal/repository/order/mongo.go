package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"storefront/internal/domain"
)

// CollectionName is the Mongo collection holding orders.
const CollectionName = "orders"

type lineItemDoc struct {
	Name     string  `bson:"name"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
}

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Products    []lineItemDoc      `bson:"products"`
	TotalAmount float64            `bson:"totalAmount"`
	OrderDate   time.Time          `bson:"orderDate"`
}

func (d orderDoc) toDomain() domain.Order {
	items := make([]domain.LineItem, 0, len(d.Products))
	for _, p := range d.Products {
		items = append(items, domain.LineItem{Name: p.Name, Quantity: p.Quantity, Price: p.Price})
	}
	return domain.Order{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		LineItems:   items,
		TotalAmount: d.TotalAmount,
		CreatedAt:   d.OrderDate,
	}
}

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewMongo returns a Repository backed by the orders collection of db.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection(CollectionName), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	userID, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	products := make([]lineItemDoc, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		products = append(products, lineItemDoc{Name: li.Name, Quantity: li.Quantity, Price: li.Price})
	}
	doc := orderDoc{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Products:    products,
		TotalAmount: o.TotalAmount,
		OrderDate:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", o.UserID, err)
		return nil, fmt.Errorf("insert order: %w", err)
	}
	res := doc.toDomain()
	r.logger.Printf("order repo: created id=%s user_id=%s items=%d total=%v", res.ID, res.UserID, len(res.LineItems), res.TotalAmount)
	return &res, nil
}

func (r *mongoRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	var doc orderDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	res := doc.toDomain()
	return &res, nil
}
