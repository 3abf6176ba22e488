package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"storefront/internal/domain"
)

// CollectionName is the Mongo collection holding users.
const CollectionName = "users"

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type mongoRepo struct {
	collection *mongo.Collection
	logger     *log.Logger
}

// NewMongo returns a Repository backed by the users collection of db. The
// unique email index comes from the mongo migrations.
func NewMongo(db *mongo.Database, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &mongoRepo{collection: db.Collection(CollectionName), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(u.Email),
		Password:  u.PasswordHash,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create error=%v", err)
		return nil, fmt.Errorf("insert user: %w", err)
	}
	res := doc.toDomain()
	return &res, nil
}

func (r *mongoRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: get by email error=%v", err)
		return nil, fmt.Errorf("find user: %w", err)
	}
	res := doc.toDomain()
	return &res, nil
}
