package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/harsshhit/vendors/internal/database"
)

const collectionName = "users"

type userDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Email     string        `bson:"email"`
	Name      string        `bson:"name,omitempty"`
	Image     string        `bson:"image,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

type mongoRepository struct {
	gw *database.Gateway
}

// NewMongoRepository creates a user repository over the gateway's mongo database.
func NewMongoRepository(gw *database.Gateway) Repository {
	return &mongoRepository{gw: gw}
}

func (r *mongoRepository) collection() (*mongo.Collection, error) {
	db, err := r.gw.Mongo()
	if err != nil {
		return nil, err
	}
	return db.Collection(collectionName), nil
}

func (r *mongoRepository) UpsertByEmail(ctx context.Context, user *User) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	t := now()
	update := bson.M{
		"$set":         bson.M{"name": user.Name, "image": user.Image, "updatedAt": t},
		"$setOnInsert": bson.M{"_id": bson.NewObjectID(), "createdAt": t},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDocument
	if err := coll.FindOneAndUpdate(ctx, bson.M{"email": user.Email}, update, opts).Decode(&doc); err != nil {
		return fmt.Errorf("user: upsert: %w", err)
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt.UTC()
	user.UpdatedAt = doc.UpdatedAt.UTC()
	return nil
}

func (r *mongoRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("user: get: %w", err)
	}
	return &User{
		ID:        doc.ID.Hex(),
		Email:     doc.Email,
		Name:      doc.Name,
		Image:     doc.Image,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

// Migrate creates the unique email index.
func (r *mongoRepository) Migrate(ctx context.Context) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("user/mongo: create indexes: %w", err)
	}
	return nil
}
