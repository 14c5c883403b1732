package storeprofile

import (
	"context"
	"errors"
	"fmt"

	d "github.com/maptiva/tienda-online-mvp-sub000/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("stores")}
}

func (m *MongoRepository) GetStore(ctx context.Context, storeID string) (*d.StoreProfile, error) {
	var profile d.StoreProfile

	filter := bson.M{"store_id": storeID}
	err := m.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &profile, nil
}

func (m *MongoRepository) UpsertStore(ctx context.Context, profile *d.StoreProfile) error {
	filter := bson.M{"store_id": profile.ID}
	update := bson.M{"$set": profile}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert store: %w", err)
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "store_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := m.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create store index: %w", err)
	}
	return nil
}
