package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"Duet/core"
	"Duet/lib/sl"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type modeDocument struct {
	UserId    int64     `bson:"user_id"`
	Mode      string    `bson:"mode"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *slog.Logger
}

func NewMongoStorage(uri, database string, log *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(tableName)

	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Warn("creating index", sl.Err(err))
	}

	return &MongoStorage{
		client:     client,
		collection: collection,
		log:        log,
	}, nil
}

func (m *MongoStorage) GetMode(ctx context.Context, userId int64) (core.Mode, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc modeDocument
	err := m.collection.FindOne(ctx, bson.M{"user_id": userId}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.DefaultMode, nil
	}
	if err != nil {
		return core.DefaultMode, fmt.Errorf("finding mode: %w", err)
	}
	return core.ParseMode(doc.Mode), nil
}

func (m *MongoStorage) SetMode(ctx context.Context, userId int64, mode core.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("set mode %q: %w", mode, core.ErrInvalidMode)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"mode":       mode.String(),
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"user_id": userId,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := m.collection.UpdateOne(ctx, bson.M{"user_id": userId}, update, opts); err != nil {
		return fmt.Errorf("upserting mode: %w", err)
	}
	return nil
}

func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
