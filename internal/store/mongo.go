// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to document store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging document store: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: get %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return nil
}

// Query implements Store. Documents are returned in natural order; callers
// apply their own sorting when they need a defined order.
func (s *MongoStore) Query(ctx context.Context, collection string, predicates []Predicate, out any) error {
	filter := bson.M{}
	for _, p := range predicates {
		filter[p.Field] = p.Value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("%w: query %s: %v", ErrUnavailable, collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}

// Put implements Store. The write is an unconditional upsert.
func (s *MongoStore) Put(ctx context.Context, collection, id string, doc any) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	// Strip any _id carried inside the document so the filter id wins.
	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("decoding document: %w", err)
	}
	delete(fields, "_id")

	_, err = s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: put %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return id, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
