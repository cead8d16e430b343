// Package mongostore keeps todos in a MongoDB collection, one document per
// todo keyed by the canonical UUID string.
package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"todo-api/internal/model"
	"todo-api/internal/todo"
)

const (
	DefaultDatabase   = "todos"
	DefaultCollection = "todos"
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to uri and verifies the primary is reachable.
func Open(ctx context.Context, uri, database, collection string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Insert(ctx context.Context, t model.Todo) (model.InsertResult, error) {
	if _, err := s.coll.InsertOne(ctx, toDocument(t)); err != nil {
		return model.InsertResult{}, errors.Wrap(err, "insert one")
	}
	return model.InsertResult{InsertedID: t.ID.String()}, nil
}

func (s *Store) FindAll(ctx context.Context) (todo.Cursor, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find")
	}
	return &cursor{cur: cur}, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, fields model.Fields, updatedAt time.Time) (model.UpdateResult, error) {
	res, err := s.coll.UpdateOne(ctx, idFilter(id), updatePipeline(fields, updatedAt))
	if err != nil {
		return model.UpdateResult{}, errors.Wrap(err, "update one")
	}
	return model.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error) {
	res, err := s.coll.DeleteOne(ctx, idFilter(id))
	if err != nil {
		return model.DeleteResult{}, errors.Wrap(err, "delete one")
	}
	return model.DeleteResult{DeletedCount: res.DeletedCount}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type cursor struct {
	cur *mongo.Cursor
}

func (c *cursor) Next(ctx context.Context) bool { return c.cur.Next(ctx) }

func (c *cursor) Decode() (model.Todo, error) { return decodeTodo(c.cur.Current) }

func (c *cursor) Err() error { return c.cur.Err() }

func (c *cursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }
