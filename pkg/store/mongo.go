package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions configures a [MongoStore].
type MongoOptions struct {
	URI        string // default "mongodb://localhost:27017"
	Database   string // default "seqdist"
	Collection string // default "results"
}

// MongoStore persists records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// recordDoc is the BSON shape of a [Record].
type recordDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name,omitempty"`
	Kind       string    `bson:"kind"`
	Strategy   string    `bson:"strategy"`
	Length     int       `bson:"length"`
	Distance   int       `bson:"distance"`
	Normalized float64   `bson:"normalized"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toDoc(r Record) recordDoc {
	return recordDoc{
		ID:         r.ID.String(),
		Name:       r.Name,
		Kind:       r.Kind,
		Strategy:   r.Strategy,
		Length:     r.Length,
		Distance:   r.Distance,
		Normalized: r.Normalized,
		CreatedAt:  r.CreatedAt,
	}
}

func fromDoc(d recordDoc) (Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return Record{}, fmt.Errorf("record %q: %w", d.ID, err)
	}
	return Record{
		ID:         id,
		Name:       d.Name,
		Kind:       d.Kind,
		Strategy:   d.Strategy,
		Length:     d.Length,
		Distance:   d.Distance,
		Normalized: d.Normalized,
		CreatedAt:  d.CreatedAt,
	}, nil
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		opts.URI = "mongodb://localhost:27017"
	}
	if opts.Database == "" {
		opts.Database = "seqdist"
	}
	if opts.Collection == "" {
		opts.Collection = "results"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Save implements [Store].
func (s *MongoStore) Save(ctx context.Context, r Record) error {
	if _, err := s.coll.InsertOne(ctx, toDoc(r)); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// List implements [Store].
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	find := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		find.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, find)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		r, err := fromDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Close implements [Store].
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
