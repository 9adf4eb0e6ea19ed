package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/warehouse-tracker/internal/domain/models"
)

const activityCollection = "activity"

// Inserter is the slice of *mongo.Collection the journal writes through.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// ActivityJournal appends interaction outcomes to MongoDB. It never reads them back.
type ActivityJournal struct {
	client     *mongo.Client
	collection Inserter
}

// NewActivityJournal connects to MongoDB and verifies the connection.
func NewActivityJournal(ctx context.Context, uri string, dbName string) (*ActivityJournal, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &ActivityJournal{
		client:     client,
		collection: client.Database(dbName).Collection(activityCollection),
	}, nil
}

// NewJournalWithCollection builds a journal over an existing collection handle.
func NewJournalWithCollection(collection Inserter) *ActivityJournal {
	return &ActivityJournal{collection: collection}
}

// Record inserts one activity entry.
func (j *ActivityJournal) Record(ctx context.Context, entry models.ActivityEntry) error {
	if _, err := j.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (j *ActivityJournal) Close(ctx context.Context) error {
	if j.client == nil {
		return nil
	}
	return j.client.Disconnect(ctx)
}
