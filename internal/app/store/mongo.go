package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"relaybot/internal/app/faq"
	"relaybot/internal/app/user"
)

const (
	usersCollection = "users"
	faqCollection   = "faq"
)

type userDocument struct {
	ID   int64  `bson:"id"`
	Type string `bson:"type"`
}

type faqDocument struct {
	Type    string `bson:"type"`
	Title   string `bson:"title"`
	Message string `bson:"message"`
}

// MongoDirectory reads the directory from MongoDB.
type MongoDirectory struct {
	client *mongo.Client
	users  *mongo.Collection
	faqs   *mongo.Collection
}

// OpenMongo connects to uri, pings the primary and binds the directory collections of database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoDirectory, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(30 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	return &MongoDirectory{
		client: client,
		users:  db.Collection(usersCollection),
		faqs:   db.Collection(faqCollection),
	}, nil
}

func (d *MongoDirectory) FindAdmins(ctx context.Context) ([]user.ID, error) {
	cursor, err := d.users.Find(ctx,
		bson.D{{Key: "type", Value: adminType}},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find admins: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode admins: %w", err)
	}
	return adminIDs(docs), nil
}

func (d *MongoDirectory) FindFAQs(ctx context.Context) ([]faq.Entry, error) {
	cursor, err := d.faqs.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find faqs: %w", err)
	}

	var docs []faqDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	return faqEntries(docs), nil
}

func (d *MongoDirectory) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func adminIDs(docs []userDocument) []user.ID {
	out := make([]user.ID, 0, len(docs))
	for _, d := range docs {
		if d.Type != adminType {
			continue
		}
		out = append(out, user.ID(d.ID))
	}
	return out
}

func faqEntries(docs []faqDocument) []faq.Entry {
	out := make([]faq.Entry, len(docs))
	for i, d := range docs {
		out[i] = faq.Entry{Category: faq.Category(d.Type), Title: d.Title, Body: d.Message}
	}
	return out
}
