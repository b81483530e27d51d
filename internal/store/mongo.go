package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cropwise/cropwise/internal/domain/models"
)

// MongoBackend stores each record kind in its own collection. A save is one
// BulkWrite replacing the stored collection with the snapshot: upserts for
// every record plus a delete of anything no longer present.
type MongoBackend struct {
	client *mongo.Client
	dbName string
}

// NewMongoBackend connects to MongoDB and verifies the connection with a ping.
func NewMongoBackend(ctx context.Context, uri, dbName string) (*MongoBackend, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoBackend{client: client, dbName: dbName}, nil
}

// Name identifies the backend in logs.
func (b *MongoBackend) Name() string { return "mongodb" }

// Close disconnects the underlying client.
func (b *MongoBackend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

func (b *MongoBackend) collection(kind Kind) *mongo.Collection {
	return b.client.Database(b.dbName).Collection(string(kind))
}

// LoadUsers fetches every user document.
func (b *MongoBackend) LoadUsers(ctx context.Context) (map[string]models.User, error) {
	var docs []models.User
	if err := b.loadAll(ctx, KindUsers, &docs); err != nil {
		return nil, err
	}

	users := make(map[string]models.User, len(docs))
	for _, u := range docs {
		users[u.UID] = u
	}
	return users, nil
}

// SaveUsers replaces the users collection with the given snapshot.
func (b *MongoBackend) SaveUsers(ctx context.Context, users map[string]models.User) error {
	ids := make([]string, 0, len(users))
	writes := make([]mongo.WriteModel, 0, len(users)+1)
	for uid, u := range users {
		ids = append(ids, uid)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": uid}).
			SetReplacement(u).
			SetUpsert(true))
	}
	return b.saveAll(ctx, KindUsers, ids, writes)
}

// LoadProducts fetches every product document.
func (b *MongoBackend) LoadProducts(ctx context.Context) ([]models.Product, error) {
	docs := []models.Product{}
	if err := b.loadAll(ctx, KindProducts, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveProducts replaces the products collection with the given snapshot.
func (b *MongoBackend) SaveProducts(ctx context.Context, products []models.Product) error {
	ids := make([]string, 0, len(products))
	writes := make([]mongo.WriteModel, 0, len(products)+1)
	for _, p := range products {
		ids = append(ids, p.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": p.ID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	return b.saveAll(ctx, KindProducts, ids, writes)
}

// LoadOrders fetches every order document.
func (b *MongoBackend) LoadOrders(ctx context.Context) ([]models.Order, error) {
	docs := []models.Order{}
	if err := b.loadAll(ctx, KindOrders, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveOrders replaces the orders collection with the given snapshot.
func (b *MongoBackend) SaveOrders(ctx context.Context, orders []models.Order) error {
	ids := make([]string, 0, len(orders))
	writes := make([]mongo.WriteModel, 0, len(orders)+1)
	for _, o := range orders {
		ids = append(ids, o.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": o.ID}).
			SetReplacement(o).
			SetUpsert(true))
	}
	return b.saveAll(ctx, KindOrders, ids, writes)
}

// LoadAgriculturists fetches every agriculturist document.
func (b *MongoBackend) LoadAgriculturists(ctx context.Context) ([]models.Agriculturist, error) {
	docs := []models.Agriculturist{}
	if err := b.loadAll(ctx, KindAgriculturists, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveAgriculturists replaces the agriculturists collection with the snapshot.
func (b *MongoBackend) SaveAgriculturists(ctx context.Context, agriculturists []models.Agriculturist) error {
	ids := make([]string, 0, len(agriculturists))
	writes := make([]mongo.WriteModel, 0, len(agriculturists)+1)
	for _, a := range agriculturists {
		ids = append(ids, a.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": a.ID}).
			SetReplacement(a).
			SetUpsert(true))
	}
	return b.saveAll(ctx, KindAgriculturists, ids, writes)
}

func (b *MongoBackend) loadAll(ctx context.Context, kind Kind, out interface{}) error {
	cursor, err := b.collection(kind).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find %s: %w", kind, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", kind, err)
	}
	return nil
}

// saveAll issues a single ordered BulkWrite: upserts for the snapshot and a
// trailing delete of every document whose id is not in the snapshot.
func (b *MongoBackend) saveAll(ctx context.Context, kind Kind, ids []string, writes []mongo.WriteModel) error {
	if ids == nil {
		ids = []string{}
	}
	writes = append(writes, mongo.NewDeleteManyModel().
		SetFilter(bson.M{"_id": bson.M{"$nin": ids}}))

	if _, err := b.collection(kind).BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("bulk write %s: %w", kind, err)
	}
	return nil
}
