package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoCollection = "orders"

type mongoItem struct {
	Name     string  `bson:"name"`
	Price    float64 `bson:"price"`
	Quantity int     `bson:"quantity"`
}

type mongoOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Items     []mongoItem        `bson:"items"`
	Amount    float64            `bson:"amount"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d mongoOrder) toOrder() Order {
	items := make([]Item, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, Item(it))
	}
	return Order{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Items:     items,
		Amount:    d.Amount,
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoRepo stores orders as documents of the "orders" collection.
type MongoRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var (
	_ Repository = (*MongoRepo)(nil)
	_ Pinger     = (*MongoRepo)(nil)
)

// OpenMongoRepo connects to uri, checks the primary is reachable and makes
// sure the listing index exists.
func OpenMongoRepo(ctx context.Context, uri, database string) (*MongoRepo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	r := &MongoRepo{client: client, coll: client.Database(database).Collection(mongoCollection)}
	if _, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create orders index: %w", err)
	}
	return r, nil
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// BSON dates keep millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := mongoOrder{
		Email:     o.Email,
		Items:     make([]mongoItem, 0, len(o.Items)),
		Amount:    o.Amount,
		Status:    string(o.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, mongoItem(it))
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert order: unexpected id type %T", res.InsertedID)
	}
	o.ID = oid.Hex()
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (r *MongoRepo) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Terminal() {
		return nil, ErrInvalidStatus
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc mongoOrder
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(StatusPending)},
		bson.M{"$set": bson.M{
			"status":    string(status),
			"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		o := doc.toOrder()
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("count order: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrStatusFinal
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	o := doc.toOrder()
	return &o, nil
}

func (r *MongoRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	out := make([]Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toOrder())
	}
	return out, nil
}
