package orderRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableorder/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrOrderNotFound = errors.New("order not found")

// EnsureIndexes makes order_id unique so replayed archive tasks stay idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection(collectionName).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "session_id", Value: 1}}},
		{Keys: bson.D{{Key: "placed_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

// Upsert writes the order keyed by order_id. Archiving the same order twice is harmless.
func (r *mongoOrderRepo) Upsert(ctx context.Context, order models.Order) error {
	if order.OrderID == "" {
		return errors.New("order id is required")
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"order_id": order.OrderID}, order, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
