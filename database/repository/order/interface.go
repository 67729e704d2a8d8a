package orderRepo

import (
	"context"

	"tableorder/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "orders"

// OrderRepository is the long-term archive of placed orders.
type OrderRepository interface {
	Upsert(ctx context.Context, order models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
}

type mongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo returns an OrderRepository backed by the "orders" collection.
func NewMongoOrderRepo(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{coll: db.Collection(collectionName)}
}
