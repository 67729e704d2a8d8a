package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"tableorder/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadFile reads a JSON menu document from path.
func LoadFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", path, err)
	}
	var doc models.MenuDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse menu %s: %w", path, err)
	}
	return NewCatalog(doc)
}

// headsDocument is stored in the menu collection alongside the items under a fixed id.
type headsDocument struct {
	GenericHeads []string `bson:"generic_heads"`
}

const headsDocumentID = "_generic_heads"

// LoadMongo reads every menu item from coll. A document with id "_generic_heads"
// overrides the default head vocabulary.
func LoadMongo(ctx context.Context, coll *mongo.Collection) (*StaticCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$ne": headsDocumentID}}
	cur, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer cur.Close(ctx)

	var doc models.MenuDocument
	if err := cur.All(ctx, &doc.Items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}

	var heads headsDocument
	err = coll.FindOne(ctx, bson.M{"id": headsDocumentID}).Decode(&heads)
	switch {
	case err == nil:
		doc.GenericHeads = heads.GenericHeads
	case err != mongo.ErrNoDocuments:
		return nil, fmt.Errorf("query generic heads: %w", err)
	}

	return NewCatalog(doc)
}
