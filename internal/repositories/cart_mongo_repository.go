package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda/internal/models"
)

type lineItemDoc struct {
	ProductID string `bson:"product"`
	Quantity  int    `bson:"quantity"`
}

type cartDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Products []lineItemDoc      `bson:"products"`
}

func (d cartDoc) toModel() models.Cart {
	products := make([]models.LineItem, 0, len(d.Products))
	for _, item := range d.Products {
		products = append(products, models.LineItem(item))
	}
	return models.Cart{ID: d.ID.Hex(), Products: products}
}

func toLineItemDocs(products []models.LineItem) []lineItemDoc {
	docs := make([]lineItemDoc, 0, len(products))
	for _, item := range products {
		docs = append(docs, lineItemDoc(item))
	}
	return docs
}

// MongoCartRepository is a document-store implementation of CartRepository
// backed by a "carts" collection. Line items persist the product id as an
// opaque string reference, never the product data.
type MongoCartRepository struct {
	collection *mongo.Collection
}

// NewMongoCartRepository creates the repository.
func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

// FindAll returns all carts.
func (r *MongoCartRepository) FindAll() ([]models.Cart, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("find carts", err)
	}
	defer cursor.Close(ctx)

	carts := []models.Cart{}
	for cursor.Next(ctx) {
		var doc cartDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode cart", err)
		}
		carts = append(carts, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate carts", err)
	}
	return carts, nil
}

// FindByID returns a cart by its ID.
func (r *MongoCartRepository) FindByID(id string) (*models.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := opCtx()
	defer cancel()

	var doc cartDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find cart", err)
	}
	cart := doc.toModel()
	return &cart, nil
}

// Insert stores a new cart, generating an ObjectID when no id is set.
func (r *MongoCartRepository) Insert(cart *models.Cart) error {
	ctx, cancel := opCtx()
	defer cancel()

	doc := cartDoc{Products: toLineItemDocs(cart.Products)}
	if cart.ID == "" {
		doc.ID = primitive.NewObjectID()
	} else {
		oid, err := primitive.ObjectIDFromHex(cart.ID)
		if err != nil {
			return storeErr("insert cart", err)
		}
		doc.ID = oid
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return storeErr("insert cart", err)
	}
	cart.ID = doc.ID.Hex()
	if cart.Products == nil {
		cart.Products = []models.LineItem{}
	}
	return nil
}

// UpdateProducts replaces a cart's line items and returns the updated
// document.
func (r *MongoCartRepository) UpdateProducts(id string, products []models.LineItem) (*models.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := opCtx()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"products": toLineItemDocs(products)}}

	var doc cartDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("update cart", err)
	}
	cart := doc.toModel()
	return &cart, nil
}

// DeleteByID removes a cart, reporting whether a document existed.
func (r *MongoCartRepository) DeleteByID(id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, storeErr("delete cart", err)
	}
	return res.DeletedCount > 0, nil
}

// Count returns the number of carts.
func (r *MongoCartRepository) Count() (int64, error) {
	ctx, cancel := opCtx()
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count carts", err)
	}
	return n, nil
}
