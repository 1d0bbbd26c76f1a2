package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tienda/internal/models"
)

// Every store call runs under its own deadline so a slow or unreachable
// database cannot hang a request indefinitely.
const mongoOpTimeout = 5 * time.Second

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

type thumbnailDoc struct {
	Path        string `bson:"path,omitempty"`
	Data        string `bson:"data,omitempty"`
	ContentType string `bson:"contentType,omitempty"`
	Filename    string `bson:"filename,omitempty"`
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Code        string             `bson:"code"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Category    string             `bson:"category"`
	Status      bool               `bson:"status"`
	Thumbnails  []thumbnailDoc     `bson:"thumbnails"`
}

func toThumbnailDocs(thumbs []models.Thumbnail) []thumbnailDoc {
	docs := make([]thumbnailDoc, 0, len(thumbs))
	for _, t := range thumbs {
		docs = append(docs, thumbnailDoc(t))
	}
	return docs
}

func (d productDoc) toModel() models.Product {
	thumbs := make([]models.Thumbnail, 0, len(d.Thumbnails))
	for _, t := range d.Thumbnails {
		thumbs = append(thumbs, models.Thumbnail(t))
	}
	return models.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Code:        d.Code,
		Price:       d.Price,
		Stock:       d.Stock,
		Category:    d.Category,
		Status:      d.Status,
		Thumbnails:  thumbs,
	}
}

// MongoProductRepository is a document-store implementation of
// ProductRepository backed by a "products" collection with a unique index
// on code.
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates the repository and ensures the unique
// code index exists.
func NewMongoProductRepository(db *mongo.Database) (*MongoProductRepository, error) {
	collection := db.Collection("products")

	ctx, cancel := opCtx()
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, storeErr("ensure code index", err)
	}
	return &MongoProductRepository{collection: collection}, nil
}

func productFilterQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if filter.AvailableOnly {
		query["status"] = true
	}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": filter.Category, "$options": "i"}
	}
	return query
}

// FindAll returns matching products, price-sorted when requested.
func (r *MongoProductRepository) FindAll(filter ProductFilter, order ProductSort, skip, limit int64) ([]models.Product, error) {
	ctx, cancel := opCtx()
	defer cancel()

	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	switch order {
	case SortPriceAsc:
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case SortPriceDesc:
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	}

	cursor, err := r.collection.Find(ctx, productFilterQuery(filter), opts)
	if err != nil {
		return nil, storeErr("find products", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeErr("decode product", err)
		}
		products = append(products, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate products", err)
	}
	return products, nil
}

func (r *MongoProductRepository) findOne(query bson.M) (*models.Product, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var doc productDoc
	err := r.collection.FindOne(ctx, query).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("find product", err)
	}
	product := doc.toModel()
	return &product, nil
}

// FindByID returns a product by its ID. An id that is not valid ObjectID
// hex cannot match any document, so it reports not found.
func (r *MongoProductRepository) FindByID(id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(bson.M{"_id": oid})
}

// FindByCode returns a product by its unique code.
func (r *MongoProductRepository) FindByCode(code string) (*models.Product, error) {
	return r.findOne(bson.M{"code": code})
}

// Insert stores a new product, generating an ObjectID when no id is set.
func (r *MongoProductRepository) Insert(product *models.Product) error {
	ctx, cancel := opCtx()
	defer cancel()

	doc := productDoc{
		Title:       product.Title,
		Description: product.Description,
		Code:        product.Code,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Status:      product.Status,
		Thumbnails:  toThumbnailDocs(product.Thumbnails),
	}
	if product.ID == "" {
		doc.ID = primitive.NewObjectID()
	} else {
		oid, err := primitive.ObjectIDFromHex(product.ID)
		if err != nil {
			return storeErr("insert product", err)
		}
		doc.ID = oid
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return storeErr("insert product", err)
	}
	product.ID = doc.ID.Hex()
	return nil
}

// UpdateByID applies the supplied fields of patch with $set and returns
// the document as updated.
func (r *MongoProductRepository) UpdateByID(id string, patch models.UpdateProductRequest) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Thumbnails != nil {
		set["thumbnails"] = toThumbnailDocs(patch.Thumbnails)
	}
	if len(set) == 0 {
		return r.findOne(bson.M{"_id": oid})
	}

	ctx, cancel := opCtx()
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, storeErr("update product", err)
	}
	product := doc.toModel()
	return &product, nil
}

// DeleteByID removes a product, reporting whether a document existed.
func (r *MongoProductRepository) DeleteByID(id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := opCtx()
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, storeErr("delete product", err)
	}
	return res.DeletedCount > 0, nil
}

// Count returns the number of products matching filter.
func (r *MongoProductRepository) Count(filter ProductFilter) (int64, error) {
	ctx, cancel := opCtx()
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, productFilterQuery(filter))
	if err != nil {
		return 0, storeErr("count products", err)
	}
	return n, nil
}
