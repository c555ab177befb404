// AngelaMos | 2026
// repository_mongo.go

package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alwaysdemon/storefront/internal/core"
)

const mongoCollection = "products"

// mongoProduct stores the price as Decimal128 so sums and sorts on the
// server stay exact.
type mongoProduct struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Image       string               `bson:"image"`
	Category    string               `bson:"category"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   *time.Time           `bson:"updatedAt,omitempty"`
}

func toMongoProduct(p *Product) (mongoProduct, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return mongoProduct{}, err
	}

	return mongoProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Image:       p.Image,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (d *mongoProduct) toProduct() (*Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price: %w", err)
	}

	return &Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Image:       d.Image,
		Category:    d.Category,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode price: %w", err)
	}
	return v, nil
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection(mongoCollection)}
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(mongoCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("created_at_asc"),
	})
	if err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}
	return nil
}

func (r *mongoRepository) List(ctx context.Context) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toProduct()
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, *p)
	}

	return products, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var doc mongoProduct
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return doc.toProduct()
}

func (r *mongoRepository) Create(ctx context.Context, p *Product) error {
	doc, err := toMongoProduct(p)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *mongoRepository) Update(
	ctx context.Context,
	id string,
	patch Patch,
	updatedAt time.Time,
) (*Product, error) {
	set := bson.M{"updatedAt": updatedAt}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		price, err := toDecimal128(*patch.Price)
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		set["price"] = price
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoProduct
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return doc.toProduct()
}

func (r *mongoRepository) Delete(ctx context.Context, id string) (*Product, error) {
	var doc mongoProduct
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	return doc.toProduct()
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return int(n), nil
}

// SeedIfEmpty is best effort: two concurrent seeders may both see an empty
// collection. It only runs from the provisioning command.
func (r *mongoRepository) SeedIfEmpty(
	ctx context.Context,
	items []Product,
) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(items))
	for i := range items {
		doc, err := toMongoProduct(&items[i])
		if err != nil {
			return 0, fmt.Errorf("seed products: %w", err)
		}
		docs = append(docs, doc)
	}

	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	return len(docs), nil
}
