// AngelaMos | 2026
// repository_mongo.go

package inquiry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alwaysdemon/storefront/internal/core"
)

const (
	mongoCollection = "inquiries"
	mongoCounters   = "counters"
	mongoCounterID  = "inquiries"
)

// mongoInquiry carries a monotonically increasing seq so insertion order
// survives equal timestamps.
type mongoInquiry struct {
	ID           string    `bson:"_id"`
	Seq          int64     `bson:"seq"`
	ProductID    string    `bson:"productId"`
	ProductName  string    `bson:"productName"`
	Platform     string    `bson:"platform"`
	CustomerName string    `bson:"customerName"`
	CreatedAt    time.Time `bson:"timestamp"`
}

func (d *mongoInquiry) toInquiry() Inquiry {
	return Inquiry{
		ID:           d.ID,
		ProductID:    d.ProductID,
		ProductName:  d.ProductName,
		Platform:     d.Platform,
		CustomerName: d.CustomerName,
		CreatedAt:    d.CreatedAt,
	}
}

type mongoRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		coll:     db.Collection(mongoCollection),
		counters: db.Collection(mongoCounters),
	}
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(mongoCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "seq", Value: -1}},
			Options: options.Index().SetName("seq_desc").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "platform", Value: 1}},
			Options: options.Index().SetName("platform"),
		},
	})
	if err != nil {
		return fmt.Errorf("create inquiry indexes: %w", err)
	}
	return nil
}

func (r *mongoRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": mongoCounterID},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next inquiry seq: %w", err)
	}

	return counter.Value, nil
}

// Create inserts then trims everything older than the maxEntries-th newest
// seq. Concurrent creates may briefly leave more than maxEntries rows until
// the next trim runs.
func (r *mongoRepository) Create(
	ctx context.Context,
	inq *Inquiry,
	maxEntries int,
) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}

	doc := mongoInquiry{
		ID:           inq.ID,
		Seq:          seq,
		ProductID:    inq.ProductID,
		ProductName:  inq.ProductName,
		Platform:     inq.Platform,
		CustomerName: inq.CustomerName,
		CreatedAt:    inq.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}

	if err := r.trim(ctx, maxEntries); err != nil {
		return fmt.Errorf("create inquiry: %w", err)
	}

	return nil
}

func (r *mongoRepository) trim(ctx context.Context, maxEntries int) error {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetSkip(int64(maxEntries - 1)).
		SetProjection(bson.M{"seq": 1})

	var cutoff struct {
		Seq int64 `bson:"seq"`
	}

	err := r.coll.FindOne(ctx, bson.M{}, opts).Decode(&cutoff)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find trim cutoff: %w", err)
	}

	if _, err := r.coll.DeleteMany(ctx, bson.M{"seq": bson.M{"$lt": cutoff.Seq}}); err != nil {
		return fmt.Errorf("trim inquiries: %w", err)
	}

	return nil
}

func (r *mongoRepository) List(ctx context.Context) ([]Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	var docs []mongoInquiry
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	inquiries := make([]Inquiry, 0, len(docs))
	for i := range docs {
		inquiries = append(inquiries, docs[i].toInquiry())
	}

	return inquiries, nil
}

func (r *mongoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete inquiry: %w", core.ErrNotFound)
	}
	return nil
}

func (r *mongoRepository) Clear(ctx context.Context) (int, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("clear inquiries: %w", err)
	}
	return int(result.DeletedCount), nil
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return int(n), nil
}

func (r *mongoRepository) CountByPlatform(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$platform"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count inquiries by platform: %w", err)
	}

	var rows []struct {
		Platform string `bson:"_id"`
		Total    int    `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("count inquiries by platform: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Total
	}
	return counts, nil
}
