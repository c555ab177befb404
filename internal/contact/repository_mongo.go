// AngelaMos | 2026
// repository_mongo.go

package contact

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCollection = "contacts"
	singletonID     = "settings"
)

type mongoSettings struct {
	ID        string     `bson:"_id"`
	WhatsApp  string     `bson:"whatsapp"`
	Instagram string     `bson:"instagram"`
	Telegram  string     `bson:"telegram"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

func (d *mongoSettings) toSettings() *Settings {
	return &Settings{
		WhatsApp:  d.WhatsApp,
		Instagram: d.Instagram,
		Telegram:  d.Telegram,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection(mongoCollection)}
}

func (r *mongoRepository) Init(
	ctx context.Context,
	defaults Settings,
) (*Settings, error) {
	update := bson.M{"$setOnInsert": bson.M{
		"whatsapp":  defaults.WhatsApp,
		"instagram": defaults.Instagram,
		"telegram":  defaults.Telegram,
	}}

	return r.upsert(ctx, "init contact settings", update)
}

// Update sets the supplied fields and seeds only the remaining ones on
// insert, since one field may not appear in both $set and $setOnInsert.
func (r *mongoRepository) Update(
	ctx context.Context,
	patch Patch,
	defaults Settings,
	updatedAt time.Time,
) (*Settings, error) {
	set := bson.M{"updatedAt": updatedAt}
	onInsert := bson.M{}

	assign := func(field string, value *string, fallback string) {
		if value != nil {
			set[field] = *value
			return
		}
		onInsert[field] = fallback
	}
	assign("whatsapp", patch.WhatsApp, defaults.WhatsApp)
	assign("instagram", patch.Instagram, defaults.Instagram)
	assign("telegram", patch.Telegram, defaults.Telegram)

	update := bson.M{"$set": set}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}

	return r.upsert(ctx, "update contact settings", update)
}

func (r *mongoRepository) upsert(
	ctx context.Context,
	op string,
	update bson.M,
) (*Settings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc mongoSettings
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": singletonID}, update, opts).
		Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toSettings(), nil
}
