// AngelaMos | 2026
// repository_mongo.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alwaysdemon/storefront/internal/core"
)

const (
	mongoCollection     = "users"
	mongoUsernameIndex  = "username_lower_unique"
	mongoEmailIndex     = "email_unique"
	mongoTokenHashIndex = "token_hash_unique"
	mongoCreatedAtIndex = "created_at_desc"
)

// mongoUser carries a lower-cased username so the unique index enforces
// case-insensitive uniqueness. Emails are stored lower-cased already.
type mongoUser struct {
	ID            string    `bson:"_id"`
	Username      string    `bson:"username"`
	UsernameLower string    `bson:"usernameLower"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password"`
	Role          string    `bson:"role"`
	TokenHash     *string   `bson:"tokenHash,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
}

func (d *mongoUser) toUser() *User {
	return &User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		TokenHash:    d.TokenHash,
		CreatedAt:    d.CreatedAt,
	}
}

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{coll: db.Collection(mongoCollection)}
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(mongoCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "usernameLower", Value: 1}},
			Options: options.Index().SetName(mongoUsernameIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(mongoEmailIndex).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tokenHash", Value: 1}},
			Options: options.Index().
				SetName(mongoTokenHashIndex).
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName(mongoCreatedAtIndex),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *mongoRepository) Create(ctx context.Context, user *User) error {
	doc := mongoUser{
		ID:            user.ID,
		Username:      user.Username,
		UsernameLower: strings.ToLower(user.Username),
		Email:         strings.ToLower(user.Email),
		PasswordHash:  user.PasswordHash,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if dup := mongoDuplicateKeyError(err); dup != nil {
			return fmt.Errorf("create user: %w", dup)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "get user", bson.M{"_id": id})
}

func (r *mongoRepository) GetByLogin(
	ctx context.Context,
	login string,
) (*User, error) {
	lower := strings.ToLower(login)

	u, err := r.findOne(ctx, "get user by login", bson.M{"usernameLower": lower})
	if err == nil || !errors.Is(err, core.ErrNotFound) {
		return u, err
	}

	return r.findOne(ctx, "get user by login", bson.M{"email": lower})
}

func (r *mongoRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*User, error) {
	return r.findOne(ctx, "get user by token", bson.M{"tokenHash": tokenHash})
}

func (r *mongoRepository) SetTokenHash(
	ctx context.Context,
	id, tokenHash string,
) error {
	return r.updateOne(ctx, "set token hash", id, bson.M{"tokenHash": tokenHash})
}

func (r *mongoRepository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.updateOne(ctx, "update password", id, bson.M{"password": passwordHash})
}

func (r *mongoRepository) List(ctx context.Context) ([]User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []mongoUser
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toUser())
	}

	return users, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

func (r *mongoRepository) findOne(
	ctx context.Context,
	op string,
	filter bson.M,
) (*User, error) {
	var doc mongoUser
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toUser(), nil
}

func (r *mongoRepository) updateOne(
	ctx context.Context,
	op, id string,
	set bson.M,
) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if dup := mongoDuplicateKeyError(err); dup != nil {
			return fmt.Errorf("%s: %w", op, dup)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func mongoDuplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, mongoUsernameIndex):
		return ErrUsernameExists
	case strings.Contains(msg, mongoEmailIndex):
		return ErrEmailExists
	default:
		return core.ErrDuplicateKey
	}
}
