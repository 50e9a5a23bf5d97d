package infra_mongo_user

import (
	"context"
	"errors"
	"fmt"
	"time"

	infra_mongo_init "github.com/humanbelnik/kinoreview/internal/infra/mongo/init"
	"github.com/humanbelnik/kinoreview/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	Name         string        `bson:"name"`
	Email        string        `bson:"email"`
	PasswordHash []byte        `bson:"password_hash"`
	IsAdmin      bool          `bson:"is_admin"`
	Watchlist    []string      `bson:"watchlist"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func (u *UserDoc) ToDomain() model.User {
	watchlist := u.Watchlist
	if watchlist == nil {
		watchlist = []string{}
	}
	return model.User{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Watchlist:    watchlist,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

type Repository struct {
	users *mongo.Collection
}

func New(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(infra_mongo_init.UsersCollection)}
}

func (r *Repository) Create(ctx context.Context, u model.User) error {
	oid, err := bson.ObjectIDFromHex(u.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidNativeID, u.ID)
	}

	doc := UserDoc{
		ID:           oid,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		Watchlist:    u.Watchlist,
		CreatedAt:    u.CreatedAt,
	}
	if doc.Watchlist == nil {
		doc.Watchlist = []string{}
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: user %s", model.ErrConflict, u.Email)
		}
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (r *Repository) LoadByEmail(ctx context.Context, email string) (model.User, error) {
	return r.loadOne(ctx, bson.M{"email": email}, email)
}

func (r *Repository) LoadByID(ctx context.Context, id string) (model.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}
	return r.loadOne(ctx, bson.M{"_id": oid}, id)
}

func (r *Repository) loadOne(ctx context.Context, filter bson.M, key string) (model.User, error) {
	var doc UserDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, key)
		}
		return model.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return doc.ToDomain(), nil
}
