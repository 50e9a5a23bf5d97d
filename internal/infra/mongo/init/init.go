package infra_mongo_init

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/humanbelnik/kinoreview/internal/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	MoviesCollection  = "movies"
	ReviewsCollection = "reviews"
	UsersCollection   = "users"
)

func MustEstablishConn(cfg config.Mongo) *mongo.Database {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.Database)
	if err := EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}

	return db
}

// EnsureIndexes creates the uniqueness guarantees the repositories rely on.
// Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(MoviesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetName("movies_external_id").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("movies_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create movie indexes: %w", err)
	}

	_, err = db.Collection(ReviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}},
			Options: options.Index().
				SetName("reviews_user_movie").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"user_id":  bson.M{"$exists": true},
					"movie_id": bson.M{"$exists": true},
				}),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "external_movie_id", Value: 1}},
			Options: options.Index().
				SetName("reviews_user_external_movie").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"user_id":           bson.M{"$exists": true},
					"external_movie_id": bson.M{"$exists": true},
				}),
		},
		{
			Keys:    bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("reviews_movie_created_at"),
		},
		{
			Keys:    bson.D{{Key: "external_movie_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("reviews_external_movie_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}

	_, err = db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("users_email").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	return nil
}
