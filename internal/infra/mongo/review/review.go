package infra_mongo_review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	infra_mongo_init "github.com/humanbelnik/kinoreview/internal/infra/mongo/init"
	"github.com/humanbelnik/kinoreview/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ReviewDoc carries exactly one of MovieID and ExternalMovieID.
type ReviewDoc struct {
	ID              string         `bson:"_id"`
	MovieID         *bson.ObjectID `bson:"movie_id,omitempty"`
	ExternalMovieID string         `bson:"external_movie_id,omitempty"`
	UserID          string         `bson:"user_id,omitempty"`
	DisplayName     string         `bson:"display_name"`
	Rating          int            `bson:"rating"`
	Comment         string         `bson:"comment"`
	CreatedAt       time.Time      `bson:"created_at"`
}

func (d *ReviewDoc) ToDomain() (model.Review, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Review{}, fmt.Errorf("bad review id %q: %w", d.ID, err)
	}

	ref := model.NewExternalRef(d.ExternalMovieID)
	if d.MovieID != nil {
		ref, err = model.NewNativeRef(d.MovieID.Hex())
		if err != nil {
			return model.Review{}, err
		}
	}

	return model.Review{
		ID:          id,
		Movie:       ref,
		UserID:      d.UserID,
		DisplayName: d.DisplayName,
		Rating:      d.Rating,
		Comment:     d.Comment,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}

func FromDomain(r model.Review) (ReviewDoc, error) {
	doc := ReviewDoc{
		ID:          r.ID.String(),
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
	if r.Movie.IsNative() {
		oid, err := r.Movie.ObjectID()
		if err != nil {
			return ReviewDoc{}, err
		}
		doc.MovieID = &oid
	} else {
		doc.ExternalMovieID = r.Movie.ID()
	}
	return doc, nil
}

type Repository struct {
	reviews *mongo.Collection
}

func New(db *mongo.Database) *Repository {
	return &Repository{reviews: db.Collection(infra_mongo_init.ReviewsCollection)}
}

func (r *Repository) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	doc, err := FromDomain(rv)
	if err != nil {
		return model.Review{}, fmt.Errorf("failed to store review: %w", err)
	}

	if _, err := r.reviews.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Review{}, fmt.Errorf("%w: %w", model.ErrDuplicateReview, err)
		}
		return model.Review{}, fmt.Errorf("failed to store review: %w", err)
	}

	return doc.ToDomain()
}

// RefsFilter matches reviews stored under any of refs. It returns false when
// refs carries nothing to match.
func RefsFilter(refs []model.MovieRef) (bson.A, bool) {
	var native bson.A
	var external bson.A
	for _, ref := range refs {
		switch ref.Kind() {
		case model.RefNative:
			if oid, err := ref.ObjectID(); err == nil {
				native = append(native, oid)
			}
		case model.RefExternal:
			external = append(external, ref.ID())
		}
	}

	or := bson.A{}
	if len(native) > 0 {
		or = append(or, bson.M{"movie_id": bson.M{"$in": native}})
	}
	if len(external) > 0 {
		or = append(or, bson.M{"external_movie_id": bson.M{"$in": external}})
	}
	return or, len(or) > 0
}

func (r *Repository) ExistsByUser(ctx context.Context, userID string, refs []model.MovieRef) (bool, error) {
	or, ok := RefsFilter(refs)
	if !ok {
		return false, nil
	}

	n, err := r.reviews.CountDocuments(ctx,
		bson.M{"user_id": userID, "$or": or},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListByRef(ctx context.Context, ref model.MovieRef) ([]model.Review, error) {
	var filter bson.M
	if ref.IsNative() {
		oid, err := ref.ObjectID()
		if err != nil {
			return nil, err
		}
		filter = bson.M{"movie_id": oid}
	} else {
		filter = bson.M{"external_movie_id": ref.ID()}
	}

	cursor, err := r.reviews.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []ReviewDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for i := range docs {
		rv, err := docs[i].ToDomain()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.reviews.DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}
