package infra_mongo_movie

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	infra_mongo_init "github.com/humanbelnik/kinoreview/internal/infra/mongo/init"
	"github.com/humanbelnik/kinoreview/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// maxAggregateAttempts bounds optimistic retries of a single recompute.
const maxAggregateAttempts = 8

var ErrAggregateContention = errors.New("aggregate update lost too many races")

type Repository struct {
	movies  *mongo.Collection
	reviews *mongo.Collection
}

func New(db *mongo.Database) *Repository {
	return &Repository{
		movies:  db.Collection(infra_mongo_init.MoviesCollection),
		reviews: db.Collection(infra_mongo_init.ReviewsCollection),
	}
}

func (r *Repository) Store(ctx context.Context, m model.Movie) error {
	doc, err := FromDomain(m)
	if err != nil {
		return fmt.Errorf("%w: %s", err, m.ID)
	}

	if _, err := r.movies.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: movie with external id %q", model.ErrConflict, m.ExternalID)
		}
		return fmt.Errorf("failed to store movie: %w", err)
	}
	return nil
}

func (r *Repository) LoadByID(ctx context.Context, id string) (model.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.Movie{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, id)
	}
	return r.loadOne(ctx, bson.M{"_id": oid}, id)
}

func (r *Repository) LoadByExternalID(ctx context.Context, externalID string) (model.Movie, error) {
	return r.loadOne(ctx, bson.M{"external_id": externalID}, externalID)
}

func (r *Repository) loadOne(ctx context.Context, filter bson.M, key string) (model.Movie, error) {
	var doc MovieDoc
	if err := r.movies.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Movie{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, key)
		}
		return model.Movie{}, fmt.Errorf("failed to load movie: %w", err)
	}
	return doc.ToDomain(), nil
}

// ListFilter builds the catalog filter: a case-insensitive substring match on
// title or description, or everything when search is empty.
func ListFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
}

func (r *Repository) List(ctx context.Context, q model.CatalogQuery) ([]model.Movie, int, error) {
	filter := ListFilter(q.Search)

	total, err := r.movies.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if total == 0 {
		return []model.Movie{}, 0, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((q.Page - 1) * q.PageSize)).
		SetLimit(int64(q.PageSize))

	cursor, err := r.movies.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query movies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []MovieDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode movies: %w", err)
	}

	movies := make([]model.Movie, len(docs))
	for i := range docs {
		movies[i] = docs[i].ToDomain()
	}
	return movies, int(total), nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.movies.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return int(n), nil
}

// UpdateContent never touches the rating aggregate.
func (r *Repository) UpdateContent(ctx context.Context, m model.Movie) error {
	doc, err := FromDomain(m)
	if err != nil {
		return fmt.Errorf("%w: movie %s", model.ErrNotFound, m.ID)
	}

	update := bson.M{
		"$set": bson.M{
			"title":       doc.Title,
			"description": doc.Description,
			"genres":      doc.Genres,
			"poster_url":  doc.PosterURL,
		},
	}
	set := update["$set"].(bson.M)
	unset := bson.M{}
	if doc.ExternalID != "" {
		set["external_id"] = doc.ExternalID
	} else {
		unset["external_id"] = ""
	}
	if doc.ReleaseYear != nil {
		set["release_year"] = *doc.ReleaseYear
	} else {
		unset["release_year"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.movies.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: movie with external id %q", model.ErrConflict, m.ExternalID)
		}
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: movie %s", model.ErrNotFound, m.ID)
	}
	return nil
}

func (r *Repository) SetPoster(ctx context.Context, id string, url string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: movie %s", model.ErrNotFound, id)
	}

	res, err := r.movies.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"poster_url": url}})
	if err != nil {
		return fmt.Errorf("failed to set poster: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: movie %s", model.ErrNotFound, id)
	}
	return nil
}

// UpdateAggregate reads the movie version before the ratings and writes only
// if the version is unchanged, so the last successful writer always saw every
// review inserted before it started.
func (r *Repository) UpdateAggregate(
	ctx context.Context,
	movieID string,
	compute func(ratings []int) model.RatingAggregate,
) (model.RatingAggregate, error) {
	oid, err := bson.ObjectIDFromHex(movieID)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, movieID)
	}

	for attempt := 0; attempt < maxAggregateAttempts; attempt++ {
		var doc MovieDoc
		err := r.movies.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return model.RatingAggregate{}, fmt.Errorf("%w: movie %s", model.ErrNotFound, movieID)
			}
			return model.RatingAggregate{}, fmt.Errorf("failed to load movie: %w", err)
		}

		ratings, err := r.linkedRatings(ctx, oid, doc.ExternalID)
		if err != nil {
			return model.RatingAggregate{}, err
		}

		agg := compute(ratings)

		res, err := r.movies.UpdateOne(ctx,
			VersionFilter(oid, doc.AggregateVersion),
			bson.M{
				"$set": bson.M{"average_rating": agg.Average, "review_count": agg.Count},
				"$inc": bson.M{"aggregate_version": 1},
			},
		)
		if err != nil {
			return model.RatingAggregate{}, fmt.Errorf("failed to update aggregate: %w", err)
		}
		if res.MatchedCount == 1 {
			return agg, nil
		}
	}

	return model.RatingAggregate{}, fmt.Errorf("%w: movie %s", ErrAggregateContention, movieID)
}

// VersionFilter matches the movie at the given aggregate version. Documents
// written without the field decode as version 0 and must match too.
func VersionFilter(oid bson.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": oid, "aggregate_version": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": oid, "aggregate_version": version}
}

func (r *Repository) linkedRatings(ctx context.Context, oid bson.ObjectID, externalID string) ([]int, error) {
	or := bson.A{bson.M{"movie_id": oid}}
	if externalID != "" {
		or = append(or, bson.M{"external_movie_id": externalID})
	}

	cursor, err := r.reviews.Find(ctx, bson.M{"$or": or},
		options.Find().SetProjection(bson.M{"rating": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Rating int `bson:"rating"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	ratings := make([]int, len(rows))
	for i, row := range rows {
		ratings[i] = row.Rating
	}
	return ratings, nil
}
