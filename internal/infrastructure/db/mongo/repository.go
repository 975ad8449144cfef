package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/printmanage/console/internal/core/domain"
)

const collectionCounters = "counters"

// nextID allocates the next numeric id of a collection.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := db.Collection(collectionCounters).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).
		Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// uniqueField names the field guarded by a unique index and the message
// returned when an insert or update collides with it.
type uniqueField struct {
	Field   string
	Message string
}

// repository implements ports.Collection for one collection keyed by a
// numeric _id.
type repository[T domain.Entity] struct {
	db     *mongo.Database
	col    *mongo.Collection
	name   string
	setID  func(*T, int64)
	unique *uniqueField
	guard  func(ctx context.Context) error
}

func newRepository[T domain.Entity](db *mongo.Database, name string, setID func(*T, int64), guard func(context.Context) error) *repository[T] {
	return &repository[T]{db: db, col: db.Collection(name), name: name, setID: setID, guard: guard}
}

func (r *repository[T]) check(ctx context.Context) error {
	if r.guard == nil {
		return nil
	}
	return r.guard(ctx)
}

func (r *repository[T]) List(ctx context.Context) ([]T, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	items := []T{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.name, err)
	}
	return items, nil
}

func (r *repository[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	if err := r.check(ctx); err != nil {
		return item, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return item, domain.ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("get %s %d: %w", r.name, id, err)
	}
	return item, nil
}

func (r *repository[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := r.check(ctx); err != nil {
		return zero, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, r.name)
	if err != nil {
		return zero, err
	}
	r.setID(&item, id)
	if _, err := r.col.InsertOne(ctx, item); err != nil {
		return zero, r.writeError("insert", err)
	}
	return item, nil
}

func (r *repository[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var zero T
	if err := r.check(ctx); err != nil {
		return zero, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	r.setID(&item, id)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, item)
	if err != nil {
		return zero, r.writeError("update", err)
	}
	if res.MatchedCount == 0 {
		return zero, domain.ErrNotFound
	}
	return item, nil
}

func (r *repository[T]) Delete(ctx context.Context, id int64) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.name, id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// writeError turns a unique index violation into a field validation error.
func (r *repository[T]) writeError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) && r.unique != nil {
		return domain.NewValidationError(r.unique.Field, r.unique.Message)
	}
	return fmt.Errorf("%s %s: %w", op, r.name, err)
}
