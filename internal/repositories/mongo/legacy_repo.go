package mongo

import (
	"context"

	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LegacyRepository reads documents written before the canonical record
// shape and replaces them in place.
type LegacyRepository interface {
	EachLegacy(ctx context.Context, fn func(raw bson.Raw) error) error
	Replace(ctx context.Context, id primitive.ObjectID, rec *models.ResumeRecord) error
}

type legacyRepo struct {
	col *mongo.Collection
}

func NewLegacyRepo(db *mongo.Database) LegacyRepository {
	return &legacyRepo{col: db.Collection(ResumeCollection)}
}

// legacyFilter matches documents missing any canonical top-level section.
func legacyFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"resumeId": bson.M{"$exists": false}},
		bson.M{"fileInfo": bson.M{"$exists": false}},
		bson.M{"extractedInfo.personalInfo": bson.M{"$exists": false}},
		bson.M{"analysis.overallScore": bson.M{"$exists": false}},
	}}
}

// EachLegacy streams matching documents to fn and stops at its first error.
func (r *legacyRepo) EachLegacy(ctx context.Context, fn func(raw bson.Raw) error) error {
	cur, err := r.col.Find(ctx, legacyFilter(), options.Find().SetBatchSize(100))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		if err := fn(cur.Current); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (r *legacyRepo) Replace(ctx context.Context, id primitive.ObjectID, rec *models.ResumeRecord) error {
	rec.ID = id
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, rec)
	if err != nil {
		return classifyWriteError(err)
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

