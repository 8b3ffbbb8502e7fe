package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoockh/roastcv/internal/models"
	"github.com/yoockh/roastcv/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ResumeCollection = "resumes"

	codeDocumentValidationFailure = 121
	defaultListLimit              = 50
	maxListLimit                  = 500
)

type ResumeRepository interface {
	Insert(ctx context.Context, r *models.ResumeRecord) error
	GetByResumeID(ctx context.Context, resumeID string) (*models.ResumeRecord, error)
	ListSummaries(ctx context.Context, limit int64) ([]models.ResumeSummary, error)
	Count(ctx context.Context) (int64, error)
	CountUploadedSince(ctx context.Context, since time.Time) (int64, error)
	ScoreSummary(ctx context.Context) (*models.ScoreSummary, error)
	SetProcessingTime(ctx context.Context, resumeID string, processingMS int64, updatedAt time.Time) error
	Delete(ctx context.Context, resumeID string) error
}

type resumeRepo struct {
	col *mongo.Collection
}

func NewResumeRepo(db *mongo.Database) ResumeRepository {
	return &resumeRepo{col: db.Collection(ResumeCollection)}
}

func (r *resumeRepo) Insert(ctx context.Context, rec *models.ResumeRecord) error {
	_, err := r.col.InsertOne(ctx, rec)
	return classifyWriteError(err)
}

// classifyWriteError maps deterministic server rejections onto sentinels so
// callers can tell them apart from transient failures.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", utils.ErrDuplicate, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailure) {
		return fmt.Errorf("%w: %v", utils.ErrSchemaRejected, err)
	}
	return err
}

func (r *resumeRepo) GetByResumeID(ctx context.Context, resumeID string) (*models.ResumeRecord, error) {
	var rec models.ResumeRecord
	err := r.col.FindOne(ctx, bson.M{"resumeId": resumeID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// summaryDoc is the projected shape read by ListSummaries.
type summaryDoc struct {
	ResumeID string `bson:"resumeId"`
	FileInfo struct {
		OriginalFileName string `bson:"originalFileName"`
	} `bson:"fileInfo"`
	Analysis struct {
		OverallScore float64 `bson:"overallScore"`
	} `bson:"analysis"`
	ExtractedInfo struct {
		PersonalInfo struct {
			Name *string `bson:"name"`
		} `bson:"personalInfo"`
	} `bson:"extractedInfo"`
	Timestamps struct {
		UploadedAt time.Time `bson:"uploadedAt"`
	} `bson:"timestamps"`
}

func summaryProjection() bson.M {
	return bson.M{
		"_id":                             0,
		"resumeId":                        1,
		"fileInfo.originalFileName":       1,
		"analysis.overallScore":           1,
		"timestamps.uploadedAt":           1,
		"extractedInfo.personalInfo.name": 1,
	}
}

func clampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}

func (r *resumeRepo) ListSummaries(ctx context.Context, limit int64) ([]models.ResumeSummary, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().
			SetProjection(summaryProjection()).
			SetSort(bson.D{{Key: "timestamps.uploadedAt", Value: -1}}).
			SetLimit(clampLimit(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.ResumeSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.ResumeSummary{
			ResumeID:      d.ResumeID,
			FileName:      d.FileInfo.OriginalFileName,
			OverallScore:  d.Analysis.OverallScore,
			CandidateName: d.ExtractedInfo.PersonalInfo.Name,
			UploadedAt:    d.Timestamps.UploadedAt,
		})
	}
	return out, nil
}

func (r *resumeRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func uploadedSinceFilter(since time.Time) bson.M {
	return bson.M{"timestamps.uploadedAt": bson.M{"$gte": since.UTC()}}
}

func (r *resumeRepo) CountUploadedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, uploadedSinceFilter(since))
}

func scorePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"analysis.overallScore": bson.M{"$exists": true, "$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"avgScore": bson.M{"$avg": "$analysis.overallScore"},
			"maxScore": bson.M{"$max": "$analysis.overallScore"},
			"minScore": bson.M{"$min": "$analysis.overallScore"},
			"count":    bson.M{"$sum": 1},
		}}},
	}
}

func (r *resumeRepo) ScoreSummary(ctx context.Context) (*models.ScoreSummary, error) {
	cur, err := r.col.Aggregate(ctx, scorePipeline())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.ScoreSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.ScoreSummary{}, nil
	}
	return &rows[0], nil
}

func (r *resumeRepo) SetProcessingTime(ctx context.Context, resumeID string, processingMS int64, updatedAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"resumeId": resumeID},
		bson.M{"$set": bson.M{
			"metadata.processingTime": processingMS,
			"timestamps.updatedAt":    updatedAt.UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *resumeRepo) Delete(ctx context.Context, resumeID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"resumeId": resumeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
