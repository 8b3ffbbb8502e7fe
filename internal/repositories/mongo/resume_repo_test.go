package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/roastcv/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClampLimit(t *testing.T) {
	cases := []struct {
		in, want int64
	}{
		{0, defaultListLimit},
		{-3, defaultListLimit},
		{10, 10},
		{maxListLimit + 1, maxListLimit},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, clampLimit(c.in), "limit %d", c.in)
	}
}

func TestSummaryProjectionHidesObjectID(t *testing.T) {
	p := summaryProjection()
	assert.Equal(t, 0, p["_id"])
	for _, k := range []string{
		"resumeId",
		"fileInfo.originalFileName",
		"analysis.overallScore",
		"timestamps.uploadedAt",
		"extractedInfo.personalInfo.name",
	} {
		assert.Equal(t, 1, p[k], k)
	}
}

func TestUploadedSinceFilterUsesUTC(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	since := time.Date(2024, 5, 1, 10, 0, 0, 0, loc)

	f := uploadedSinceFilter(since)
	cond, ok := f["timestamps.uploadedAt"].(bson.M)
	require.True(t, ok)

	got := cond["$gte"].(time.Time)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(since))
}

func TestScorePipelineStages(t *testing.T) {
	p := scorePipeline()
	require.Len(t, p, 2)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, "$group", p[1][0].Key)

	group := p[1][0].Value.(bson.M)
	assert.Nil(t, group["_id"])
	assert.Equal(t, bson.M{"$avg": "$analysis.overallScore"}, group["avgScore"])
	assert.Equal(t, bson.M{"$sum": 1}, group["count"])
}

func TestClassifyWriteError(t *testing.T) {
	assert.NoError(t, classifyWriteError(nil))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, classifyWriteError(dup), utils.ErrDuplicate)

	rejected := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "Document failed validation"}}}
	assert.ErrorIs(t, classifyWriteError(rejected), utils.ErrSchemaRejected)

	other := errors.New("connection reset")
	assert.Equal(t, other, classifyWriteError(other))
}

func TestLegacyFilterBranches(t *testing.T) {
	or, ok := legacyFilter()["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 4)
	assert.Equal(t, bson.M{"resumeId": bson.M{"$exists": false}}, or[0])
	assert.Equal(t, bson.M{"analysis.overallScore": bson.M{"$exists": false}}, or[3])
}
