package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	resumeCollection = "resumes"

	codeNamespaceExists = 48
)

// MongoDatabase returns the configured database handle.
func MongoDatabase() (*mongo.Database, error) {
	if MongoClient == nil {
		return nil, errors.New("MongoClient is nil; call InitMongo() first")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "roastcv"
	}
	return MongoClient.Database(dbName), nil
}

// ResumeValidator mirrors ResumeRecord.Validate as a server-side $jsonSchema.
func ResumeValidator() bson.M {
	str := bson.M{"bsonType": "string", "minLength": 1}
	strList := bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}}
	nullableStr := bson.M{"bsonType": bson.A{"string", "null"}}

	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"resumeId", "fileInfo", "analysis", "preferences", "timestamps"},
		"properties": bson.M{
			"resumeId": str,
			"fileInfo": bson.M{
				"bsonType": "object",
				"required": bson.A{"fileName", "originalFileName", "mimeType"},
				"properties": bson.M{
					"fileName":         str,
					"originalFileName": str,
					"mimeType":         str,
					"fileSize":         bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
					"fileHash":         bson.M{"bsonType": "string"},
				},
			},
			"extractedInfo": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"professionalSummary": nullableStr,
					"awards":              strList,
					"volunteerWork":       strList,
					"interests":           strList,
				},
			},
			"analysis": bson.M{
				"bsonType": "object",
				"required": bson.A{"overallScore", "feedback"},
				"properties": bson.M{
					"overallScore": bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0, "maximum": 100},
					"feedback":     str,
					"strengths":    strList,
					"weaknesses":   strList,
					"improvements": bson.M{
						"bsonType": "array",
						"items": bson.M{
							"bsonType": "object",
							"properties": bson.M{
								"priority": bson.M{"enum": bson.A{"low", "medium", "high"}},
							},
						},
					},
				},
			},
			"preferences": bson.M{
				"bsonType": "object",
				"required": bson.A{"roastLevel", "language"},
				"properties": bson.M{
					"roastLevel": str,
					"language":   str,
				},
			},
			"timestamps": bson.M{
				"bsonType": "object",
				"required": bson.A{"uploadedAt"},
				"properties": bson.M{
					"uploadedAt": bson.M{"bsonType": "date"},
					"analyzedAt": bson.M{"bsonType": "date"},
					"updatedAt":  bson.M{"bsonType": "date"},
				},
			},
			"metadata": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"userAgent":      bson.M{"bsonType": "string", "maxLength": 200},
					"processingTime": bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				},
			},
		},
	}}
}

func resumeIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "resumeId", Value: 1}},
			Options: options.Index().
				SetName("uniq_resume_id").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "timestamps.uploadedAt", Value: -1}},
			Options: options.Index().SetName("by_uploaded_at"),
		},
		{
			Keys:    bson.D{{Key: "analysis.overallScore", Value: -1}},
			Options: options.Index().SetName("by_overall_score"),
		},
		{
			Keys:    bson.D{{Key: "preferences.roastLevel", Value: 1}},
			Options: options.Index().SetName("by_roast_level"),
		},
		{
			Keys:    bson.D{{Key: "metadata.clientIP", Value: 1}},
			Options: options.Index().SetName("by_client_ip"),
		},
	}
}

// EnsureMongoIndexes creates the resumes collection with its validator (or
// updates the validator when the collection exists) and its indexes.
func EnsureMongoIndexes() error {
	db, err := MongoDatabase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = db.CreateCollection(ctx, resumeCollection,
		options.CreateCollection().
			SetValidator(ResumeValidator()).
			SetValidationLevel("strict").
			SetValidationAction("error"),
	)
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == codeNamespaceExists {
		err = db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: resumeCollection},
			{Key: "validator", Value: ResumeValidator()},
			{Key: "validationLevel", Value: "strict"},
		}).Err()
	}
	if err != nil {
		return err
	}

	_, err = db.Collection(resumeCollection).Indexes().CreateMany(ctx, resumeIndexes())
	return err
}
