package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mawucano-design/diagnostico-forrajero/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Repository defines the interface for analysis and paddock storage.
type Repository interface {
	SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error
	FindAnalysis(ctx context.Context, id string) (models.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, limit int64) ([]models.AnalysisRecord, error)
	SavePaddock(ctx context.Context, paddock models.Paddock) error
	ListPaddocks(ctx context.Context) ([]models.Paddock, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client       *mongo.Client
	dbName       string
	analysesColl string
	paddocksColl string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:       client,
		dbName:       dbName,
		analysesColl: "analyses",
		paddocksColl: "paddocks",
	}, nil
}

// SaveAnalysis persists one immutable analysis run.
func (r *MongoDBRepository) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) error {
	collection := r.client.Database(r.dbName).Collection(r.analysesColl)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", record.ID, err)
	}
	return nil
}

// FindAnalysis fetches a stored run by id.
func (r *MongoDBRepository) FindAnalysis(ctx context.Context, id string) (models.AnalysisRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.analysesColl)

	var record models.AnalysisRecord
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AnalysisRecord{}, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to fetch analysis %s: %w", id, err)
	}
	return record, nil
}

// ListAnalyses returns the most recent runs, newest first.
func (r *MongoDBRepository) ListAnalyses(ctx context.Context, limit int64) ([]models.AnalysisRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.analysesColl)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.AnalysisRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %w", err)
	}
	return records, nil
}

// SavePaddock registers a paddock for scheduled monitoring.
func (r *MongoDBRepository) SavePaddock(ctx context.Context, paddock models.Paddock) error {
	collection := r.client.Database(r.dbName).Collection(r.paddocksColl)

	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": paddock.ID}, paddock, opts); err != nil {
		return fmt.Errorf("failed to save paddock %s: %w", paddock.ID, err)
	}
	return nil
}

// ListPaddocks returns every monitored paddock.
func (r *MongoDBRepository) ListPaddocks(ctx context.Context) ([]models.Paddock, error) {
	collection := r.client.Database(r.dbName).Collection(r.paddocksColl)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list paddocks: %w", err)
	}
	defer cursor.Close(ctx)

	var paddocks []models.Paddock
	if err := cursor.All(ctx, &paddocks); err != nil {
		return nil, fmt.Errorf("failed to decode paddocks: %w", err)
	}
	return paddocks, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
