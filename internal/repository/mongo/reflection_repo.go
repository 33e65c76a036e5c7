package mongo

import (
	"context"
	"errors"
	"time"

	"lifehub/training-core/internal/domain"
	"lifehub/training-core/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reflectionCollectionName = "workout_reflections"

// mongoReflectionRepository implements repository.ReflectionRepository
type mongoReflectionRepository struct {
	collection *mongo.Collection
}

// NewMongoReflectionRepository creates a new WorkoutReflection repository.
func NewMongoReflectionRepository(db *mongo.Database) repository.ReflectionRepository {
	return &mongoReflectionRepository{
		collection: db.Collection(reflectionCollectionName),
	}
}

// Create inserts a reflection. The unique gymSessionId index enforces the
// one-per-session rule; a duplicate surfaces as ErrConflict.
func (r *mongoReflectionRepository) Create(ctx context.Context, reflection *domain.WorkoutReflection) (primitive.ObjectID, error) {
	if reflection.GymSessionID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("reflection requires gymSessionId")
	}
	reflection.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	reflection.CreatedAt = now
	reflection.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, reflection)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted reflection ID")
	}
	return insertedID, nil
}

// GetBySessionID retrieves the reflection for a session.
func (r *mongoReflectionRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) (*domain.WorkoutReflection, error) {
	var reflection domain.WorkoutReflection
	err := r.collection.FindOne(ctx, bson.M{"gymSessionId": sessionID}).Decode(&reflection)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reflection, nil
}

// UpdateQualitative patches rating and/or note. The volume figures are never
// touched here.
func (r *mongoReflectionRepository) UpdateQualitative(ctx context.Context, sessionID primitive.ObjectID, rating *domain.SessionRating, note *string) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if rating != nil {
		set["sessionRating"] = *rating
	}
	if note != nil {
		set["reflectionNote"] = *note
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"gymSessionId": sessionID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureReflectionIndexes creates necessary indexes. Call during startup.
func EnsureReflectionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gymSessionId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
