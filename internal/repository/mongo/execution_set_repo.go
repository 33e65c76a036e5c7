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

const executionSetCollectionName = "execution_sets"

// mongoExecutionSetRepository implements repository.ExecutionSetRepository.
// Sets are append-only; there are no update or delete methods.
type mongoExecutionSetRepository struct {
	collection *mongo.Collection
}

// NewMongoExecutionSetRepository creates a new ExecutionSet repository.
func NewMongoExecutionSetRepository(db *mongo.Database) repository.ExecutionSetRepository {
	return &mongoExecutionSetRepository{
		collection: db.Collection(executionSetCollectionName),
	}
}

// Create inserts a logged set. The unique (exercise, setNumber) index rejects
// a duplicate number should two writers ever be handed the same one.
func (r *mongoExecutionSetRepository) Create(ctx context.Context, set *domain.ExecutionSet) (primitive.ObjectID, error) {
	if set.ExecutionExerciseID == primitive.NilObjectID || set.SetNumber < 1 {
		return primitive.NilObjectID, errors.New("execution set requires executionExerciseId and a positive setNumber")
	}
	set.ID = primitive.NewObjectID()
	set.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, set)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted set ID")
	}
	return insertedID, nil
}

// GetByExerciseID retrieves all sets of one exercise in set-number order.
func (r *mongoExecutionSetRepository) GetByExerciseID(ctx context.Context, exerciseID primitive.ObjectID) ([]domain.ExecutionSet, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "setNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"executionExerciseId": exerciseID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sets []domain.ExecutionSet
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// GetBySessionID retrieves every set of every exercise in the session, via
// the denormalized gymSessionId.
func (r *mongoExecutionSetRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionSet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"gymSessionId": sessionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sets []domain.ExecutionSet
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// EnsureExecutionSetIndexes creates necessary indexes. Call during startup.
func EnsureExecutionSetIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "executionExerciseId", Value: 1}, {Key: "setNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "gymSessionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
