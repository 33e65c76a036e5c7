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

const executionExerciseCollectionName = "execution_exercises"

// mongoExecutionExerciseRepository implements repository.ExecutionExerciseRepository
type mongoExecutionExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExecutionExerciseRepository creates a new ExecutionExercise repository.
func NewMongoExecutionExerciseRepository(db *mongo.Database) repository.ExecutionExerciseRepository {
	return &mongoExecutionExerciseRepository{
		collection: db.Collection(executionExerciseCollectionName),
	}
}

// Create inserts a single execution exercise (mid-session addition).
func (r *mongoExecutionExerciseRepository) Create(ctx context.Context, exercise *domain.ExecutionExercise) (primitive.ObjectID, error) {
	if exercise.GymSessionID == primitive.NilObjectID || exercise.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("execution exercise requires gymSessionId and exerciseName")
	}
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted execution exercise ID")
	}
	return insertedID, nil
}

// CreateMany inserts the session-start snapshot batch.
func (r *mongoExecutionExerciseRepository) CreateMany(ctx context.Context, exercises []*domain.ExecutionExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(exercises))
	for i, ex := range exercises {
		ex.ID = primitive.NewObjectID()
		ex.CreatedAt = now
		docs[i] = ex
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single execution exercise.
func (r *mongoExecutionExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExecutionExercise, error) {
	var exercise domain.ExecutionExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetBySessionID retrieves all exercises of a session in sort order.
func (r *mongoExecutionExerciseRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.ExecutionExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gymSessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.ExecutionExercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// MarkSkipped flags the exercise as skipped. Sets already logged stay, and
// further logging remains allowed.
func (r *mongoExecutionExerciseRepository) MarkSkipped(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"wasSkipped": true},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// NextSetNumber atomically increments the exercise's set counter and returns
// the new value. FindOneAndUpdate with $inc is a single document operation,
// so concurrent callers each get a distinct consecutive number.
func (r *mongoExecutionExerciseRepository) NextSetNumber(ctx context.Context, id primitive.ObjectID) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.ExecutionExercise
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"setCount": 1}},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return updated.SetCount, nil
}

// EnsureExecutionExerciseIndexes creates necessary indexes. Call during startup.
func EnsureExecutionExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gymSessionId", Value: 1}, {Key: "sortOrder", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
