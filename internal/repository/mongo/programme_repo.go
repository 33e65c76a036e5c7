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

const programmeCollectionName = "training_programmes"

// mongoProgrammeRepository implements repository.ProgrammeRepository
type mongoProgrammeRepository struct {
	collection *mongo.Collection
}

// NewMongoProgrammeRepository creates a new TrainingProgramme repository.
func NewMongoProgrammeRepository(db *mongo.Database) repository.ProgrammeRepository {
	return &mongoProgrammeRepository{
		collection: db.Collection(programmeCollectionName),
	}
}

// Create inserts a programme with its flattened workout rows embedded, so the
// header and the rows persist as one document.
func (r *mongoProgrammeRepository) Create(ctx context.Context, programme *domain.TrainingProgramme) (primitive.ObjectID, error) {
	if programme.UserID == primitive.NilObjectID || programme.Name == "" {
		return primitive.NilObjectID, errors.New("programme requires userId and name")
	}
	programme.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	programme.CreatedAt = now
	programme.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, programme)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted programme ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single programme.
func (r *mongoProgrammeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingProgramme, error) {
	var programme domain.TrainingProgramme
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&programme)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &programme, nil
}

// GetByUserID retrieves the user's programmes, newest first.
func (r *mongoProgrammeRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingProgramme, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programmes []domain.TrainingProgramme
	if err = cursor.All(ctx, &programmes); err != nil {
		return nil, err
	}
	return programmes, nil
}

// MarkActive compare-and-swaps draft -> active. The filter on status is the
// single-activation guard: a second activation matches nothing and gets
// ErrConflict.
func (r *mongoProgrammeRepository) MarkActive(ctx context.Context, id primitive.ObjectID, activatedAt time.Time) error {
	filter := bson.M{"_id": id, "status": domain.ProgrammeStatusDraft}
	update := bson.M{"$set": bson.M{
		"status":      domain.ProgrammeStatusActive,
		"activatedAt": activatedAt,
		"updatedAt":   time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

// UpdateStatus compare-and-swaps the programme status.
func (r *mongoProgrammeRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.ProgrammeStatus, to domain.ProgrammeStatus, completedAt *time.Time) error {
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	if completedAt != nil {
		set["completedAt"] = *completedAt
	}
	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

// Delete removes the programme record. Templates and schedule entries already
// materialized from it are left alone.
func (r *mongoProgrammeRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgrammeIndexes creates necessary indexes. Call during startup.
func EnsureProgrammeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
