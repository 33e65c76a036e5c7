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

const scheduleCollectionName = "scheduled_workouts"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new ScheduledWorkout repository.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// Create inserts a new schedule entry.
func (r *mongoScheduleRepository) Create(ctx context.Context, entry *domain.ScheduledWorkout) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID || entry.TemplateID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("schedule entry requires userId and templateId")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted schedule entry ID")
	}
	return insertedID, nil
}

// CreateMany inserts a batch of schedule entries (programme activation).
// Ordered insert: the driver stops at the first failure, which the enclosing
// transaction then rolls back.
func (r *mongoScheduleRepository) CreateMany(ctx context.Context, entries []*domain.ScheduledWorkout) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		entry.ID = primitive.NewObjectID()
		entry.CreatedAt = now
		entry.UpdatedAt = now
		docs[i] = entry
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single schedule entry.
func (r *mongoScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ScheduledWorkout, error) {
	var entry domain.ScheduledWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByUserAndRange retrieves the user's entries with scheduledDate in
// [from, to], date-sorted.
func (r *mongoScheduleRepository) GetByUserAndRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.ScheduledWorkout, error) {
	filter := bson.M{
		"userId":        userID,
		"scheduledDate": bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.ScheduledWorkout
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkRescheduled compare-and-swaps scheduled -> rescheduled and records the
// forward pointer. ErrConflict when the entry is not in `scheduled` status.
func (r *mongoScheduleRepository) MarkRescheduled(ctx context.Context, id primitive.ObjectID, newDate time.Time) error {
	return r.casStatus(ctx, id, bson.M{
		"status":        domain.ScheduleStatusRescheduled,
		"rescheduledTo": newDate,
	})
}

// MarkCompleted compare-and-swaps scheduled -> completed (session cascade).
func (r *mongoScheduleRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	return r.casStatus(ctx, id, bson.M{
		"status": domain.ScheduleStatusCompleted,
	})
}

func (r *mongoScheduleRepository) casStatus(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	filter := bson.M{"_id": id, "status": domain.ScheduleStatusScheduled}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Entry missing or already past `scheduled`; let the caller re-read
		// to tell the two apart.
		return repository.ErrConflict
	}
	return nil
}

// DeleteScheduled removes an entry that is still in `scheduled` status and
// owned by the user.
func (r *mongoScheduleRepository) DeleteScheduled(ctx context.Context, id, userID primitive.ObjectID) error {
	filter := bson.M{
		"_id":    id,
		"userId": userID,
		"status": domain.ScheduleStatusScheduled,
	}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrConflict
	}
	return nil
}

// EnsureScheduleIndexes creates necessary indexes. Call during startup.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programmeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
