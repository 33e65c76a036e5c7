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

const sessionCollectionName = "gym_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new GymSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.GymSession) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires userId")
	}
	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GymSession, error) {
	var session domain.GymSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByUserID retrieves the user's sessions, newest first.
func (r *mongoSessionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.GymSession, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.GymSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateStatus compare-and-swaps the session status. The filter matches only
// the allowed prior statuses, so two racing transitions cannot both win.
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, to domain.SessionStatus) error {
	return r.casUpdate(ctx, id, from, bson.M{"status": to})
}

// Complete performs the terminal completion write: status, endedAt, duration,
// and total volume in one atomic update.
func (r *mongoSessionRepository) Complete(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time, durationSec int64, volumeKg float64) error {
	return r.casUpdate(ctx, id, from, bson.M{
		"status":           domain.SessionStatusCompleted,
		"endedAt":          endedAt,
		"totalDurationSec": durationSec,
		"totalVolumeKg":    volumeKg,
	})
}

// Abandon performs the terminal abandonment write. No volume is computed.
func (r *mongoSessionRepository) Abandon(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, endedAt time.Time) error {
	return r.casUpdate(ctx, id, from, bson.M{
		"status":  domain.SessionStatusAbandoned,
		"endedAt": endedAt,
	})
}

func (r *mongoSessionRepository) casUpdate(ctx context.Context, id primitive.ObjectID, from []domain.SessionStatus, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
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

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "scheduledWorkoutId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
