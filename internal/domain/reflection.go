package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionRating is the qualitative verdict on a completed session.
type SessionRating string

const (
	RatingStrong SessionRating = "strong"
	RatingNormal SessionRating = "normal"
	RatingOff    SessionRating = "off"
)

// IsValid reports whether the rating is one of the known values.
func (r SessionRating) IsValid() bool {
	switch r {
	case RatingStrong, RatingNormal, RatingOff:
		return true
	}
	return false
}

// WorkoutReflection is the one-to-one post-session review of a GymSession.
// The volume figures are computed once at creation; only the qualitative
// fields may change afterwards.
type WorkoutReflection struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	GymSessionID     primitive.ObjectID `bson:"gymSessionId" json:"gymSessionId"` // unique
	PlannedVolumeKg  *float64           `bson:"plannedVolumeKg,omitempty" json:"plannedVolumeKg,omitempty"`
	ExecutedVolumeKg float64            `bson:"executedVolumeKg" json:"executedVolumeKg"`
	VolumeDeltaPct   *float64           `bson:"volumeDeltaPct,omitempty" json:"volumeDeltaPct,omitempty"`
	SessionRating    SessionRating      `bson:"sessionRating" json:"sessionRating"`
	ReflectionNote   string             `bson:"reflectionNote,omitempty" json:"reflectionNote,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
