package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStatus type for the lifecycle of a calendar entry.
type ScheduleStatus string

const (
	ScheduleStatusScheduled   ScheduleStatus = "scheduled"
	ScheduleStatusCompleted   ScheduleStatus = "completed"
	ScheduleStatusRescheduled ScheduleStatus = "rescheduled"
)

// ScheduledWorkout places a template on a calendar date.
//
// Rescheduling links entries into a chain: the superseded entry carries
// RescheduledTo and the replacement carries RescheduledFromID pointing back at
// it. Only a `scheduled` entry may be rescheduled, so chains never exceed two
// entries and cannot cycle.
type ScheduledWorkout struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID  `bson:"userId" json:"userId"`
	TemplateID        primitive.ObjectID  `bson:"templateId" json:"templateId"`
	ScheduledDate     time.Time           `bson:"scheduledDate" json:"scheduledDate"` // date only, normalized to UTC midnight
	Status            ScheduleStatus      `bson:"status" json:"status"`
	RescheduledTo     *time.Time          `bson:"rescheduledTo,omitempty" json:"rescheduledTo,omitempty"`
	RescheduledFromID *primitive.ObjectID `bson:"rescheduledFromId,omitempty" json:"rescheduledFromId,omitempty"`
	ProgrammeID       *primitive.ObjectID `bson:"programmeId,omitempty" json:"programmeId,omitempty"` // set when materialized from a programme
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt" json:"updatedAt"`
}
