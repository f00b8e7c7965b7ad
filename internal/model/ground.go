package model

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BedStatus is the derived state of a bed. It is never persisted;
// it is computed from the free flag and the scheduled end date at
// serialization time.
type BedStatus string

const (
	BedStatusFree     BedStatus = "free"
	BedStatusOccupied BedStatus = "occupied"
	BedStatusComplete BedStatus = "complete"
)

// Bed is a labeled planting unit embedded in a ground document. Beds
// exist only inside their ground; they are created with it and are
// mutated exclusively through the ground repository's UpdateBed.
//
// The seed/schedule/end-date fields mirror the currently active
// interval of the bed's schedule and are kept in sync by the schedule
// engine.
type Bed struct {
	Label             string              `bson:"label" json:"label"`                                     // stable identifier within the ground ("1".."N")
	Active            bool                `bson:"active" json:"active"`                                   // soft-disable flag
	Free              bool                `bson:"free" json:"free"`                                       // true when no schedule occupies the bed
	BedSchedulesID    *primitive.ObjectID `bson:"bed_schedules_id" json:"bed_schedules_id"`               // back-reference to the bed's schedule document
	SeedID            *primitive.ObjectID `bson:"seed_id" json:"seed_id"`                                 // seed of the active interval
	EndAt             *Date               `bson:"end_at" json:"end_at"`                                   // end date of the active interval
	ResponsibleUserID *primitive.ObjectID `bson:"responsible_user_id" json:"responsible_user_id"`         // user answering for the bed, if any
}

// Status derives the bed state: free wins, then a past end date means
// the planting completed, otherwise the bed is occupied.
func (b Bed) Status() BedStatus {
	if b.Free {
		return BedStatusFree
	}
	if b.EndAt != nil && b.EndAt.Before(Today().Time) {
		return BedStatusComplete
	}
	return BedStatusOccupied
}

// MarshalJSON adds the derived status field to the serialized bed.
func (b Bed) MarshalJSON() ([]byte, error) {
	type alias Bed
	return json.Marshal(struct {
		alias
		Status BedStatus `json:"status"`
	}{alias(b), b.Status()})
}

// Ground is a managed plot of land subdivided into beds. The beds
// array is embedded and ordered; bed labels are unique within a
// ground.
type Ground struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Address     string              `bson:"address" json:"address"`
	Width       int                 `bson:"width" json:"width"`
	Length      int                 `bson:"length" json:"length"`
	Description string              `bson:"description" json:"description"`
	OwnerID     *primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	ManagerID   *primitive.ObjectID `bson:"manager_id" json:"manager_id"`
	Active      bool                `bson:"active" json:"active"`
	Beds        []Bed               `bson:"beds" json:"beds"`
	BedsCount   int                 `bson:"-" json:"beds_count"` // derived from len(Beds) on read
}
