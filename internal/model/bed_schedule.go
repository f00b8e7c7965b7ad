package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// ScheduleInterval is one planned planting period: which seed goes
// into the bed and for which date range. start_at must be strictly
// before end_at.
type ScheduleInterval struct {
	SeedID  primitive.ObjectID `bson:"seed_id" json:"seed_id"`
	StartAt Date               `bson:"start_at" json:"start_at"`
	EndAt   Date               `bson:"end_at" json:"end_at"`
}

// BedSchedules is the ordered planting plan for a single (ground, bed
// label) pair. Intervals are strictly sequential: each one starts no
// earlier than the previous one ends.
//
// CurrentSchedule indexes the active interval; nil means the sequence
// is exhausted and the bed is free. One schedule document corresponds
// to one bed at a time, tracked only through the bed's
// bed_schedules_id back-reference.
type BedSchedules struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroundID        primitive.ObjectID `bson:"ground_id" json:"ground_id"`
	BedLabel        string             `bson:"bed_label" json:"bed_label"`
	Schedules       []ScheduleInterval `bson:"schedules" json:"schedules"`
	CurrentSchedule *int               `bson:"current_schedule" json:"current_schedule"`
}
