package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Voluntary is the assignment of a person to one bed of one ground.
// people_name is denormalized at creation so listings don't need a
// second lookup. A person can hold at most one open assignment per
// (ground, bed) pair.
type Voluntary struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PeopleName    string             `bson:"people_name" json:"people_name"`
	PeopleID      primitive.ObjectID `bson:"people_id" json:"people_id"`
	GroundID      primitive.ObjectID `bson:"ground_id" json:"ground_id"`
	BedLabel      string             `bson:"bed_label" json:"bed_label"`
	IsResponsible bool               `bson:"is_responsible" json:"is_responsible"`
	StartAt       Date               `bson:"start_at" json:"start_at"`
	EndAt         *Date              `bson:"end_at" json:"end_at"`
}
