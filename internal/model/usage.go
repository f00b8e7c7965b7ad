package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// VoluntaryUsingSeed records a volunteer checking seed stock out for
// their bed. The ground/bed pair is copied from the voluntary so usage
// can be filtered without joins. An open usage (nil end_at) blocks a
// second checkout of the same seed by the same voluntary.
type VoluntaryUsingSeed struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VoluntaryID primitive.ObjectID `bson:"voluntary_id" json:"voluntary_id"`
	GroundID    primitive.ObjectID `bson:"ground_id" json:"ground_id"`
	BedLabel    string             `bson:"bed_label" json:"bed_label"`
	SeedID      primitive.ObjectID `bson:"seed_id" json:"seed_id"`
	StartAt     Date               `bson:"start_at" json:"start_at"`
	EndAt       *Date              `bson:"end_at" json:"end_at"`
}

// VoluntaryUsingTool records a volunteer borrowing a tool. Same open
// usage rule as seed checkouts.
type VoluntaryUsingTool struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VoluntaryID primitive.ObjectID `bson:"voluntary_id" json:"voluntary_id"`
	GroundID    primitive.ObjectID `bson:"ground_id" json:"ground_id"`
	BedLabel    string             `bson:"bed_label" json:"bed_label"`
	ToolID      primitive.ObjectID `bson:"tool_id" json:"tool_id"`
	StartAt     Date               `bson:"start_at" json:"start_at"`
	EndAt       *Date              `bson:"end_at" json:"end_at"`
}
