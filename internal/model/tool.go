package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tool is a catalog entry for shared gardening equipment. Names are
// unique; amount counts how many units the garden owns.
type Tool struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Amount      int                `bson:"amount" json:"amount"`
}
