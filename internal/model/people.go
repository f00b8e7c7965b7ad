package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// People is a registered community member who can volunteer on beds.
// Email addresses are unique and registrants must be adults.
type People struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Cellphone string             `bson:"cellphone" json:"cellphone"`
	BirthDate Date               `bson:"birth_date" json:"birth_date"`
	Address   string             `bson:"address" json:"address"`
}
