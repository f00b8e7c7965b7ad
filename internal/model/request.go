package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// GroundDonate is a contact record from someone offering land to the
// community garden. It is reviewed by managers out of band.
type GroundDonate struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Cellphone     string             `bson:"cellphone" json:"cellphone"`
	BirthDate     Date               `bson:"birth_date" json:"birth_date"`
	Address       string             `bson:"address" json:"address"`
	GroundAddress string             `bson:"ground_address" json:"ground_address"`
}

// VoluntaryRequest is a contact record from someone asking to
// volunteer. Approval turns it into a People + Voluntary pair.
type VoluntaryRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Cellphone string             `bson:"cellphone" json:"cellphone"`
	BirthDate Date               `bson:"birth_date" json:"birth_date"`
	Address   string             `bson:"address" json:"address"`
}
