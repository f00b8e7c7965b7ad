package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Manager marks the period during which a user manages the garden.
type Manager struct {
	StartAt Date  `bson:"start_at" json:"start_at"`
	EndAt   *Date `bson:"end_at" json:"end_at"`
}

// User is an account that can sign in to the management API. The
// password field holds a bcrypt hash; handlers serialize UserResponse
// instead of User so the hash never leaves the server.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Cellphone string             `bson:"cellphone"`
	Manager   *Manager           `bson:"manager"`
	Version   int                `bson:"version"`
}

// UserResponse is the public projection of a User.
type UserResponse struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Cellphone string             `json:"cellphone"`
}

// Response projects the user into its public shape.
func (u User) Response() UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Cellphone: u.Cellphone}
}
