package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// SeedType classifies a seed in the catalog.
type SeedType string

const (
	SeedTypeVegetable SeedType = "vegetable"
	SeedTypeFruit     SeedType = "fruit"
	SeedTypeHerb      SeedType = "herb"
	SeedTypeOther     SeedType = "other"
)

// ValidSeedType reports whether t is one of the known seed types.
func ValidSeedType(t SeedType) bool {
	switch t {
	case SeedTypeVegetable, SeedTypeFruit, SeedTypeHerb, SeedTypeOther:
		return true
	}
	return false
}

// Seed is a catalog entry for seed stock. Names are unique.
type Seed struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Amount      int                `bson:"amount" json:"amount"`
	SeedType    SeedType           `bson:"seed_type" json:"seed_type"`
}
