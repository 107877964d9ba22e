package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCollectionSlug is the fallback grouping for products created
// without a resolvable collection reference.
const DefaultCollectionSlug = "essentials"

// Collection groups products for merchandising. The narrative fields
// (story, material, quality) default to canned copy at the presentation
// layer when blank; blanks are stored as-is.
type Collection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description" json:"description"`
	Story       string             `bson:"story" json:"story"`
	Material    string             `bson:"material" json:"material"`
	Quality     string             `bson:"quality" json:"quality"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
