package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the live catalog record. Price is kept as the formatted string
// shown on the storefront ("$1,280"); orders snapshot it at creation time so
// later catalog edits never rewrite history.
type Product struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name       string              `bson:"name" json:"name"`
	Price      string              `bson:"price" json:"price"`
	Category   string              `bson:"category" json:"category"`
	Image      string              `bson:"image" json:"image"`
	Slug       string              `bson:"slug" json:"slug"`
	Collection *primitive.ObjectID `bson:"collection" json:"collection"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
