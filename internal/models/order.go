package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. The machine is permissive: the admin may move an
// order between any of these, including regressions, to correct real-world
// fulfilment mistakes.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// OrderItem is an immutable snapshot of a product taken at order-creation
// time. Name and price are copied, not referenced, so historical orders
// survive later catalog edits and deletions.
type OrderItem struct {
	Slug     string `bson:"slug" json:"slug"`
	Name     string `bson:"name" json:"name"`
	Price    string `bson:"price" json:"price"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// ShippingAddress is replaced as a whole on update; fields never merge with
// prior values.
type ShippingAddress struct {
	FullName string `bson:"fullName" json:"fullName"`
	Line1    string `bson:"line1" json:"line1"`
	Line2    string `bson:"line2" json:"line2"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	PostCode string `bson:"postCode" json:"postCode"`
	Country  string `bson:"country" json:"country"`
}

// Order is the authoritative purchase record. ShippedAt is stamped the
// first time the order enters the shipped status and is never auto-cleared
// afterwards.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Customer        primitive.ObjectID `bson:"customer" json:"customer"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	Status          string             `bson:"status" json:"status"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	TrackingNumber  string             `bson:"trackingNumber" json:"trackingNumber"`
	Carrier         string             `bson:"carrier" json:"carrier"`
	ShippedAt       *time.Time         `bson:"shippedAt" json:"shippedAt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
