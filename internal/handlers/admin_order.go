package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

/* =========================
   RESPONSE SHAPE
========================= */

// orderWithCustomer is an order with its customer reference resolved to the
// display-safe summary.
type orderWithCustomer struct {
	ID              primitive.ObjectID      `bson:"_id" json:"id"`
	Customer        *models.CustomerSummary `bson:"customer" json:"customer"`
	Items           []models.OrderItem      `bson:"items" json:"items"`
	Total           float64                 `bson:"total" json:"total"`
	TotalDisplay    string                  `bson:"-" json:"totalDisplay"`
	Status          string                  `bson:"status" json:"status"`
	ShippingAddress models.ShippingAddress  `bson:"shippingAddress" json:"shippingAddress"`
	TrackingNumber  string                  `bson:"trackingNumber" json:"trackingNumber"`
	Carrier         string                  `bson:"carrier" json:"carrier"`
	ShippedAt       *time.Time              `bson:"shippedAt" json:"shippedAt"`
	CreatedAt       time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time               `bson:"updatedAt" json:"updatedAt"`
}

func resolveOrderCustomer(ctx context.Context, db *mongo.Database, order models.Order) orderWithCustomer {
	out := orderWithCustomer{
		ID:              order.ID,
		Items:           order.Items,
		Total:           order.Total,
		TotalDisplay:    pricing.Format(order.Total),
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		TrackingNumber:  order.TrackingNumber,
		Carrier:         order.Carrier,
		ShippedAt:       order.ShippedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}

	var summary models.CustomerSummary
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.Customer}).Decode(&summary)
	if err == nil {
		out.Customer = &summary
	}
	return out
}

/* =========================
   LIST / GET
========================= */

func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$lookup": bson.M{
				"from":         "users",
				"localField":   "customer",
				"foreignField": "_id",
				"as":           "customer",
			}},
			{"$unwind": bson.M{"path": "$customer", "preserveNullAndEmptyArrays": true}},
			{"$project": bson.M{"customer.passwordHash": 0}},
			{"$sort": bson.M{"createdAt": -1}},
		}

		cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]orderWithCustomer, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}
		for i := range orders {
			orders[i].TotalDisplay = pricing.Format(orders[i].Total)
		}

		log.Printf("[%s] returning %d orders", route, len(orders))
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, resolveOrderCustomer(ctx, db, order))
	}
}

/* =========================
   PATCH
========================= */

// UpdateOrder applies a partial update: status (membership-validated,
// unknown values dropped), whole-object shipping address replacement,
// trimmed tracking fields, and the shippedAt stamp rule.
func UpdateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		patch, err := parseOrderPatch(body)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		update := buildOrderUpdate(patch, existing, time.Now())

		var updated models.Order
		err = db.Collection("orders").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": orderID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if patch.Status != "" {
			log.Printf("[%s] order %s status -> %s", route, orderID.Hex(), patch.Status)
		}
		c.JSON(http.StatusOK, resolveOrderCustomer(ctx, db, updated))
	}
}

/* =========================
   CREATE
========================= */

type createOrderRequest struct {
	CustomerID      string                   `json:"customerId" binding:"required"`
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress *shippingAddressRequest  `json:"shippingAddress"`
}

// CreateOrder persists a new pending order for a customer. Items are
// snapshotted as given; the total is computed once from the pricing rule and
// never recomputed on later edits.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		customerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CustomerID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customerId"})
			return
		}

		items, err := buildOrderItems(req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var customer models.User
		err = db.Collection("users").FindOne(ctx, bson.M{
			"_id":  customerID,
			"role": models.RoleCustomer,
		}).Decode(&customer)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "customer not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		address := models.ShippingAddress{}
		if req.ShippingAddress != nil {
			address = req.ShippingAddress.toModel()
		} else {
			address = addressFromProfile(customer)
		}

		now := time.Now()
		order := models.Order{
			Customer:        customerID,
			Items:           items,
			Total:           orderTotal(items),
			Status:          models.OrderStatusPending,
			ShippingAddress: address,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		log.Printf("[%s] order created for customer %s", route, customerID.Hex())
		c.JSON(http.StatusCreated, resolveOrderCustomer(ctx, db, order))
	}
}

// addressFromProfile pre-fills a shipping address from the customer's
// free-text profile address: first line is the street, the last line the
// country, the one before it the city, and anything in between joins into
// the second street line. No line is dropped.
func addressFromProfile(customer models.User) models.ShippingAddress {
	address := models.ShippingAddress{FullName: customer.FullName}

	lines := make([]string, 0, 4)
	for _, line := range strings.Split(customer.Address, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	switch n := len(lines); {
	case n == 1:
		address.Line1 = lines[0]
	case n == 2:
		address.Line1 = lines[0]
		address.City = lines[1]
	case n >= 3:
		address.Line1 = lines[0]
		address.Line2 = strings.Join(lines[1:n-2], ", ")
		address.City = lines[n-2]
		address.Country = lines[n-1]
	}
	return address
}

/* =========================
   DELETE
========================= */

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
