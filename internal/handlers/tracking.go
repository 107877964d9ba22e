package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// trackingEmailMatches compares the caller-supplied email with the order
// owner's stored email, case-insensitively. A blank stored email never
// matches, so orders whose owner has no email stay unrevealable.
func trackingEmailMatches(stored, supplied string) bool {
	stored = strings.TrimSpace(stored)
	supplied = strings.TrimSpace(supplied)
	if stored == "" || supplied == "" {
		return false
	}
	return strings.EqualFold(stored, supplied)
}

func trackingNotFound(c *gin.Context) {
	// Wrong email, missing order, and malformed id all share this exact
	// response: a caller must not be able to probe for valid order ids.
	c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
}

// TrackOrder is the public shipment lookup. Authorization is by possession:
// the caller proves ownership with the order id and the account email, no
// session required.
func TrackOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /track"
		defer handlePanic(c, route)

		orderIDParam := strings.TrimSpace(c.Query("orderId"))
		email := strings.TrimSpace(c.Query("email"))
		if orderIDParam == "" || email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId and email are required"})
			return
		}

		orderID, err := primitive.ObjectIDFromHex(orderIDParam)
		if err != nil {
			trackingNotFound(c)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			trackingNotFound(c)
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var owner models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.Customer}).Decode(&owner); err != nil {
			trackingNotFound(c)
			return
		}

		if !trackingEmailMatches(owner.Email, email) {
			trackingNotFound(c)
			return
		}

		c.JSON(http.StatusOK, trackingResponse(order))
	}
}

func trackingResponse(order models.Order) gin.H {
	var tracking, carrier interface{}
	if order.TrackingNumber != "" {
		tracking = order.TrackingNumber
	}
	if order.Carrier != "" {
		carrier = order.Carrier
	}
	var shippedAt interface{}
	if order.ShippedAt != nil {
		shippedAt = order.ShippedAt.Format(time.RFC3339)
	}

	return gin.H{
		"orderId":        order.ID.Hex(),
		"status":         order.Status,
		"trackingNumber": tracking,
		"carrier":        carrier,
		"shippedAt":      shippedAt,
	}
}
