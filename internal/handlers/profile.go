package handlers

import (
	"context"
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
)

type updateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := raw.(primitive.ObjectID)
	return id, ok
}

/* ===== PROFILE ===== */

func GetMyProfile(db *mongo.Database) gin.HandlerFunc {
	const route = "GET /me/profile"

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Printf("[PROFILE] [ERROR] %s account not found: %v", route, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateMyProfile(db *mongo.Database) gin.HandlerFunc {
	const route = "PUT /me/profile"

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.Email != nil {
			update["email"] = strings.TrimSpace(*req.Email)
		}
		if req.FullName != nil {
			update["fullName"] = strings.TrimSpace(*req.FullName)
		}
		if req.Address != nil {
			update["address"] = strings.TrimSpace(*req.Address)
		}
		if req.Phone != nil {
			update["phone"] = strings.TrimSpace(*req.Phone)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := db.Collection("users").FindOneAndUpdate(
			ctx,
			bson.M{"_id": userID},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			log.Printf("[PROFILE] [ERROR] %s update failed: %v", route, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}

		log.Printf("[PROFILE] [INFO] %s updated profile for %s", route, updated.Username)
		c.JSON(http.StatusOK, updated)
	}
}

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	const route = "GET /me/orders"

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.M{"createdAt": -1})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer": userID}, findOptions)
		if err != nil {
			log.Printf("[PROFILE] [ERROR] %s db error: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			log.Printf("[PROFILE] [ERROR] %s decode error: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}
