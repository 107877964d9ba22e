package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

/* =========================
   RESPONSE SHAPES
========================= */

type customerWithCount struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Role       string             `bson:"role" json:"role"`
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"fullName" json:"fullName"`
	Address    string             `bson:"address" json:"address"`
	Phone      string             `bson:"phone" json:"phone"`
	Disabled   bool               `bson:"disabled" json:"disabled"`
	OrderCount int                `bson:"orderCount" json:"orderCount"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type customerOrderSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Status    string             `bson:"status" json:"status"`
	Total     float64            `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// customerSearchFilter builds the list filter: customers only, optionally
// narrowed by a case-insensitive substring match across username, email and
// full name. The needle is regex-escaped so metacharacters search literally.
func customerSearchFilter(search string) bson.M {
	filter := bson.M{"role": models.RoleCustomer}

	search = strings.TrimSpace(search)
	if search == "" {
		return filter
	}

	pattern := regexp.QuoteMeta(search)
	regex := bson.M{"$regex": pattern, "$options": "i"}
	filter["$or"] = []bson.M{
		{"username": regex},
		{"email": regex},
		{"fullName": regex},
	}
	return filter
}

/* =========================
   LIST (with order counts)
========================= */

func GetAllCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		pipeline := []bson.M{
			{"$match": customerSearchFilter(c.Query("search"))},
			{"$lookup": bson.M{
				"from":         "orders",
				"localField":   "_id",
				"foreignField": "customer",
				"as":           "orders",
			}},
			{"$addFields": bson.M{"orderCount": bson.M{"$size": "$orders"}}},
			{"$project": bson.M{"passwordHash": 0, "orders": 0}},
			{"$sort": bson.M{"createdAt": -1}},
		}

		cursor, err := db.Collection("users").Aggregate(ctx, pipeline)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		customers := make([]customerWithCount, 0)
		if err := cursor.All(ctx, &customers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d customers", route, len(customers))
		c.JSON(http.StatusOK, customers)
	}
}

/* =========================
   GET (profile + order history)
========================= */

func GetCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers/:id"
		defer handlePanic(c, route)

		customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
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
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		findOpts := options.Find().
			SetProjection(bson.M{"status": 1, "total": 1, "createdAt": 1}).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"customer": customerID}, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		// Zero orders is a valid state: empty list, count 0, never an error.
		orders := make([]customerOrderSummary, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":         customer.ID.Hex(),
			"username":   customer.Username,
			"role":       customer.Role,
			"email":      customer.Email,
			"fullName":   customer.FullName,
			"address":    customer.Address,
			"phone":      customer.Phone,
			"disabled":   customer.Disabled,
			"createdAt":  customer.CreatedAt,
			"updatedAt":  customer.UpdatedAt,
			"orderCount": len(orders),
			"orders":     orders,
		})
	}
}

/* =========================
   UPDATE
========================= */

type customerUpdateRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Disabled *bool   `json:"disabled"`
}

func UpdateCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req customerUpdateRequest
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
		if req.Disabled != nil {
			update["disabled"] = *req.Disabled
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err = db.Collection("users").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": customerID, "role": models.RoleCustomer},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =========================
   CSV EXPORT
========================= */

// csvEscape quotes a value when it contains a comma, quote, or line break.
func csvEscape(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func customersCSV(customers []models.User) string {
	var b strings.Builder
	b.WriteString("username,email,fullName,address,createdAt\n")
	for i, customer := range customers {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join([]string{
			csvEscape(customer.Username),
			csvEscape(customer.Email),
			csvEscape(customer.FullName),
			csvEscape(customer.Address),
			customer.CreatedAt.UTC().Format(time.RFC3339),
		}, ","))
	}
	return b.String()
}

func ExportCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/customers/export"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{"role": models.RoleCustomer}, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		var customers []models.User
		if err := cursor.All(ctx, &customers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", "customers.csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(customersCSV(customers)))
	}
}
