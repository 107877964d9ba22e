package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

type seedProduct struct {
	Name     string
	Price    string
	Category string
	Image    string
	Slug     string
}

var seedCollections = []models.Collection{
	{Name: "Essentials", Slug: models.DefaultCollectionSlug, Description: "Signature pieces for every day.", Image: "/images/collections/essentials.jpg"},
	{Name: "Evening", Slug: "evening", Description: "Statement bags for after dark.", Image: "/images/collections/evening.jpg"},
	{Name: "Travel", Slug: "travel", Description: "Carry-everything companions.", Image: "/images/collections/travel.jpg"},
}

var seedProducts = map[string][]seedProduct{
	models.DefaultCollectionSlug: {
		{Name: "The Signature Tote", Price: "$1,280", Category: "handbags", Image: "/images/products/signature-tote.jpg", Slug: "signature-tote"},
		{Name: "Leather Crossbody", Price: "$980", Category: "handbags", Image: "/images/products/leather-crossbody.jpg", Slug: "leather-crossbody"},
		{Name: "Classic Card Holder", Price: "$320", Category: "accessories", Image: "/images/products/card-holder.jpg", Slug: "classic-card-holder"},
	},
	"evening": {
		{Name: "Velvet Clutch", Price: "$740", Category: "handbags", Image: "/images/products/velvet-clutch.jpg", Slug: "velvet-clutch"},
		{Name: "Satin Mini Bag", Price: "$860", Category: "handbags", Image: "/images/products/satin-mini.jpg", Slug: "satin-mini-bag"},
	},
	"travel": {
		{Name: "Weekender Duffle", Price: "$1,650", Category: "luggage", Image: "/images/products/weekender.jpg", Slug: "weekender-duffle"},
	},
}

// SeedDatabase resets the catalog and guarantees demo accounts and demo
// orders exist. Gated behind SEED_ENABLED so it never runs in production.
func SeedDatabase(db *mongo.Database) gin.HandlerFunc {
	const route = "POST /seed"

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		if _, err := db.Collection("products").DeleteMany(ctx, bson.M{}); err != nil {
			log.Printf("[SEED] [ERROR] %s clearing products: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if _, err := db.Collection("collections").DeleteMany(ctx, bson.M{}); err != nil {
			log.Printf("[SEED] [ERROR] %s clearing collections: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		now := time.Now()
		collectionIDs := map[string]primitive.ObjectID{}
		for _, col := range seedCollections {
			col.CreatedAt = now
			col.UpdatedAt = now
			res, err := db.Collection("collections").InsertOne(ctx, col)
			if err != nil {
				log.Printf("[SEED] [ERROR] %s inserting collection %s: %v", route, col.Slug, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
			collectionIDs[col.Slug] = res.InsertedID.(primitive.ObjectID)
		}

		productCount := 0
		for slug, products := range seedProducts {
			colID := collectionIDs[slug]
			for _, p := range products {
				doc := models.Product{
					Name:       p.Name,
					Price:      p.Price,
					Category:   p.Category,
					Image:      p.Image,
					Slug:       p.Slug,
					Collection: &colID,
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				if _, err := db.Collection("products").InsertOne(ctx, doc); err != nil {
					log.Printf("[SEED] [ERROR] %s inserting product %s: %v", route, p.Slug, err)
					c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
					return
				}
				productCount++
			}
		}

		if err := ensureSeedUser(ctx, db, models.User{
			Username: "admin",
			Role:     models.RoleAdmin,
			Email:    "admin@example.com",
			FullName: "Store Admin",
		}, "admin123"); err != nil {
			log.Printf("[SEED] [ERROR] %s ensuring admin: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := ensureSeedUser(ctx, db, models.User{
			Username: "customer",
			Role:     models.RoleCustomer,
			Email:    "customer@example.com",
			FullName: "Demo Customer",
			Address:  "123 Main Street\nCape Town 8001\nSouth Africa",
			Phone:    "+27 21 123 4567",
		}, "customer123"); err != nil {
			log.Printf("[SEED] [ERROR] %s ensuring customer: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		ordersCreated, err := ensureSeedOrders(ctx, db)
		if err != nil {
			log.Printf("[SEED] [ERROR] %s ensuring orders: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Printf("[SEED] [INFO] %s seeded %d collections, %d products, %d orders", route, len(seedCollections), productCount, ordersCreated)
		c.JSON(http.StatusOK, gin.H{
			"collections":   len(seedCollections),
			"products":      productCount,
			"ordersCreated": ordersCreated,
		})
	}
}

// ensureSeedUser inserts the account only when the username is absent, so
// reseeding never clobbers password or profile edits.
func ensureSeedUser(ctx context.Context, db *mongo.Database, user models.User, password string) error {
	count, err := db.Collection("users").CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user.PasswordHash = string(hash)
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.Collection("users").InsertOne(ctx, user)
	return err
}

func ensureSeedOrders(ctx context.Context, db *mongo.Database) (int, error) {
	var customer models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"username": "customer"}).Decode(&customer); err != nil {
		return 0, err
	}

	count, err := db.Collection("orders").CountDocuments(ctx, bson.M{"customer": customer.ID})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	address := models.ShippingAddress{
		FullName: "Demo Customer",
		Line1:    "123 Main Street",
		City:     "Cape Town",
		PostCode: "8001",
		Country:  "South Africa",
	}

	now := time.Now()
	shippedAt := now.Add(-48 * time.Hour)

	pendingItems := []models.OrderItem{
		{Slug: "leather-crossbody", Name: "Leather Crossbody", Price: "$980", Quantity: 1},
	}
	shippedItems := []models.OrderItem{
		{Slug: "signature-tote", Name: "The Signature Tote", Price: "$1,280", Quantity: 1},
		{Slug: "classic-card-holder", Name: "Classic Card Holder", Price: "$320", Quantity: 2},
	}

	orders := []interface{}{
		models.Order{
			Customer:        customer.ID,
			Items:           pendingItems,
			Total:           orderTotal(pendingItems),
			Status:          models.OrderStatusPending,
			ShippingAddress: address,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		models.Order{
			Customer:        customer.ID,
			Items:           shippedItems,
			Total:           orderTotal(shippedItems),
			Status:          models.OrderStatusShipped,
			ShippingAddress: address,
			TrackingNumber:  "CBW123456789ZA",
			Carrier:         "DHL",
			ShippedAt:       &shippedAt,
			CreatedAt:       now.Add(-72 * time.Hour),
			UpdatedAt:       shippedAt,
		},
	}

	if _, err := db.Collection("orders").InsertMany(ctx, orders); err != nil {
		return 0, err
	}
	return len(orders), nil
}

// BackfillOrders repairs older order documents: fills in a shipping address
// from the owner profile when missing, and stamps tracking fields on shipped
// orders that predate shipment tracking.
func BackfillOrders(db *mongo.Database) gin.HandlerFunc {
	const route = "POST /seed/backfill"

	return func(c *gin.Context) {
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"$or": []bson.M{
			{"shippingAddress": bson.M{"$exists": false}},
			{"shippingAddress.fullName": ""},
			{"status": models.OrderStatusShipped, "trackingNumber": ""},
			{"status": models.OrderStatusShipped, "shippedAt": nil},
		}})
		if err != nil {
			log.Printf("[SEED] [ERROR] %s query failed: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := []models.Order{}
		if err := cursor.All(ctx, &orders); err != nil {
			log.Printf("[SEED] [ERROR] %s decode failed: %v", route, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		updated := 0
		for _, order := range orders {
			set := bson.M{"updatedAt": time.Now()}

			if (order.ShippingAddress == models.ShippingAddress{}) {
				var owner models.User
				if err := db.Collection("users").FindOne(ctx, bson.M{"_id": order.Customer}).Decode(&owner); err == nil {
					set["shippingAddress"] = addressFromProfile(owner)
				}
			}
			if order.Status == models.OrderStatusShipped {
				if order.TrackingNumber == "" {
					set["trackingNumber"] = "CBW" + order.ID.Hex()[:9] + "ZA"
					set["carrier"] = "DHL"
				}
				if order.ShippedAt == nil {
					set["shippedAt"] = order.UpdatedAt
				}
			}

			if len(set) == 1 {
				continue
			}

			if _, err := db.Collection("orders").UpdateByID(ctx, order.ID, bson.M{"$set": set}); err != nil {
				log.Printf("[SEED] [ERROR] %s updating order %s: %v", route, order.ID.Hex(), err)
				continue
			}
			updated++
		}

		log.Printf("[SEED] [INFO] %s backfilled %d of %d candidate orders", route, updated, len(orders))
		c.JSON(http.StatusOK, gin.H{"candidates": len(orders), "updated": updated})
	}
}
