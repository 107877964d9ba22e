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

type collectionCreateRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Story       string `json:"story"`
	Material    string `json:"material"`
	Quality     string `json:"quality"`
}

type collectionUpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	Story       *string `json:"story"`
	Material    *string `json:"material"`
	Quality     *string `json:"quality"`
}

func GetAllCollections(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/collections"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := db.Collection("collections").Find(ctx, bson.M{}, findOpts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		collections := make([]models.Collection, 0)
		if err := cursor.All(ctx, &collections); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, collections)
	}
}

func GetCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var collection models.Collection
		err = db.Collection("collections").FindOne(ctx, bson.M{"_id": collectionID}).Decode(&collection)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, collection)
	}
}

func CreateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/collections"
		defer handlePanic(c, route)

		var req collectionCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugify(name)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("collections").CountDocuments(ctx, bson.M{"slug": slug})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug already taken"})
			return
		}

		now := time.Now()
		collection := models.Collection{
			Name:        name,
			Slug:        slug,
			Image:       strings.TrimSpace(req.Image),
			Description: strings.TrimSpace(req.Description),
			Story:       strings.TrimSpace(req.Story),
			Material:    strings.TrimSpace(req.Material),
			Quality:     strings.TrimSpace(req.Quality),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("collections").InsertOne(ctx, collection)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		collection.ID = res.InsertedID.(primitive.ObjectID)

		log.Printf("[%s] collection %q created with slug %q", route, name, slug)
		c.JSON(http.StatusCreated, collection)
	}
}

func UpdateCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req collectionUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Slug != nil {
			update["slug"] = strings.TrimSpace(*req.Slug)
		}
		if req.Image != nil {
			update["image"] = strings.TrimSpace(*req.Image)
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Story != nil {
			update["story"] = strings.TrimSpace(*req.Story)
		}
		if req.Material != nil {
			update["material"] = strings.TrimSpace(*req.Material)
		}
		if req.Quality != nil {
			update["quality"] = strings.TrimSpace(*req.Quality)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Collection
		err = db.Collection("collections").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": collectionID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// DeleteCollection moves the collection's products back to the default
// grouping by nulling their reference, then removes the collection. Products
// are never cascade-deleted.
func DeleteCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/collections/:id"
		defer handlePanic(c, route)

		collectionID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		detached, err := db.Collection("products").UpdateMany(
			ctx,
			bson.M{"collection": collectionID},
			bson.M{"$set": bson.M{"collection": nil}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		result, err := db.Collection("collections").DeleteOne(ctx, bson.M{"_id": collectionID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}

		log.Printf("[%s] collection %s deleted, %d products detached", route, collectionID.Hex(), detached.ModifiedCount)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
