package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// slugify derives a URL slug from a product or collection name: lowercase,
// whitespace runs become hyphens, everything else outside [a-z0-9-] drops.
func slugify(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastHyphen := false
	for _, r := range lowered {
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			lastHyphen = r == '-'
		}
	}
	return b.String()
}

// resolveCollectionRef turns a raw collection value from a request into a
// collection id. An explicit existing collection wins; anything else
// ("general", blank, malformed, or missing) falls back to the default
// essentials collection. Returns nil when no fallback exists either.
func resolveCollectionRef(ctx context.Context, db *mongo.Database, raw string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)

	if raw != "" && raw != "general" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			var col models.Collection
			err := db.Collection("collections").FindOne(ctx, bson.M{"_id": id}).Decode(&col)
			if err == nil {
				return &col.ID, nil
			}
			if err != mongo.ErrNoDocuments {
				return nil, err
			}
		}
	}

	var fallback models.Collection
	err := db.Collection("collections").FindOne(ctx, bson.M{"slug": models.DefaultCollectionSlug}).Decode(&fallback)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fallback.ID, nil
}

type collectionRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

// collectionRefsByID loads name/slug projections for the referenced
// collections in one query.
func collectionRefsByID(ctx context.Context, db *mongo.Database, products []models.Product) (map[primitive.ObjectID]collectionRef, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	seen := map[primitive.ObjectID]struct{}{}
	for _, p := range products {
		if p.Collection == nil {
			continue
		}
		if _, ok := seen[*p.Collection]; ok {
			continue
		}
		seen[*p.Collection] = struct{}{}
		ids = append(ids, *p.Collection)
	}

	refs := make(map[primitive.ObjectID]collectionRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	cursor, err := db.Collection("collections").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []collectionRef
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	for _, ref := range found {
		refs[ref.ID] = ref
	}
	return refs, nil
}

// productView shapes a product response with its collection reference
// resolved, or null when the product sits in the default grouping.
func productView(p models.Product, refs map[primitive.ObjectID]collectionRef) gin.H {
	var col interface{}
	if p.Collection != nil {
		if ref, ok := refs[*p.Collection]; ok {
			col = ref
		}
	}
	return gin.H{
		"id":         p.ID.Hex(),
		"name":       p.Name,
		"price":      p.Price,
		"category":   p.Category,
		"image":      p.Image,
		"slug":       p.Slug,
		"collection": col,
		"createdAt":  p.CreatedAt,
		"updatedAt":  p.UpdatedAt,
	}
}

func productViews(ctx context.Context, db *mongo.Database, products []models.Product) ([]gin.H, error) {
	refs, err := collectionRefsByID(ctx, db, products)
	if err != nil {
		return nil, err
	}
	views := make([]gin.H, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p, refs))
	}
	return views, nil
}
