package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// handlePanic turns a handler panic into a 500 instead of tearing down the
// request with a blank response.
func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] [PANIC] recovered: %v", route, r)
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
	}
}

// ensureDBConnection pings the primary with a short deadline so public
// endpoints fail fast with 503 when the database is gone, rather than
// stacking up 5 second query timeouts.
func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] [ERROR] %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
