package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Println("mongo disconnect:", err)
		}
	}()

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureCollectionIndexes(db); err != nil {
		log.Printf("⚠️ collection index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}

	r := gin.Default()

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:slug", handlers.GetProductBySlug(db))
	r.GET("/collections", handlers.GetCollections(db))
	r.GET("/collections/:slug", handlers.GetCollectionBySlug(db))
	r.GET("/track", handlers.TrackOrder(db))

	r.POST("/auth/register", handlers.Register(db))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	me := r.Group("/me")
	me.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		me.GET("/profile", handlers.GetMyProfile(db))
		me.PUT("/profile", handlers.UpdateMyProfile(db))
		me.GET("/orders", handlers.GetMyOrders(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.GET("/products/:id", handlers.GetProduct(db))
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/collections", handlers.GetAllCollections(db))
		admin.GET("/collections/:id", handlers.GetCollection(db))
		admin.POST("/collections", handlers.CreateCollection(db))
		admin.PUT("/collections/:id", handlers.UpdateCollection(db))
		admin.DELETE("/collections/:id", handlers.DeleteCollection(db))

		admin.GET("/customers", handlers.GetAllCustomers(db))
		admin.GET("/customers/export", handlers.ExportCustomers(db))
		admin.GET("/customers/:id", handlers.GetCustomer(db))
		admin.PUT("/customers/:id", handlers.UpdateCustomer(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.GET("/orders/:id", handlers.GetOrder(db))
		admin.POST("/orders", handlers.CreateOrder(db))
		admin.PATCH("/orders/:id", handlers.UpdateOrder(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	if config.AppEnv.SeedEnabled {
		r.POST("/seed", handlers.SeedDatabase(db))
		r.POST("/seed/backfill", handlers.BackfillOrders(db))
		log.Println("seed routes enabled")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
