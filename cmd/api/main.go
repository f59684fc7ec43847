package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kovalsofiia/finance-tracker/internal/config"
	"github.com/kovalsofiia/finance-tracker/internal/database"
	"github.com/kovalsofiia/finance-tracker/internal/handlers"
	"github.com/kovalsofiia/finance-tracker/internal/logger"
	"github.com/kovalsofiia/finance-tracker/internal/middleware"
	"github.com/kovalsofiia/finance-tracker/internal/services"
	"github.com/kovalsofiia/finance-tracker/internal/validator"
)

// @title           Finance Tracker API
// @version         1.0
// @description     Personal finance backend with hierarchical categories, a transaction ledger, and per-user balances.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService)
	transactionService := services.NewTransactionService(db, categoryService)
	libraryService := services.NewLibraryService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, transactionService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.DELETE("/profile", authHandler.DeleteProfile)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategoryTree)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.GET("/:id/transactions", categoryHandler.GetCategoryTransactions)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Balance
	protected.GET("/balance", transactionHandler.GetBalance)

	// Library routes
	libraries := protected.Group("/libraries")
	libraries.POST("", libraryHandler.CreateLibrary)
	libraries.GET("", libraryHandler.GetUserLibraries)
	libraries.GET("/:id", libraryHandler.GetLibraryByID)
	libraries.PUT("/:id", libraryHandler.UpdateLibrary)
	libraries.DELETE("/:id", libraryHandler.DeleteLibrary)

	log.Infof("Starting finance-tracker backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
