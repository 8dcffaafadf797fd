package main

import (
	"log"
	"os"

	_ "github.com/mamer12/bunyan-construction-management-mvp-sub001/api/swagger" // swagger docs
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/database"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/handler"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/middleware"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/service"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Bunyan Construction Management API
// @version         1.0
// @description     Backend for construction projects, material stock and role-based access.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	roleService := service.NewRoleService(roleRepo, userRepo, auditRepo, txManager)
	userService := service.NewUserService(userRepo, auditRepo, txManager, roleService)
	stockService := service.NewStockService(materialRepo, movementRepo, requestRepo, projectRepo, userRepo, auditRepo, txManager, roleService, wsHub)
	projectService := service.NewProjectService(projectRepo, auditRepo, txManager, roleService)
	payoutService := service.NewPayoutService(payoutRepo, projectRepo, auditRepo, txManager, roleService)
	auditService := service.NewAuditService(auditRepo, roleService)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	stockHandler := handler.NewStockHandler(stockService)
	projectHandler := handler.NewProjectHandler(projectService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	stockHandler.RegisterRoutes(router.Group(""))
	projectHandler.RegisterRoutes(router.Group(""))
	payoutHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
