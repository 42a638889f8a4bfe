package main

import (
	"context"
	"log"
	"time"

	"main/config"
	"main/filestore"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/upload"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	utils.InitValidator()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := utils.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := repository.SetupIndexes(client.Database(cfg.MongoDB)); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	store := filestore.New(cfg.UploadDir)
	for _, folder := range []string{"notes", "profiles"} {
		if err := store.EnsureCollection(folder); err != nil {
			log.Fatalf("failed to create upload directory %q: %v", folder, err)
		}
	}

	if cfg.RedisURL != "" {
		blacklist, err := services.NewTokenBlacklist(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		services.TokenBlacklist = blacklist
		defer blacklist.Close()
	} else {
		log.Println("REDIS_URL not set, token revocation on logout is disabled")
	}

	router := setupRouter(cfg, client, store)

	log.Printf("server listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func setupRouter(cfg *config.Config, client *mongo.Client, store *filestore.Store) *gin.Engine {
	notesService := &usecase.NoteService{
		Repo:   repository.GetNotesRepo(client, cfg.MongoDB),
		Intake: upload.NewIntake(store, upload.NoteImages()),
	}
	usersService := &usecase.UserService{
		Repo:   repository.GetUserRepo(client, cfg.MongoDB),
		Intake: upload.NewIntake(store, upload.ProfilePicture()),
	}

	authHandler := &handler.AuthHandler{Users: usersService, Cfg: cfg}
	userHandler := &handler.UserHandler{Users: usersService, Cfg: cfg}
	noteHandler := &handler.NoteHandler{Notes: notesService, Cfg: cfg}
	healthHandler := handler.NewHealthHandler(client)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(utils.GetEnvAsString("CORS_ORIGIN", "*")))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(cfg.MaxBodySize))

	router.Static("/uploads", store.BaseDir())

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
	}

	users := router.Group("/users", middleware.AuthMiddleware(cfg))
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
		users.PUT("/change-profile-picture", userHandler.ChangeProfilePicture)
	}

	notes := router.Group("/notes", middleware.AuthMiddleware(cfg))
	{
		notes.POST("", noteHandler.Create)
		notes.GET("", noteHandler.List)
		notes.GET("/:id", noteHandler.Get)
		notes.PUT("/:id", noteHandler.Update)
		notes.DELETE("/:id", noteHandler.Delete)
	}

	return router
}
