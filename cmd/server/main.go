package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/aryarobyy/to-do-list-be/internal/auth"
	"github.com/aryarobyy/to-do-list-be/internal/config"
	"github.com/aryarobyy/to-do-list-be/internal/handlers"
	"github.com/aryarobyy/to-do-list-be/internal/middleware"
	"github.com/aryarobyy/to-do-list-be/internal/notes"
	"github.com/aryarobyy/to-do-list-be/internal/realtime"
	"github.com/aryarobyy/to-do-list-be/internal/sets"
	"github.com/aryarobyy/to-do-list-be/internal/store"
	"github.com/aryarobyy/to-do-list-be/internal/users"
	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	// Initialize Firebase Admin SDK from the KEY_DATA environment
	// variable. Deployments escape newlines in the private key.
	if cfg.FirebaseKeyData == "" {
		zl.Fatal(ctx, "KEY_DATA environment variable not set")
	}
	var parsedKeyData map[string]interface{}
	if err := json.Unmarshal([]byte(cfg.FirebaseKeyData), &parsedKeyData); err != nil {
		zl.Fatal(ctx, "error unmarshalling key data", zap.Error(err))
	}
	if pk, ok := parsedKeyData["private_key"].(string); ok {
		parsedKeyData["private_key"] = strings.ReplaceAll(pk, "\\n", "\n")
	}
	keyData, err := json.Marshal(parsedKeyData)
	if err != nil {
		zl.Fatal(ctx, "error marshalling key data", zap.Error(err))
	}

	opt := option.WithCredentialsJSON(keyData)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opt)
	if err != nil {
		zl.Fatal(ctx, "error initializing firebase app", zap.Error(err))
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		zl.Fatal(ctx, "error getting auth client", zap.Error(err))
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		zl.Fatal(ctx, "error getting firestore client", zap.Error(err))
	}
	defer fsClient.Close()

	st := store.NewFirestore(fsClient)
	provider := auth.NewFirebase(authClient, cfg.FirebaseWebAPIKey)

	userService := users.NewService(st, provider)
	noteRepo := notes.NewRepository(st)
	categories := sets.NewEngine(st, "category")
	favourites := sets.NewEngine(st, "favourite")
	manager := realtime.NewManager(st)

	userHandler := handlers.NewUserHandler(userService, zl)
	noteHandler := handlers.NewNoteHandler(noteRepo, zl)
	categoryHandler := handlers.NewSetHandler(categories, "Category", zl)
	favHandler := handlers.NewSetHandler(favourites, "Favourite", zl)
	socketHandler := realtime.NewSocketHandler(manager, zl)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zl))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/ws", socketHandler.Handle)

	user := router.Group("/user")
	{
		user.POST("/", userHandler.Register)
		user.POST("/login", userHandler.Login)
		user.GET("/id/:id", userHandler.GetByID)
		user.GET("/email/:email", userHandler.GetByEmail)
		user.GET("/username/:username", userHandler.GetByUsername)

		protected := user.Group("/").Use(middleware.AuthMiddleware(provider))
		{
			protected.PUT("/:id", userHandler.Update)
			protected.POST("/logout", userHandler.Logout)
		}
	}

	note := router.Group("/note").Use(middleware.AuthMiddleware(provider))
	{
		note.POST("/", noteHandler.Create)
		note.PUT("/:noteId", noteHandler.Update)
		note.GET("/:creatorId", noteHandler.ListByCreator)
		note.GET("/:creatorId/:noteId", noteHandler.GetByID)
		note.POST("/tags/:creatorId", noteHandler.ListByTags)
		note.DELETE("/:creatorId/:noteId", noteHandler.Delete)
	}

	category := router.Group("/category").Use(middleware.AuthMiddleware(provider))
	{
		category.POST("/", categoryHandler.Create)
		category.GET("/:creatorId", categoryHandler.List)
		category.PUT("/", categoryHandler.Update)
		category.PUT("/title", categoryHandler.Rename)
		category.POST("/title", categoryHandler.GetByTitle)
	}

	fav := router.Group("/fav").Use(middleware.AuthMiddleware(provider))
	{
		fav.POST("/", favHandler.Create)
		fav.GET("/:creatorId", favHandler.List)
		fav.PUT("/", favHandler.Update)
		fav.PUT("/title", favHandler.Rename)
		fav.POST("/title", favHandler.GetByTitle)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info(ctx, "server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal(ctx, "server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error(ctx, "forced shutdown", zap.Error(err))
	}
}
