package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/devitachiui22/kuanda-sub000/internal/config"
	"github.com/devitachiui22/kuanda-sub000/internal/handler"
	"github.com/devitachiui22/kuanda-sub000/internal/middleware"
	"github.com/devitachiui22/kuanda-sub000/internal/repository"
	"github.com/devitachiui22/kuanda-sub000/internal/service"
	"github.com/devitachiui22/kuanda-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	if err := repository.EnsureSchema(context.Background(), dbPool); err != nil {
		appLogger.Fatal("Failed to bootstrap schema", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)

	services, err := service.NewServices(repos, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", "error", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "./web/static")
	// Anexos são referenciados só pelo nome gerado; o diretório é servido
	// estaticamente.
	router.Static("/uploads/chat", cfg.Upload.Dir)

	router.GET("/health", handlers.Health.Check)

	// Páginas
	router.GET("/login", handlers.Page.Login)
	router.GET("/chat", authMiddleware.RequireAuth(), handlers.Page.Chat)

	// Auth
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", rateLimitMiddleware.LimitPerWindow(20, 60), handlers.Auth.Register)
		auth.POST("/login", rateLimitMiddleware.LimitPerWindow(20, 60), handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.RefreshToken)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	// Chat API
	chat := router.Group("/api/chat")
	chat.Use(authMiddleware.RequireAuth())
	{
		chat.GET("/conversas", handlers.Chat.Conversations)
		chat.GET("/mensagens/:id", handlers.Chat.Messages)
		chat.POST("/enviar", rateLimitMiddleware.Limit(), handlers.Chat.Send)
		chat.POST("/iniciar", handlers.Chat.Start)
		chat.GET("/check", handlers.Chat.Check)
		chat.GET("/pedido-detalhes/:id", handlers.Chat.OrderDetail)
		chat.POST("/status", handlers.Chat.UpdateStatus)
		chat.GET("/usuarios-disponiveis", handlers.Chat.AvailableUsers)
	}

	// VIP
	vip := router.Group("/api/vip")
	vip.Use(authMiddleware.RequireAuth())
	{
		vip.POST("/solicitar", handlers.Vip.Request)
		vip.GET("/solicitacoes", authMiddleware.RequireRole("admin"), handlers.Vip.ListPending)
		vip.POST("/:id/decidir", authMiddleware.RequireRole("admin"), handlers.Vip.Decide)
	}

	return router
}
