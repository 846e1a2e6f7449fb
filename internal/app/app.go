package app

import (
	"fmt"

	"github.com/Nyaguthii-C/LetsChat/internal/config"
	"github.com/Nyaguthii-C/LetsChat/internal/database"
	"github.com/Nyaguthii-C/LetsChat/internal/handlers"
	"github.com/Nyaguthii-C/LetsChat/internal/logger"
	"github.com/Nyaguthii-C/LetsChat/internal/middleware"
	"github.com/Nyaguthii-C/LetsChat/internal/relay"
	"github.com/Nyaguthii-C/LetsChat/internal/routes"
	"github.com/Nyaguthii-C/LetsChat/internal/services"
	"github.com/Nyaguthii-C/LetsChat/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Run boots the full application: config, logging, database, services,
// router. It blocks serving HTTP until the process exits.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	relayProvider := buildRelayProvider(cfg)
	defer relayProvider.Close()

	router := SetupRouter(db, relayProvider)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "addr", addr, "env", cfg.Server.Env)
	return router.Run(addr)
}

// SetupRouter assembles the middleware chain, services, and routes around
// the given database handle. Tests call this directly with their own db
// and a mock relay.
func SetupRouter(db *gorm.DB, relayProvider relay.Provider) *gin.Engine {
	cfg := config.GetConfig()
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	manager := ws.NewManager()
	container := services.NewServiceContainer(manager, relayProvider)
	wsHandler := ws.NewHandler(manager, container.NotificationService)
	appHandlers := handlers.NewAppHandlers(container, wsHandler)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(db))

	routes.RegisterRoutes(router, appHandlers)
	return router
}

func buildRelayProvider(cfg *config.Config) relay.Provider {
	if cfg.Relay.URL == "" {
		logger.Info("relay disabled, using noop provider")
		return NewNoopRelayProvider()
	}
	provider, err := relay.NewNATSProvider(cfg.Relay.URL, cfg.Relay.Subject)
	if err != nil {
		logger.Error("relay connection failed, using noop provider", "error", err)
		return NewNoopRelayProvider()
	}
	return provider
}
