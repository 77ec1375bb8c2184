package main

import (
	"context"
	"time"

	"correspondance-app/config"
	"correspondance-app/database"
	authapi "correspondance-app/internal/api/auth"
	routes "correspondance-app/internal/app/http"
	"correspondance-app/internal/app/http/middleware"
	"correspondance-app/internal/domain/catalog"
	"correspondance-app/internal/logger"
	"correspondance-app/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	loaded := config.LoadEnv()
	logger.Init(config.APP_ENV)
	log := logger.Get()
	log.Info().Strs("env_files", loaded).Str("env", config.APP_ENV).Msg("configuration loaded")

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.JWT_SECRET == config.DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET is not set, sessions are signed with the development secret")
	}

	if err := database.InitDB(config.DB_DRIVER, config.DB_URL); err != nil {
		log.Fatal().Err(err).Str("driver", config.DB_DRIVER).Msg("database unavailable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var revoker session.Revoker = session.NewMemoryRevoker()
	if config.REDIS_ADDR != "" {
		client, err := session.NewRedisClient(ctx, config.REDIS_ADDR, config.REDIS_PASSWORD, config.REDIS_DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", config.REDIS_ADDR).Msg("redis unavailable")
		}
		revoker = session.NewRedisRevoker(client)
	}
	sessions := session.NewManager(config.JWT_SECRET, config.SESSION_TTL, revoker)

	var google *authapi.GoogleProvider
	if config.GoogleEnabled() {
		g, err := authapi.NewGoogleProvider(ctx, config.GOOGLE_CLIENT_ID, config.GOOGLE_CLIENT_SECRET, config.GOOGLE_REDIRECT_URL)
		if err != nil {
			log.Error().Err(err).Msg("google sign-in disabled")
		} else {
			google = g
		}
	}

	svc := catalog.NewService(database.DB, log.With().Str("component", "catalog").Logger())
	svc.OnContribution(func(c catalog.Contribution) {
		middleware.RecordContribution(c.Kind(), c.Action)
	})

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:           database.DB,
		Catalog:      svc,
		Sessions:     sessions,
		Google:       google,
		APIRoute:     config.API_ROUTE,
		PageSize:     config.PAGE_SIZE,
		SecureCookie: config.APP_ENV == "production",
	})

	log.Info().Str("port", config.PORT).Msg("listening")
	if err := r.Run(":" + config.PORT); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
