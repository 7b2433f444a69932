package main

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/peterkingsmesn/jig-backend/internal/config"
	"github.com/peterkingsmesn/jig-backend/internal/db"
	"github.com/peterkingsmesn/jig-backend/internal/handler"
	"github.com/peterkingsmesn/jig-backend/internal/logger"
	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/password"
	"github.com/peterkingsmesn/jig-backend/internal/ratelimit"
	"github.com/peterkingsmesn/jig-backend/internal/service"
	"github.com/peterkingsmesn/jig-backend/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New("jig-backend")

	// Both signing secrets are required; the process refuses to start without them.
	secrets, err := token.SecretsFromConfig(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth configuration")
	}
	codec := token.NewCodec(secrets)

	bcryptCost, err := strconv.Atoi(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid BCRYPT_COST")
	}
	hasher := password.NewBcryptHasher(bcryptCost)

	rateLimit, err := strconv.Atoi(cfg.Auth.RateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid LOGIN_RATE_LIMIT")
	}
	rateWindow, err := time.ParseDuration(cfg.Auth.RateWindow)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid LOGIN_RATE_WINDOW")
	}

	ctx := context.Background()

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pg.Close()

	if err := pg.EnsureAuthSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure auth schema")
	}

	redisDB, err := strconv.Atoi(cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_DB")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       redisDB,
	})
	// The rate limiter and blacklist fail closed, so a dead Redis would deny
	// every login. Refuse to start instead.
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping redis")
	}

	limiter := ratelimit.NewRedisLimiter(rdb, rateLimit, rateWindow)
	blacklist := service.NewRedisBlacklist(rdb)

	authSvc := service.NewAuthService(pg, hasher, codec, limiter, blacklist, log)

	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	router := gin.New()
	router.Use(
		handler.Recovery(log),
		handler.RequestID(),
		handler.AccessLog(log),
		handler.CORS(cfg.Server.AllowedOrigins),
	)

	authHandler := handler.NewAuthHandler(authSvc, log)
	adminHandler := handler.NewAdminHandler(authSvc, log)

	router.GET("/health", handler.Health)

	api := router.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify", authHandler.Verify)
	auth.GET("/me", handler.RequireAuth(authSvc, log), authHandler.Me)

	admin := api.Group("/admin",
		handler.RequireAuth(authSvc, log),
		handler.RequireRole(log, model.RoleAdmin, model.RoleSuperAdmin),
	)
	admin.GET("/users/:id", adminHandler.GetUser)

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("starting server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
