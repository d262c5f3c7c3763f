package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SmirnovaT/Auth-sprint-2/internal/cache"
	"github.com/SmirnovaT/Auth-sprint-2/internal/config"
	"github.com/SmirnovaT/Auth-sprint-2/internal/database"
	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/auth"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/history"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/oauth"
	"github.com/SmirnovaT/Auth-sprint-2/internal/modules/role"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/internal/repository"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

func main() {
	cfg, err := config.Load(true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	sessions := cache.NewRedisCache(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}))

	codec, err := token.New(cfg.PrivateKeyPEM, cfg.PublicKeyPEM, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	accounts := repository.NewOAuthRepository(db)
	histories := repository.NewAuthHistoryRepository(db)

	historySvc := history.NewService(histories, users)
	authSvc := auth.NewService(users, roles, codec, sessions, historySvc, cfg.DefaultUserRole)
	roleSvc := role.NewService(roles)
	oauthSvc := oauth.NewService(oauth.ProviderConfig{
		ClientID:     cfg.YandexClientID,
		ClientSecret: cfg.YandexClientSecret,
		AuthorizeURL: cfg.YandexAuthorizeURL,
		TokenURL:     cfg.YandexTokenURL,
		InfoURL:      cfg.YandexInfoURL,
		RedirectURI:  cfg.YandexRedirectURI,
	}, accounts, users, roles, authSvc, cfg.DefaultUserRole)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.RequireRequestID())

	api := router.Group("/api/v1")
	api.GET("/healthcheck", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	auth.NewHandler(authSvc, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.CookieSecure, cfg.CookiePath).RegisterRoutes(api)
	role.NewHandler(roleSvc, codec).RegisterRoutes(api)
	history.NewHandler(historySvc, codec).RegisterRoutes(api)
	oauth.NewHandler(oauthSvc, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.CookieSecure, cfg.CookiePath).RegisterRoutes(api)

	log.Printf("auth service listening addr=%s env=%s", cfg.Addr, cfg.AppEnv)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
