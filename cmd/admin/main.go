package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SmirnovaT/Auth-sprint-2/internal/adminpanel"
	"github.com/SmirnovaT/Auth-sprint-2/internal/config"
	"github.com/SmirnovaT/Auth-sprint-2/internal/database"
	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
	"github.com/SmirnovaT/Auth-sprint-2/pkg/authclient"
)

func main() {
	cfg, err := config.Load(false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	codec, err := token.NewVerifier(cfg.PublicKeyPEM, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("token verifier: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := db.AutoMigrate(&adminpanel.Filmwork{}, &adminpanel.Genre{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	content := adminpanel.NewContentRepository(db)
	authSDK := authclient.New(cfg.AuthServiceAddr)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.RequireRequestID())

	api := router.Group("/api/v1")
	api.GET("/healthcheck", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	adminpanel.NewHandler(content, authSDK, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.CookieSecure, cfg.CookiePath).RegisterRoutes(api)

	log.Printf("admin panel listening addr=%s env=%s", cfg.Addr, cfg.AppEnv)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
