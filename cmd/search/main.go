package main

import (
	"log"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/SmirnovaT/Auth-sprint-2/internal/cache"
	"github.com/SmirnovaT/Auth-sprint-2/internal/config"
	"github.com/SmirnovaT/Auth-sprint-2/internal/middleware"
	"github.com/SmirnovaT/Auth-sprint-2/internal/pkg/response"
	"github.com/SmirnovaT/Auth-sprint-2/internal/searchapi"
	"github.com/SmirnovaT/Auth-sprint-2/internal/token"
)

func main() {
	cfg, err := config.Load(false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// This service only verifies tokens; it never holds the private key.
	codec, err := token.NewVerifier(cfg.PublicKeyPEM, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("token verifier: %v", err)
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{cfg.ElasticAddr}})
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	responses := cache.NewRedisCache(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}))

	svc := searchapi.NewService(es, responses, cfg.SearchCacheTTL)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.RequireRequestID())

	api := router.Group("/api/v1")
	api.GET("/healthcheck", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	searchapi.NewHandler(svc, codec).RegisterRoutes(api)

	log.Printf("search service listening addr=%s env=%s", cfg.Addr, cfg.AppEnv)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
