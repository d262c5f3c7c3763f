package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr            = ":8000"
	defaultDatabaseURL     = "auth.db"
	defaultRedisAddr       = "localhost:6379"
	defaultAccessTTL       = "15m"
	defaultRefreshTTL      = "240h"
	defaultDefaultRole     = "general"
	defaultCookieSecure    = "false"
	defaultCookiePath      = "/"
	defaultPrivateKeyPath  = "keys/private.pem"
	defaultPublicKeyPath   = "keys/public.pem"
	defaultElasticAddr     = "http://localhost:9200"
	defaultSearchCacheTTL  = "5m"
	defaultAuthServiceAddr = "http://localhost:8000"
)

// Config carries the settings for all three binaries; each reads the subset
// it needs. Key material is loaded eagerly so a bad path fails at startup.
type Config struct {
	AppEnv string
	Addr   string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	PrivateKeyPEM []byte
	PublicKeyPEM  []byte

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DefaultUserRole string

	CookieSecure bool
	CookiePath   string

	YandexClientID     string
	YandexClientSecret string
	YandexAuthorizeURL string
	YandexTokenURL     string
	YandexInfoURL      string
	YandexRedirectURI  string

	ElasticAddr    string
	SearchCacheTTL time.Duration

	// AuthServiceAddr is where the admin panel delegates logins to.
	AuthServiceAddr string
}

// Load reads .env (when present) and the environment. withPrivateKey is false
// for the consumers, which hold only the public key.
func Load(withPrivateKey bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Addr:               getEnv("ADDR", defaultAddr),
		DatabaseURL:        getEnv("DATABASE_URL", defaultDatabaseURL),
		RedisAddr:          getEnv("REDIS_ADDR", defaultRedisAddr),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		DefaultUserRole:    getEnv("DEFAULT_USER_ROLE", defaultDefaultRole),
		CookieSecure:       parseBoolEnv("COOKIE_SECURE", defaultCookieSecure),
		CookiePath:         getEnv("COOKIE_PATH", defaultCookiePath),
		YandexClientID:     os.Getenv("YANDEX_OAUTH_CLIENT_ID"),
		YandexClientSecret: os.Getenv("YANDEX_OAUTH_CLIENT_SECRET"),
		YandexAuthorizeURL: getEnv("YANDEX_OAUTH_AUTHORIZE_URL", "https://oauth.yandex.ru/authorize"),
		YandexTokenURL:     getEnv("YANDEX_OAUTH_TOKEN_URL", "https://oauth.yandex.ru/token"),
		YandexInfoURL:      getEnv("YANDEX_OAUTH_INFO_URL", "https://login.yandex.ru/info"),
		YandexRedirectURI:  os.Getenv("YANDEX_OAUTH_REDIRECT_URI"),
		ElasticAddr:        getEnv("ELASTIC_ADDR", defaultElasticAddr),
		AuthServiceAddr:    getEnv("AUTH_SERVICE_ADDR", defaultAuthServiceAddr),
	}

	var err error
	cfg.AccessTokenTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.SearchCacheTTL, err = parseDurationEnv("SEARCH_CACHE_TTL", defaultSearchCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.PublicKeyPEM, err = os.ReadFile(getEnv("PUBLIC_KEY_PATH", defaultPublicKeyPath))
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	if withPrivateKey {
		cfg.PrivateKeyPEM, err = os.ReadFile(getEnv("PRIVATE_KEY_PATH", defaultPrivateKeyPath))
		if err != nil {
			return nil, fmt.Errorf("reading private key: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be > 0")
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL")
	}
	if cfg.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	if isProdLike(cfg.AppEnv) && !cfg.CookieSecure {
		return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
