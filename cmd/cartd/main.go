package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/pkg/cart"
	"github.com/Sternrassler/cart-engine/pkg/logging"
	"github.com/Sternrassler/cart-engine/pkg/pricing"
	"github.com/Sternrassler/cart-engine/pkg/storage"
)

type config struct {
	Addr           string
	DBPath         string
	SessionBackend string // "memory" or "redis"
	RedisURL       string
	SessionTTL     time.Duration
	LogLevel       string
	LogPretty      bool
	Seed           bool
	CartModifiers  []string
	ItemModifiers  []string
}

func loadConfig() config {
	return config{
		Addr:           ":" + getenv("PORT", "8080"),
		DBPath:         getenv("CART_DB_PATH", "cart.db"),
		SessionBackend: getenv("SESSION_BACKEND", "memory"),
		RedisURL:       getenv("REDIS_URL", "localhost:6379"),
		SessionTTL:     24 * time.Hour,
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogPretty:      getenv("LOG_PRETTY", "false") == "true",
		Seed:           getenv("CART_SEED", "false") == "true",
		CartModifiers:  splitList(getenv("CART_MODIFIERS", "")),
		ItemModifiers:  splitList(getenv("CART_ITEM_MODIFIERS", "")),
	}
}

func main() {
	cfg := loadConfig()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.LogPretty
	logging.Setup(logCfg)
	logger := logging.NewLogger("cartd")

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open cart database")
	}
	defer store.Close()

	ctx := context.Background()
	if cfg.Seed {
		if err := seedProducts(ctx, store); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed demo products")
		}
		logger.Info().Msg("Seeded demo products")
	}

	registry := pricing.NewRegistry(pricing.Config{
		CartModifiers: cfg.CartModifiers,
		ItemModifiers: cfg.ItemModifiers,
	})
	registerBuiltinModifiers(registry)

	resolver, err := cart.NewResolver(cart.Deps{
		Store:    store,
		Catalog:  sqliteCatalog{store: store},
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cart resolver")
	}

	var sessions sessionProvider
	switch cfg.SessionBackend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", cfg.RedisURL).Msg("Failed to connect to Redis")
		}
		sessions = redisSessions{client: redisClient, ttl: cfg.SessionTTL}
		logger.Info().Str("redis_url", cfg.RedisURL).Msg("Using Redis session backend")
	default:
		sessions = newMemorySessions()
		logger.Info().Msg("Using in-memory session backend")
	}

	srv := &server{
		resolver: resolver,
		catalog:  sqliteCatalog{store: store},
		sessions: sessions,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/cart", srv.handleCart)
	mux.HandleFunc("/cart/items", srv.handleItems)
	mux.HandleFunc("/cart/clear", srv.handleClear)

	logger.Info().Str("addr", cfg.Addr).Msg("Starting cart server")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func seedProducts(ctx context.Context, store *storage.SQLiteStore) error {
	demo := []*storage.ProductRecord{
		storage.NewProductRecord("book-go", "The Go Programming Language", decimal.RequireFromString("3.50"), true, 10),
		storage.NewProductRecord("shirt-gopher", "Gopher Shirt", decimal.RequireFromString("10.00"), true, cart.StockUnlimited),
		storage.NewProductRecord("mug-retired", "Retired Mug", decimal.RequireFromString("7.25"), false, 0),
	}
	for _, p := range demo {
		if err := store.SaveProduct(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
