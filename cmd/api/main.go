// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/mekanapp/mekan-backend/internal/common/database"
	"github.com/mekanapp/mekan-backend/internal/common/middleware"
	"github.com/mekanapp/mekan-backend/internal/config"
	"github.com/mekanapp/mekan-backend/internal/graph"
	"github.com/mekanapp/mekan-backend/internal/places"
	"github.com/mekanapp/mekan-backend/internal/recommend"
	"github.com/mekanapp/mekan-backend/internal/social"
	"github.com/mekanapp/mekan-backend/internal/taste"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Mekan Discovery API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional, recommendation cache only)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client

	if cfg.EnableCache && cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Recommendation cache disabled")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 7. Initialize Taste Profile module
	log.Println("\n🎨 Step 7: Initializing Taste Profile module...")

	placesRepo := places.NewPostgresRepository(sqlxDB)
	tasteRepo := taste.NewPostgresRepository(sqlxDB)

	tasteService := taste.NewService(tasteRepo, placesRepo, cfg.MinInteractions, cfg.RecalcStep)
	tasteHandler := taste.NewHandler(tasteService)
	log.Println("✅ Taste Profile module initialized")

	// 8. Initialize Recommendation module
	log.Println("\n🎯 Step 8: Initializing Recommendation module...")

	var recommendCache *recommend.Cache
	if redisClient != nil {
		recommendCache = recommend.NewCache(redisClient, cfg.RecommendationCacheTTL)
		log.Println("   ✅ Recommendation cache enabled")
	}

	recommendService := recommend.NewService(
		placesRepo,
		tasteService,
		recommendCache,
		cfg.DefaultRecommendationLimit,
		cfg.MaxRecommendationLimit,
	)
	recommendHandler := recommend.NewHandler(recommendService)
	log.Println("✅ Recommendation module initialized")

	// 9. Initialize Places module
	log.Println("\n📍 Step 9: Initializing Places module...")

	// Swipes and reviews feed the taste profile and orphan cached
	// recommendations, so the places service gets both hooks
	var cacheInvalidator places.CacheInvalidator
	if recommendCache != nil {
		cacheInvalidator = recommendCache
	}

	placesService := places.NewService(placesRepo, tasteService, cacheInvalidator)
	placesHandler := places.NewHandler(placesService)
	log.Println("✅ Places module initialized")

	// 10. Initialize Social Matching module
	log.Println("\n🤝 Step 10: Initializing Social Matching module...")

	socialRepo := social.NewPostgresRepository(sqlxDB)
	socialService := social.NewService(socialRepo, placesRepo)
	socialHandler := social.NewHandler(socialService)
	log.Println("✅ Social Matching module initialized")

	// 11. Initialize Discovery Graph module
	log.Println("\n🕸️  Step 11: Initializing Discovery Graph module...")

	graphRepo := graph.NewPostgresRepository(sqlxDB)
	graphService := graph.NewService(graphRepo, placesRepo)
	graphHandler := graph.NewHandler(graphService)

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()

	if cfg.EnableGraphRefresh {
		refresher := graph.NewRefresher(graphService, cfg.GraphRefreshHour)
		go refresher.Start(refreshCtx)
		log.Printf("   ✅ Nightly graph refresh scheduled for %02d:00", cfg.GraphRefreshHour)
	}
	log.Println("✅ Discovery Graph module initialized")

	// 12. Set up routes
	log.Println("\n🌐 Step 12: Setting up routes...")

	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/api", apiInfo).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	identityMiddleware := middleware.NewMiddleware()

	places.RegisterRoutes(router, placesHandler, identityMiddleware)
	taste.RegisterRoutes(router, tasteHandler, identityMiddleware)
	recommend.RegisterRoutes(router, recommendHandler, identityMiddleware)
	social.RegisterRoutes(router, socialHandler, identityMiddleware)
	graph.RegisterRoutes(router, graphHandler, identityMiddleware)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	log.Println("✅ Routes configured")

	// 13. Start the server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}

var startTime = time.Now()

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// apiInfo returns API information
func apiInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{
		"name": "Mekan Discovery API",
		"version": "1.0.0",
		"status": "running",
		"endpoints": {
			"health": "GET /health",
			"metrics": "GET /metrics",
			"places": {
				"discover": "GET /api/v1/places/discover",
				"get": "GET /api/v1/places/{id}",
				"swipe": "POST /api/v1/places/swipe",
				"review": "POST /api/v1/places/{id}/reviews",
				"preferences": "GET /api/v1/places/preferences"
			},
			"taste": {
				"profile": "GET /api/v1/me/taste-profile",
				"recalculate": "POST /api/v1/me/taste-profile/recalculate"
			},
			"recommendations": {
				"get": "GET /api/v1/recommendations",
				"contextual": "GET /api/v1/recommendations/contextual"
			},
			"social": {
				"matches": "GET /api/v1/social/matches",
				"compute": "POST /api/v1/social/matches/{placeId}"
			},
			"graph": {
				"get": "GET /api/v1/places/{id}/graph",
				"build": "POST /api/v1/places/{id}/graph/build"
			}
		}
	}`))
}

// Middleware functions

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sql.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		// Place catalog
		`CREATE TABLE IF NOT EXISTS places (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			description TEXT DEFAULT '',
			short_description TEXT DEFAULT '',
			address TEXT DEFAULT '',
			city VARCHAR(100) DEFAULT '',
			categories JSONB DEFAULT '[]',
			tags JSONB DEFAULT '[]',
			price_level VARCHAR(10) DEFAULT '₺₺',
			photos JSONB DEFAULT '[]',
			similar_places JSONB DEFAULT '[]',
			use_cases JSONB DEFAULT '{}',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Swipes, one row per (user, place)
		`CREATE TABLE IF NOT EXISTS place_swipes (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			action VARCHAR(10) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, place_id)
		)`,

		// Reviews, one row per (user, place)
		`CREATE TABLE IF NOT EXISTS visits (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			rating INTEGER CHECK (rating BETWEEN 1 AND 5),
			comment TEXT DEFAULT '',
			atmosphere_tags JSONB DEFAULT '[]',
			suitable_for JSONB DEFAULT '[]',
			visited_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, place_id)
		)`,

		// Raw behavior events for analytics and social matching
		`CREATE TABLE IF NOT EXISTS user_behaviors (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			action_type VARCHAR(30) NOT NULL,
			context JSONB DEFAULT '{}',
			session_id VARCHAR(64) DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Friendships, maintained by the social collaborator service
		`CREATE TABLE IF NOT EXISTS friendships (
			id SERIAL PRIMARY KEY,
			user1_id BIGINT NOT NULL,
			user2_id BIGINT NOT NULL,
			status VARCHAR(20) DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user1_id, user2_id)
		)`,

		// Derived taste profiles, one per user
		`CREATE TABLE IF NOT EXISTS taste_profiles (
			user_id BIGINT PRIMARY KEY,
			category_weights JSONB DEFAULT '{}',
			atmosphere_weights JSONB DEFAULT '{}',
			context_weights JSONB DEFAULT '{}',
			style_label TEXT DEFAULT '',
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Derived social matches
		`CREATE TABLE IF NOT EXISTS social_matches (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			friend_likes INTEGER DEFAULT 0,
			friend_visits INTEGER DEFAULT 0,
			friend_reviews INTEGER DEFAULT 0,
			match_score DOUBLE PRECISION DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, place_id)
		)`,

		// Derived discovery graph edges
		`CREATE TABLE IF NOT EXISTS place_graph_edges (
			id SERIAL PRIMARY KEY,
			from_place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			to_place_id INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			relation VARCHAR(30) NOT NULL,
			strength DOUBLE PRECISION NOT NULL,
			co_like_count INTEGER DEFAULT 0,
			co_visit_count INTEGER DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (from_place_id, to_place_id, relation)
		)`,

		// Indexes for the hot lookups
		`CREATE INDEX IF NOT EXISTS idx_place_swipes_user ON place_swipes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_place_swipes_place_action ON place_swipes(place_id, action)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_place ON visits(place_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_behaviors_place_action ON user_behaviors(place_id, action_type)`,
		`CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON place_graph_edges(from_place_id, strength)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
