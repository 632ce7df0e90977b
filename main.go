package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialhub/go-services/handlers"
	"github.com/socialhub/go-services/internal/auth"
	"github.com/socialhub/go-services/internal/comments"
	"github.com/socialhub/go-services/internal/config"
	"github.com/socialhub/go-services/internal/credentials"
	"github.com/socialhub/go-services/internal/database"
	"github.com/socialhub/go-services/internal/document"
	"github.com/socialhub/go-services/internal/document/store"
	"github.com/socialhub/go-services/internal/media"
	"github.com/socialhub/go-services/internal/oidc"
	"github.com/socialhub/go-services/internal/posts"
	"github.com/socialhub/go-services/internal/storage"
	"github.com/socialhub/go-services/internal/tokens"
	"github.com/socialhub/go-services/pkg/logger"
	"github.com/socialhub/go-services/pkg/metrics"
	"github.com/socialhub/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Infof("log level: %s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s storage=%s mongo=%v redis=%v keycloak=%v",
		cfg.Server.Environment, cfg.Storage.Backend, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Keycloak.Enabled())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis backs the shared rate limiter when configured
	var redisClient *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis: %s", addr)
		}
		defer redisClient.Close()
	}
	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limiter = middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)
		} else {
			limiter = middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
	}

	// Document stores: MongoDB when configured, process memory otherwise
	var (
		mongoClient  *mongo.Client
		postStore    document.Store[posts.Post]
		commentStore document.Store[comments.Comment]
	)
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		db := mongoClient.Database(cfg.MongoDB.Database)

		ps := store.NewMongo[posts.Post](db.Collection(cfg.MongoDB.PostsCollection))
		cs := store.NewMongo[comments.Comment](db.Collection(cfg.MongoDB.CommentsCollection))
		for name, s := range map[string]interface{ EnsureIndexes(context.Context) error }{"posts": ps, "comments": cs} {
			if err := s.EnsureIndexes(ctx); err != nil {
				logger.Warnf("failed to ensure %s indexes: %v", name, err)
			}
		}
		postStore, commentStore = ps, cs
	} else {
		logger.Warnf("MONGODB_URI not set: posts and comments are kept in memory")
		postStore = store.NewMemory[posts.Post]()
		commentStore = store.NewMemory[comments.Comment]()
	}

	// Media backend; the container is created when absent
	backend, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}
	if err := backend.EnsureContainer(ctx); err != nil {
		logger.Fatalf("failed to ensure media container %q: %v", cfg.Storage.Container, err)
	}
	logger.Slog().Info("media storage ready", "backend", cfg.Storage.Backend, "container", cfg.Storage.Container)

	// Token issuer and credential store
	issuer, err := tokens.NewIssuer(tokens.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	if err != nil {
		logger.Fatalf("failed to initialize token issuer: %v", err)
	}
	hasher := credentials.NewHasher(credentials.DefaultParams)
	var creds credentials.Store
	switch cfg.Auth.CredentialStore {
	case "mongo":
		if mongoClient == nil {
			logger.Fatalf("mongo credential store requires MONGODB_URI")
		}
		creds = credentials.NewMongoStore(mongoClient.Database(cfg.MongoDB.Database).Collection(credentials.Collection), hasher)
	default:
		static, err := credentials.NewStatic(hasher, cfg.Auth.Identity, cfg.Auth.Secret)
		if err != nil {
			logger.Fatalf("failed to initialize credentials: %v", err)
		}
		creds = static
		if cfg.Auth.Secret == "password" {
			logger.Warnf("AUTH_SECRET is the default placeholder; set a real secret outside development")
		}
	}

	// Keycloak tokens are accepted next to our own when configured
	var oidcVerifier middleware.Verifier
	if cfg.Keycloak.Enabled() {
		ver, err := oidc.NewVerifier(ctx, oidc.IssuerURL(cfg.Keycloak.URL, cfg.Keycloak.Realm), cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			oidcVerifier = ver
		}
	}

	verifier := middleware.Chain(issuer, oidcVerifier)
	var guard gin.HandlerFunc
	if cfg.Auth.RequireWrite {
		guard = middleware.AuthMiddleware(verifier)
	} else {
		logger.Warnf("AUTH_REQUIRE_WRITE=false: write routes are open")
	}

	r := newRouter(verifier, limiter)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies answer
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"storage": backend != nil}
		if mongoClient != nil {
			pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			deps["mongodb"] = mongoClient.Ping(pctx, nil) == nil
			cancel()
		}
		if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis && redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
		}
		if cfg.Keycloak.Enabled() {
			deps["oidc"] = oidcVerifier != nil
		}
		for _, ok := range deps {
			ready = ready && ok
		}
		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.RegisterRoutes(r, handlers.Services{
		Posts:    posts.NewService(postStore),
		Comments: comments.NewService(commentStore),
		Media:    media.NewService(backend),
		Auth:     auth.NewService(creds, issuer),
	}, guard)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting socialhub service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// newRouter installs the global middleware. Identify runs before the limiter
// so authenticated callers are limited per subject; route guards run after both.
func newRouter(verifier middleware.Verifier, limiter gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	// Lightweight CORS middleware: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition, Location")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Identify(verifier))
	if limiter != nil {
		r.Use(limiter)
	}
	return r
}
