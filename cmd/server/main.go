package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/art-marketplace/config"
	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/email"
	"github.com/ErlanBelekov/art-marketplace/internal/geocode"
	"github.com/ErlanBelekov/art-marketplace/internal/health"
	"github.com/ErlanBelekov/art-marketplace/internal/imagehost"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/rediscache"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/store"
	ctxlog "github.com/ErlanBelekov/art-marketplace/internal/log"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
	"github.com/ErlanBelekov/art-marketplace/internal/token"
	httptransport "github.com/ErlanBelekov/art-marketplace/internal/transport/http"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/handler"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/ErlanBelekov/art-marketplace/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	st, err := store.Open(ctx, cfg)
	if err != nil {
		stop()
		log.Fatalf("store: %v", err)
	}
	defer st.Close()
	deps := st.Pingers

	// Upstreams
	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	geoapify := geocode.NewClient(upstreamClient, cfg.GeoapifyAPIKey, cfg.GeoapifyBaseURL, cfg.GeoapifyMapsURL)
	var geocoder usecase.Geocoder = geoapify
	if cfg.RedisURL != "" {
		rdb, err := rediscache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()
		geocoder = geocode.NewCachedGeocoder(geocoder, rediscache.NewGeocodeCache(rdb, geoapify.StaticMapURL), cfg.GeocodeCacheTTL, logger)
		deps["redis"] = health.PingFunc(rediscache.Pinger(rdb))
	}

	var images usecase.ImageHost = imagehost.Unconfigured{}
	if cfg.CloudinaryURL != "" {
		cld, err := imagehost.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			stop()
			log.Fatalf("cloudinary: %v", err)
		}
		images = cld
	} else {
		logger.Warn("CLOUDINARY_URL not set, image uploads are disabled")
	}

	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.JWTTTL)

	// Use cases
	authUsecase := usecase.NewAuthUsecase(st.Identities, tokens, emailSender, cfg.BcryptCost, logger)
	listingUsecase := usecase.NewListingUsecase(st.Listings, st.Identities)
	relayUsecase := usecase.NewRelayUsecase(st.Listings, images, geocoder)

	// Handlers
	cookie := handler.CookieConfig{MaxAge: cfg.JWTTTL, Secure: cfg.Env != "local"}
	handlers := httptransport.Handlers{
		Artist:  handler.NewAuthHandler(authUsecase, listingUsecase, domain.RoleArtist, cookie, logger),
		User:    handler.NewAuthHandler(authUsecase, listingUsecase, domain.RoleUser, cookie, logger),
		Listing: handler.NewListingHandler(listingUsecase, logger),
		Relay:   handler.NewRelayHandler(relayUsecase, cfg.MaxUploadBytes, logger),
	}

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, handlers, authUsecase, httptransport.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		AuthLimiter: middleware.NewClientRateLimiter(cfg.AuthRatePerMin, cfg.AuthRateBurst),
	})

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
