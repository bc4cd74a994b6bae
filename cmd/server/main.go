package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	_ "recipebox/docs" // swagger docs

	"recipebox/internal/auth"
	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/handler"
	"recipebox/internal/logger"
	"recipebox/internal/repository"
	"recipebox/internal/router"
	"recipebox/internal/service"
)

// @title Recipe Box API
// @version 1.0
// @description Recipe sharing API with JWT authentication and author-only edits.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := repository.OpenStores(cfg, appLogger)
	if err != nil {
		return err
	}
	defer stores.Close()

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "recipebox:")
	defer cacheClient.Close()
	if err := pingCache(ctx, cacheClient); err != nil {
		appLogger.Warn("redis unavailable, serving without cache", slog.String("error", err.Error()))
	}

	// Initialize auth components
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// Initialize services
	authService, err := service.NewAuthService(stores.Users, hasher, jwtService, appLogger)
	if err != nil {
		return err
	}
	userService := service.NewUserService(stores.Users, cacheClient)
	recipeService := service.NewRecipeService(stores.Recipes, stores.Users, cacheClient, cfg.RecipeCacheTTL, appLogger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		appLogger,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewRecipeHandler(recipeService),
	)

	addr := ":" + cfg.ServerPort
	appLogger.Info("server starting",
		slog.String("addr", addr),
		slog.String("db_driver", cfg.DBDriver),
		slog.String("swagger", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func pingCache(ctx context.Context, c *cache.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.Ping(ctx)
}

func swaggerURL(host, port string) string {
	if host == "" {
		host = "localhost:" + port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
