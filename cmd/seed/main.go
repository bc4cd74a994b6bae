package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"recipebox/internal/auth"
	"recipebox/internal/config"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/logger"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

//go:embed recipes.json
var defaultRecipes []byte

// SeedRecipe mirrors the recipe payload accepted by the API.
type SeedRecipe struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Directions  []string `json:"directions"`
}

func main() {
	file := flag.String("file", "", "path to a JSON array of recipes (defaults to the bundled set)")
	email := flag.String("email", "demo@recipebox.local", "account that will own the seeded recipes")
	password := flag.String("password", "demo-password", "password used when the account has to be registered")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	recipes, err := loadRecipes(*file)
	if err != nil {
		log.Fatalf("load recipes: %v", err)
	}

	stores, err := repository.OpenStores(cfg, appLogger)
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}
	defer stores.Close()

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	authService, err := service.NewAuthService(stores.Users, auth.NewBcryptHasher(cfg.BcryptCost), jwtService, appLogger)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	recipeService := service.NewRecipeService(stores.Recipes, stores.Users, nil, cfg.RecipeCacheTTL, appLogger)

	created, skipped, err := seed(context.Background(), authService, recipeService, *email, *password, recipes)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	appLogger.Info("seed completed", slog.Int("created", created), slog.Int("skipped", skipped), slog.String("owner", *email))
}

func loadRecipes(path string) ([]SeedRecipe, error) {
	data := defaultRecipes
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	var recipes []SeedRecipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

// seed registers the owner when missing and creates every recipe under it.
// Recipes failing validation are skipped rather than aborting the run.
func seed(ctx context.Context, authService service.AuthService, recipeService service.RecipeService, email, password string, recipes []SeedRecipe) (created, skipped int, err error) {
	if _, err := authService.Register(ctx, email, password); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return 0, 0, fmt.Errorf("register owner: %w", err)
	}

	for _, r := range recipes {
		draft := model.RecipeDraft{
			Name:        r.Name,
			Category:    r.Category,
			Description: r.Description,
			Ingredients: r.Ingredients,
			Directions:  r.Directions,
		}
		if _, err := recipeService.Create(ctx, draft, email); err != nil {
			if errors.Is(err, apperrors.ErrValidation) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
