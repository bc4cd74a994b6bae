package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"recipebox/internal/cache"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
)

const defaultRecipeCacheTTL = 5 * time.Minute

// cacheRedeleteDelay is how long after a write the recipe key is dropped a second time,
// evicting a value a concurrent GetByID read before the commit and cached after it.
const cacheRedeleteDelay = 500 * time.Millisecond

// RecipeService handles recipe CRUD and search. Mutations are restricted to the recipe's author.
type RecipeService interface {
	Create(ctx context.Context, draft model.RecipeDraft, ownerEmail string) (uint, error)
	// GetByID returns nil without error when the recipe does not exist.
	GetByID(ctx context.Context, id uint) (*model.Recipe, error)
	ListAll(ctx context.Context) ([]model.Recipe, error)
	Update(ctx context.Context, id uint, draft model.RecipeDraft, callerEmail string) error
	Delete(ctx context.Context, id uint, callerEmail string) error
	SearchByCategory(ctx context.Context, category string) ([]model.Recipe, error)
	SearchByName(ctx context.Context, name string) ([]model.Recipe, error)
}

type recipeService struct {
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	cache      *cache.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
	now        func() time.Time
	afterFunc  func(time.Duration, func())
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	cache *cache.Client,
	cacheTTL time.Duration,
	logger *slog.Logger,
) RecipeService {
	if cacheTTL <= 0 {
		cacheTTL = defaultRecipeCacheTTL
	}
	return &recipeService{
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
		afterFunc:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

func (s *recipeService) cacheKey(id uint) string {
	return fmt.Sprintf("recipe:%d", id)
}

// Create validates the draft, stamps the date and persists it with the owner as author.
func (s *recipeService) Create(ctx context.Context, draft model.RecipeDraft, ownerEmail string) (uint, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}

	owner, err := s.userRepo.FindByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, fmt.Errorf("resolve owner: %w", err)
	}

	recipe := &model.Recipe{AuthorID: &owner.ID}
	draft.Apply(recipe, s.now())

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return 0, fmt.Errorf("create recipe: %w", err)
	}

	s.logger.InfoContext(ctx, "recipe created", slog.Uint64("recipe_id", uint64(recipe.ID)), slog.String("author", ownerEmail))
	return recipe.ID, nil
}

// GetByID retrieves a recipe by ID with caching.
func (s *recipeService) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var cached model.Recipe
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), recipe, s.cacheTTL)
	return recipe, nil
}

// ListAll returns every recipe.
func (s *recipeService) ListAll(ctx context.Context) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Update overwrites the editable fields of a recipe owned by callerEmail and refreshes its date.
func (s *recipeService) Update(ctx context.Context, id uint, draft model.RecipeDraft, callerEmail string) error {
	if err := validateDraft(draft); err != nil {
		return err
	}

	err := s.recipeRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.RecipeRepository) error {
		recipe, err := s.lockOwned(ctx, txRepo, id, callerEmail)
		if err != nil {
			return err
		}

		draft.Apply(recipe, s.now())
		if err := txRepo.Update(ctx, recipe); err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "recipe updated", slog.Uint64("recipe_id", uint64(id)), slog.String("author", callerEmail))
	return nil
}

// Delete permanently removes a recipe owned by callerEmail.
func (s *recipeService) Delete(ctx context.Context, id uint, callerEmail string) error {
	err := s.recipeRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.RecipeRepository) error {
		if _, err := s.lockOwned(ctx, txRepo, id, callerEmail); err != nil {
			return err
		}
		if err := txRepo.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "recipe deleted", slog.Uint64("recipe_id", uint64(id)), slog.String("author", callerEmail))
	return nil
}

// invalidate drops the cached recipe now and once more after cacheRedeleteDelay.
func (s *recipeService) invalidate(ctx context.Context, id uint) {
	key := s.cacheKey(id)
	_ = s.cache.Delete(ctx, key)

	detached := context.WithoutCancel(ctx)
	s.afterFunc(cacheRedeleteDelay, func() {
		_ = s.cache.Delete(detached, key)
	})
}

// lockOwned loads the recipe under a row lock and checks that callerEmail is its author.
func (s *recipeService) lockOwned(ctx context.Context, txRepo repository.RecipeRepository, id uint, callerEmail string) (*model.Recipe, error) {
	recipe, err := txRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}

	if !recipe.IsOwnedBy(callerEmail) {
		s.logger.WarnContext(ctx, "recipe ownership violation",
			slog.Uint64("recipe_id", uint64(id)),
			slog.String("caller", callerEmail),
			slog.String("author", recipe.AuthorEmail()),
		)
		return nil, fmt.Errorf("%w: you can only modify your own recipes", apperrors.ErrAccessDenied)
	}
	return recipe, nil
}

// SearchByCategory returns recipes whose category equals category ignoring case, newest first.
func (s *recipeService) SearchByCategory(ctx context.Context, category string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("search by category: %w", err)
	}
	return recipes, nil
}

// SearchByName returns recipes whose name contains name ignoring case, newest first.
func (s *recipeService) SearchByName(ctx context.Context, name string) ([]model.Recipe, error) {
	recipes, err := s.recipeRepo.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search by name: %w", err)
	}
	return recipes, nil
}

func validateDraft(draft model.RecipeDraft) error {
	switch {
	case strings.TrimSpace(draft.Name) == "":
		return fmt.Errorf("%w: name must not be blank", apperrors.ErrValidation)
	case strings.TrimSpace(draft.Category) == "":
		return fmt.Errorf("%w: category must not be blank", apperrors.ErrValidation)
	case len(draft.Ingredients) == 0:
		return fmt.Errorf("%w: ingredients must not be empty", apperrors.ErrValidation)
	case len(draft.Directions) == 0:
		return fmt.Errorf("%w: directions must not be empty", apperrors.ErrValidation)
	}
	return nil
}
