package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/model"
)

// RecipeRepository defines recipe persistence operations.
// Every read preloads the author. FindByID returns gorm.ErrRecordNotFound when absent.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	DeleteByID(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Recipe, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Recipe, error)
	FindAll(ctx context.Context) ([]model.Recipe, error)
	FindByCategory(ctx context.Context, category string) ([]model.Recipe, error)
	FindByNameContaining(ctx context.Context, name string) ([]model.Recipe, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RecipeRepository) error) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author")
}

// Create inserts a new recipe. Associations are never written through the recipe.
func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// Update saves all columns of an existing recipe.
func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error
}

// DeleteByID permanently removes a recipe.
func (r *recipeRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Recipe{}, id).Error
}

// FindByID finds a recipe by ID.
func (r *recipeRepository) FindByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.withAuthor(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByIDForUpdate finds a recipe by ID with a row-level lock. Only meaningful inside WithTransaction.
func (r *recipeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.withAuthor(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindAll lists every recipe in insertion order.
func (r *recipeRepository) FindAll(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.withAuthor(ctx).Order("id").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByCategory matches category case-insensitively, newest first.
func (r *recipeRepository) FindByCategory(ctx context.Context, category string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.withAuthor(ctx).
		Where("LOWER(category) = ?", strings.ToLower(category)).
		Order("date DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByNameContaining matches a case-insensitive substring of name, newest first.
func (r *recipeRepository) FindByNameContaining(ctx context.Context, name string) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := r.withAuthor(ctx).
		Where("LOWER(name) LIKE ?", "%"+escapeLike(strings.ToLower(name))+"%").
		Order("date DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// WithTransaction executes a function within a database transaction.
func (r *recipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &recipeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
