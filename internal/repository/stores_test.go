package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/config"
	"recipebox/internal/logger"
	"recipebox/internal/model"
)

func TestOpenStores_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "memory"

	stores, err := OpenStores(cfg, logger.Discard())
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	user := &model.User{Email: "cook@example.com", PasswordHash: "h"}
	require.NoError(t, stores.Users.Create(ctx, user))

	recipe := &model.Recipe{Name: "Soup", Category: "lunch", Ingredients: []string{"water"}, Directions: []string{"boil"}, AuthorID: &user.ID}
	require.NoError(t, stores.Recipes.Create(ctx, recipe))

	found, err := stores.Recipes.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", found.AuthorEmail())
	assert.NoError(t, stores.Close())
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = "oracle"

	_, err := OpenStores(cfg, logger.Discard())
	assert.Error(t, err)
}
