package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type capturedQuery struct {
	SQL  string
	Vars []interface{}
}

// newDryRunRecipeRepository builds a repository over a mysql dialect that never
// connects and records the SQL each query would send.
func newDryRunRecipeRepository(t *testing.T) (RecipeRepository, *[]capturedQuery) {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:password@tcp(127.0.0.1:3306)/recipes?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	captured := &[]capturedQuery{}
	err = db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		*captured = append(*captured, capturedQuery{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]interface{}(nil), tx.Statement.Vars...),
		})
	})
	require.NoError(t, err)

	return NewRecipeRepository(db), captured
}

func TestRecipeRepository_SearchSQL(t *testing.T) {
	tests := []struct {
		name     string
		run      func(ctx context.Context, repo RecipeRepository) error
		wantSQL  string
		wantVars []interface{}
	}{
		{
			name: "category matched ignoring case, newest first",
			run: func(ctx context.Context, repo RecipeRepository) error {
				_, err := repo.FindByCategory(ctx, "DINNER")
				return err
			},
			wantSQL:  "SELECT * FROM `recipes` WHERE LOWER(category) = ? ORDER BY date DESC",
			wantVars: []interface{}{"dinner"},
		},
		{
			name: "name substring with LIKE wildcards escaped",
			run: func(ctx context.Context, repo RecipeRepository) error {
				_, err := repo.FindByNameContaining(ctx, "50%_Off")
				return err
			},
			wantSQL:  "SELECT * FROM `recipes` WHERE LOWER(name) LIKE ? ORDER BY date DESC",
			wantVars: []interface{}{`%50\%\_off%`},
		},
		{
			name: "list all by id",
			run: func(ctx context.Context, repo RecipeRepository) error {
				_, err := repo.FindAll(ctx)
				return err
			},
			wantSQL: "SELECT * FROM `recipes` ORDER BY id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, captured := newDryRunRecipeRepository(t)

			require.NoError(t, tt.run(context.Background(), repo))

			require.NotEmpty(t, *captured)
			query := (*captured)[0]
			assert.Equal(t, tt.wantSQL, query.SQL)
			assert.Equal(t, tt.wantVars, query.Vars)
		})
	}
}

func TestRecipeRepository_FindByIDForUpdateLocksRow(t *testing.T) {
	repo, captured := newDryRunRecipeRepository(t)

	_, _ = repo.FindByIDForUpdate(context.Background(), 7)

	require.NotEmpty(t, *captured)
	query := (*captured)[0]
	assert.Contains(t, query.SQL, "WHERE `recipes`.`id` = ?")
	assert.Contains(t, query.SQL, "FOR UPDATE")
	assert.Contains(t, query.Vars, uint(7))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pasta", "pasta"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}
