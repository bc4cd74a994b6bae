package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"recipebox/internal/model"
)

// MemoryStore keeps users and recipes in process memory. It is used when no
// database is configured and by tests. Lookups mirror the GORM repositories,
// including gorm.ErrRecordNotFound for absent rows.
type MemoryStore struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	users      map[uint]model.User
	recipes    map[uint]model.Recipe
	nextUserID uint
	nextID     uint
	now        func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uint]model.User),
		recipes: make(map[uint]model.Recipe),
		now:     time.Now,
	}
}

// Users returns a UserRepository backed by the store.
func (s *MemoryStore) Users() UserRepository { return &memoryUsers{s: s} }

// Recipes returns a RecipeRepository backed by the store.
func (s *MemoryStore) Recipes() RecipeRepository { return &memoryRecipes{s: s} }

type memoryUsers struct {
	s *MemoryStore
}

func (r *memoryUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.userByEmail(email)
	return ok, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.userByEmail(email)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.userByEmail(user.Email); taken {
		return ErrDuplicateEmail
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	now := r.s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	r.s.users[user.ID] = *user
	return nil
}

// userByEmail must be called with mu held.
func (s *MemoryStore) userByEmail(email string) (model.User, bool) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

type memoryRecipes struct {
	s *MemoryStore
}

// withAuthor returns a detached copy of recipe with Author resolved. Must be called with mu held.
func (s *MemoryStore) withAuthor(recipe model.Recipe) model.Recipe {
	recipe.Ingredients = append([]string(nil), recipe.Ingredients...)
	recipe.Directions = append([]string(nil), recipe.Directions...)
	recipe.Author = nil
	if recipe.AuthorID != nil {
		if u, ok := s.users[*recipe.AuthorID]; ok {
			recipe.Author = &u
		}
	}
	return recipe
}

func (r *memoryRecipes) Create(_ context.Context, recipe *model.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	recipe.ID = r.s.nextID
	stored := *recipe
	stored.Author = nil
	r.s.recipes[recipe.ID] = r.s.withAuthor(stored)
	return nil
}

func (r *memoryRecipes) Update(_ context.Context, recipe *model.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[recipe.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.recipes[recipe.ID] = r.s.withAuthor(*recipe)
	return nil
}

func (r *memoryRecipes) DeleteByID(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.recipes, id)
	return nil
}

func (r *memoryRecipes) FindByID(_ context.Context, id uint) (*model.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	recipe, ok := r.s.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := r.s.withAuthor(recipe)
	return &found, nil
}

// FindByIDForUpdate relies on WithTransaction for exclusion.
func (r *memoryRecipes) FindByIDForUpdate(ctx context.Context, id uint) (*model.Recipe, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryRecipes) FindAll(_ context.Context) ([]model.Recipe, error) {
	recipes := r.s.filter(func(model.Recipe) bool { return true })
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

func (r *memoryRecipes) FindByCategory(_ context.Context, category string) ([]model.Recipe, error) {
	recipes := r.s.filter(func(recipe model.Recipe) bool {
		return strings.EqualFold(recipe.Category, category)
	})
	sortNewestFirst(recipes)
	return recipes, nil
}

func (r *memoryRecipes) FindByNameContaining(_ context.Context, name string) ([]model.Recipe, error) {
	needle := strings.ToLower(name)
	recipes := r.s.filter(func(recipe model.Recipe) bool {
		return strings.Contains(strings.ToLower(recipe.Name), needle)
	})
	sortNewestFirst(recipes)
	return recipes, nil
}

// WithTransaction serializes fn against other transactions. Writes are not rolled back on error;
// callers only write after every check has passed.
func (r *memoryRecipes) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RecipeRepository) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return fn(ctx, r)
}

func (s *MemoryStore) filter(keep func(model.Recipe) bool) []model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipes := make([]model.Recipe, 0, len(s.recipes))
	for _, recipe := range s.recipes {
		if keep(recipe) {
			recipes = append(recipes, s.withAuthor(recipe))
		}
	}
	return recipes
}

func sortNewestFirst(recipes []model.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		if recipes[i].Date.Equal(recipes[j].Date) {
			return recipes[i].ID > recipes[j].ID
		}
		return recipes[i].Date.After(recipes[j].Date)
	})
}
