package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/service"
)

// RecipeHandler handles recipe endpoints.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RecipeRequest represents a recipe create or update payload.
type RecipeRequest struct {
	Name        string   `json:"name" validate:"notblank"`
	Category    string   `json:"category" validate:"notblank"`
	Description string   `json:"description" validate:"notblank"`
	Ingredients []string `json:"ingredients" validate:"required,min=1"`
	Directions  []string `json:"directions" validate:"required,min=1"`
}

func (r RecipeRequest) draft() model.RecipeDraft {
	return model.RecipeDraft{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Directions:  r.Directions,
	}
}

// RecipeResponse is the public view of a recipe.
type RecipeResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Directions  []string  `json:"directions"`
	AuthorEmail string    `json:"author_email,omitempty"`
}

// CreatedResponse carries the identifier of a new recipe.
type CreatedResponse struct {
	ID uint `json:"id"`
}

func toRecipeResponse(r *model.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Date:        r.Date,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Directions:  r.Directions,
		AuthorEmail: r.AuthorEmail(),
	}
}

// toRecipeResponses never returns nil so empty results encode as [].
func toRecipeResponses(recipes []model.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, toRecipeResponse(&recipes[i]))
	}
	return out
}

// Create godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe"
// @Success 200 {object} CreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recipe/new [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.recipeService.Create(c.Request().Context(), req.draft(), email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, CreatedResponse{ID: id})
}

// Get godoc
// @Summary Get recipe by id
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	id, err := recipeID(c)
	if err != nil {
		return err
	}

	recipe, err := h.recipeService.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if recipe == nil {
		return httpError(errors.ErrRecipeNotFound)
	}

	return c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

// List godoc
// @Summary List all recipes
// @Tags recipes
// @Produce json
// @Success 200 {array} RecipeResponse
// @Router /recipe/all [get]
func (h *RecipeHandler) List(c echo.Context) error {
	recipes, err := h.recipeService.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponses(recipes))
}

// Update godoc
// @Summary Update a recipe
// @Tags recipes
// @Accept json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Recipe"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/{id} [put]
func (h *RecipeHandler) Update(c echo.Context) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}
	id, err := recipeID(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.recipeService.Update(c.Request().Context(), id, req.draft(), email); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}
	id, err := recipeID(c)
	if err != nil {
		return err
	}

	if err := h.recipeService.Delete(c.Request().Context(), id, email); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Search godoc
// @Summary Search recipes by category or name
// @Description Exactly one of category or name must be given. Results are newest first.
// @Tags recipes
// @Produce json
// @Param category query string false "Category, matched ignoring case"
// @Param name query string false "Name substring, matched ignoring case"
// @Success 200 {array} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /recipe/search [get]
func (h *RecipeHandler) Search(c echo.Context) error {
	params := c.QueryParams()
	hasCategory, hasName := params.Has("category"), params.Has("name")
	if hasCategory == hasName {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "exactly one of category or name must be provided",
			Code:  "INVALID_SEARCH",
		})
	}

	var (
		recipes []model.Recipe
		err     error
	)
	if hasCategory {
		recipes, err = h.recipeService.SearchByCategory(c.Request().Context(), params.Get("category"))
	} else {
		recipes, err = h.recipeService.SearchByName(c.Request().Context(), params.Get("name"))
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toRecipeResponses(recipes))
}

func recipeID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid recipe ID",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
