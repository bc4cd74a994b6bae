package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"recipebox/internal/auth"
	"recipebox/internal/errors"
	"recipebox/internal/service"
)

// ClaimsContextKey is where the JWT middleware stores the verified *auth.Claims.
const ClaimsContextKey = "claims"

// UserHandler serves account endpoints for authenticated callers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Me godoc
// @Summary Current account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// callerEmail returns the identity the JWT middleware resolved for this request.
func callerEmail(c echo.Context) (string, error) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	if !ok || claims.Email == "" {
		return "", httpError(errors.ErrInvalidToken)
	}
	return claims.Email, nil
}
