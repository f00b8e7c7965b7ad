package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hortaviva/community-garden/internal/model"
	"github.com/hortaviva/community-garden/internal/repository"
	"github.com/hortaviva/community-garden/internal/utils"
)

// UserHandler manages management accounts. Passwords are hashed here,
// before they reach the repository.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

type userStoreReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Cellphone string `json:"cellphone"`
}

type userUpdateReq struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Cellphone *string `json:"cellphone"`
}

// Show handles GET /users/:id.
func (h *UserHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u.Response())
}

// Index handles GET /users.
func (h *UserHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Index(ctx, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	out := model.Page[model.UserResponse]{
		Entities: make([]model.UserResponse, 0, len(users.Entities)),
		RowCount: users.RowCount,
	}
	for _, u := range users.Entities {
		out.Entities = append(out.Entities, u.Response())
	}
	return c.JSON(http.StatusOK, out)
}

// Store handles POST /users.
func (h *UserHandler) Store(c echo.Context) error {
	var req userStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "name, email and password are required")
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Store(ctx, repository.UserStore{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Cellphone:    req.Cellphone,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u.Response())
}

// Update handles PATCH /users/:id. Absent fields stay untouched.
func (h *UserHandler) Update(c echo.Context) error {
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	upd := repository.UserUpdate{
		Name:      req.Name,
		Cellphone: req.Cellphone,
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return badRequest(c, "email cannot be empty")
		}
		upd.Email = &email
	}
	if req.Password != nil {
		if *req.Password == "" {
			return badRequest(c, "password cannot be empty")
		}
		hash, err := utils.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			return fail(c, err)
		}
		upd.PasswordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u.Response())
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
