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

// PeopleHandler manages registered community members.
type PeopleHandler struct {
	Peoples *repository.PeopleRepo
}

func NewPeopleHandler(peoples *repository.PeopleRepo) *PeopleHandler {
	return &PeopleHandler{Peoples: peoples}
}

type peopleStoreReq struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Cellphone string     `json:"cellphone"`
	BirthDate model.Date `json:"birth_date"`
	Address   string     `json:"address"`
}

type peopleUpdateReq struct {
	Name      *string     `json:"name"`
	Email     *string     `json:"email"`
	Cellphone *string     `json:"cellphone"`
	BirthDate *model.Date `json:"birth_date"`
	Address   *string     `json:"address"`
}

// Show handles GET /peoples/:id.
func (h *PeopleHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Peoples.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Index handles GET /peoples with pagination, ordering and name
// search.
func (h *PeopleHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	peoples, err := h.Peoples.Index(ctx, page, pageSize, orderParams(c), c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, peoples)
}

// Store handles POST /peoples. Registrants must be adults and emails
// are unique.
func (h *PeopleHandler) Store(c echo.Context) error {
	var req peopleStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return badRequest(c, "name and email are required")
	}
	if req.BirthDate.IsZero() {
		return badRequest(c, "birth_date is required")
	}
	if err := utils.MustRepresentAnAdult(req.BirthDate); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Peoples.Store(ctx, repository.PeopleStore{
		Name:      req.Name,
		Email:     req.Email,
		Cellphone: req.Cellphone,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PATCH /peoples/:id.
func (h *PeopleHandler) Update(c echo.Context) error {
	var req peopleUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.PeopleUpdate{
		Cellphone: req.Cellphone,
		Address:   req.Address,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "name cannot be empty")
		}
		upd.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return badRequest(c, "email cannot be empty")
		}
		upd.Email = &email
	}
	if req.BirthDate != nil {
		if err := utils.MustRepresentAnAdult(*req.BirthDate); err != nil {
			return badRequest(c, err.Error())
		}
		upd.BirthDate = req.BirthDate
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Peoples.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /peoples/:id.
func (h *PeopleHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Peoples.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
