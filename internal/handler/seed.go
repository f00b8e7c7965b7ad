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

// SeedHandler manages the seed catalog.
type SeedHandler struct {
	Seeds *repository.SeedRepo
}

func NewSeedHandler(seeds *repository.SeedRepo) *SeedHandler {
	return &SeedHandler{Seeds: seeds}
}

type seedStoreReq struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Amount      int            `json:"amount"`
	SeedType    model.SeedType `json:"seed_type"`
}

type seedUpdateReq struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Amount      *int            `json:"amount"`
	SeedType    *model.SeedType `json:"seed_type"`
}

// Show handles GET /seeds/:id.
func (h *SeedHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Seeds.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Index handles GET /seeds with pagination, ordering and name search.
func (h *SeedHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	seeds, err := h.Seeds.Index(ctx, page, pageSize, orderParams(c), c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, seeds)
}

// Store handles POST /seeds. Names are unique and stock must be
// positive.
func (h *SeedHandler) Store(c echo.Context) error {
	var req seedStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	if err := utils.MustBePositive(req.Amount); err != nil {
		return badRequest(c, err.Error())
	}
	if !model.ValidSeedType(req.SeedType) {
		return badRequest(c, "seed_type must be one of vegetable, fruit, herb, other")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Seeds.Store(ctx, repository.SeedStore{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		SeedType:    req.SeedType,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PATCH /seeds/:id.
func (h *SeedHandler) Update(c echo.Context) error {
	var req seedUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.SeedUpdate{Description: req.Description}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return badRequest(c, "name cannot be empty")
		}
		upd.Name = &name
	}
	if req.Amount != nil {
		if err := utils.MustBePositive(*req.Amount); err != nil {
			return badRequest(c, err.Error())
		}
		upd.Amount = req.Amount
	}
	if req.SeedType != nil {
		if !model.ValidSeedType(*req.SeedType) {
			return badRequest(c, "seed_type must be one of vegetable, fruit, herb, other")
		}
		upd.SeedType = req.SeedType
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Seeds.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /seeds/:id.
func (h *SeedHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Seeds.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
