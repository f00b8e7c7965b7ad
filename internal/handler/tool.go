package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hortaviva/community-garden/internal/repository"
	"github.com/hortaviva/community-garden/internal/utils"
)

// ToolHandler manages the shared tool catalog.
type ToolHandler struct {
	Tools *repository.ToolRepo
}

func NewToolHandler(tools *repository.ToolRepo) *ToolHandler {
	return &ToolHandler{Tools: tools}
}

type toolStoreReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
}

type toolUpdateReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Amount      *int    `json:"amount"`
}

// Show handles GET /tools/:id.
func (h *ToolHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tools.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Index handles GET /tools with pagination, ordering and name search.
func (h *ToolHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tools, err := h.Tools.Index(ctx, page, pageSize, orderParams(c), c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tools)
}

// Store handles POST /tools.
func (h *ToolHandler) Store(c echo.Context) error {
	var req toolStoreReq
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tools.Store(ctx, repository.ToolStore{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PATCH /tools/:id.
func (h *ToolHandler) Update(c echo.Context) error {
	var req toolUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.ToolUpdate{Description: req.Description}
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tools.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /tools/:id.
func (h *ToolHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tools.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
