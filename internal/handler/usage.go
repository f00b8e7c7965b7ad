package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hortaviva/community-garden/internal/repository"
)

// Seed and tool checkouts are twins: a volunteer starts a usage
// against their assignment and ends it when the stock or tool comes
// back. Both handlers live here because they differ only in the item
// repository they validate against.

type seedUsageStartReq struct {
	VoluntaryID string `json:"voluntary_id"`
	SeedID      string `json:"seed_id"`
}

type toolUsageStartReq struct {
	VoluntaryID string `json:"voluntary_id"`
	ToolID      string `json:"tool_id"`
}

// usageFilterFrom reads the shared listing filters from the query
// string. item_id matches the seed or tool reference depending on the
// endpoint.
func usageFilterFrom(c echo.Context) repository.UsageFilter {
	return repository.UsageFilter{
		VoluntaryID: c.QueryParam("voluntary_id"),
		ItemID:      c.QueryParam("item_id"),
		GroundID:    c.QueryParam("ground_id"),
		BedLabel:    c.QueryParam("bed_label"),
	}
}

// SeedUsageHandler manages seed stock checkouts.
type SeedUsageHandler struct {
	Usages      *repository.SeedUsageRepo
	Voluntaries *repository.VoluntaryRepo
	Seeds       *repository.SeedRepo
}

func NewSeedUsageHandler(u *repository.SeedUsageRepo, v *repository.VoluntaryRepo, s *repository.SeedRepo) *SeedUsageHandler {
	return &SeedUsageHandler{Usages: u, Voluntaries: v, Seeds: s}
}

// Show handles GET /voluntaries-using-seeds/:id.
func (h *SeedUsageHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usages.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Index handles GET /voluntaries-using-seeds.
func (h *SeedUsageHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	usages, err := h.Usages.Index(ctx, page, pageSize, usageFilterFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, usages)
}

// Start handles POST /voluntaries-using-seeds. A voluntary cannot hold
// two open checkouts of the same seed.
func (h *SeedUsageHandler) Start(c echo.Context) error {
	var req seedUsageStartReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.VoluntaryID == "" || req.SeedID == "" {
		return badRequest(c, "voluntary_id and seed_id are required")
	}
	seedID, err := primitive.ObjectIDFromHex(req.SeedID)
	if err != nil {
		return badRequest(c, "seed_id is not a valid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	voluntary, err := h.Voluntaries.Show(ctx, req.VoluntaryID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Seeds.Exists(ctx, req.SeedID); err != nil {
		return fail(c, err)
	}

	u, err := h.Usages.Start(ctx, voluntary, seedID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// End handles POST /voluntaries-using-seeds/:id/end, stamping today
// as the return date.
func (h *SeedUsageHandler) End(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usages.End(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /voluntaries-using-seeds/:id.
func (h *SeedUsageHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Usages.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToolUsageHandler manages tool borrowings.
type ToolUsageHandler struct {
	Usages      *repository.ToolUsageRepo
	Voluntaries *repository.VoluntaryRepo
	Tools       *repository.ToolRepo
}

func NewToolUsageHandler(u *repository.ToolUsageRepo, v *repository.VoluntaryRepo, t *repository.ToolRepo) *ToolUsageHandler {
	return &ToolUsageHandler{Usages: u, Voluntaries: v, Tools: t}
}

// Show handles GET /voluntaries-using-tools/:id.
func (h *ToolUsageHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usages.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Index handles GET /voluntaries-using-tools.
func (h *ToolUsageHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	usages, err := h.Usages.Index(ctx, page, pageSize, usageFilterFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, usages)
}

// Start handles POST /voluntaries-using-tools.
func (h *ToolUsageHandler) Start(c echo.Context) error {
	var req toolUsageStartReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.VoluntaryID == "" || req.ToolID == "" {
		return badRequest(c, "voluntary_id and tool_id are required")
	}
	toolID, err := primitive.ObjectIDFromHex(req.ToolID)
	if err != nil {
		return badRequest(c, "tool_id is not a valid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	voluntary, err := h.Voluntaries.Show(ctx, req.VoluntaryID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Tools.Exists(ctx, req.ToolID); err != nil {
		return fail(c, err)
	}

	u, err := h.Usages.Start(ctx, voluntary, toolID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// End handles POST /voluntaries-using-tools/:id/end.
func (h *ToolUsageHandler) End(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Usages.End(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /voluntaries-using-tools/:id.
func (h *ToolUsageHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Usages.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
