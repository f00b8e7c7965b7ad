package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hortaviva/community-garden/internal/model"
	"github.com/hortaviva/community-garden/internal/service/schedule"
)

// BedScheduleHandler exposes the schedule engine over HTTP. All state
// transitions go through the engine; the handler only parses and
// serializes.
type BedScheduleHandler struct {
	Engine *schedule.Engine
}

func NewBedScheduleHandler(engine *schedule.Engine) *BedScheduleHandler {
	return &BedScheduleHandler{Engine: engine}
}

type intervalReq struct {
	SeedID  string     `json:"seed_id"`
	StartAt model.Date `json:"start_at"`
	EndAt   model.Date `json:"end_at"`
}

type scheduleStoreReq struct {
	GroundID  string        `json:"ground_id"`
	BedLabel  string        `json:"bed_label"`
	Schedules []intervalReq `json:"schedules"`
}

type scheduleUpdateReq struct {
	Schedules       []intervalReq `json:"schedules"`
	CurrentSchedule int           `json:"current_schedule"`
}

type scheduleCloseReq struct {
	EndAt  *model.Date `json:"end_at"`
	Amount int         `json:"amount"`
	Unit   string      `json:"unit"`
}

type scheduleAdjustReq struct {
	EndAt model.Date `json:"end_at"`
}

// parseIntervals converts request intervals, rejecting malformed seed
// ids before the engine sees them.
func parseIntervals(in []intervalReq) ([]model.ScheduleInterval, error) {
	out := make([]model.ScheduleInterval, 0, len(in))
	for _, it := range in {
		seedID, err := primitive.ObjectIDFromHex(it.SeedID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.ScheduleInterval{SeedID: seedID, StartAt: it.StartAt, EndAt: it.EndAt})
	}
	return out, nil
}

// Show handles GET /bed-schedules/:id.
func (h *BedScheduleHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Engine.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Index handles GET /bed-schedules filtered by ground_id and
// bed_label.
func (h *BedScheduleHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	groundID := c.QueryParam("ground_id")
	bedLabel := c.QueryParam("bed_label")
	if groundID == "" || bedLabel == "" {
		return badRequest(c, "ground_id and bed_label are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	schedules, err := h.Engine.Index(ctx, page, pageSize, groundID, bedLabel)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, schedules)
}

// Store handles POST /bed-schedules, occupying the target bed with
// the first interval.
func (h *BedScheduleHandler) Store(c echo.Context) error {
	var req scheduleStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.GroundID == "" || req.BedLabel == "" {
		return badRequest(c, "ground_id and bed_label are required")
	}
	intervals, err := parseIntervals(req.Schedules)
	if err != nil {
		return badRequest(c, "seed_id is not a valid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Engine.Store(ctx, req.GroundID, req.BedLabel, intervals)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT /bed-schedules/:id, replacing the interval
// sequence wholesale.
func (h *BedScheduleHandler) Update(c echo.Context) error {
	var req scheduleUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	intervals, err := parseIntervals(req.Schedules)
	if err != nil {
		return badRequest(c, "seed_id is not a valid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Engine.Update(ctx, c.Param("id"), intervals, req.CurrentSchedule)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Close handles POST /bed-schedules/:id/close. The harvest close date
// defaults to today.
func (h *BedScheduleHandler) Close(c echo.Context) error {
	var req scheduleCloseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	closeDate := model.Today()
	if req.EndAt != nil {
		closeDate = *req.EndAt
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Engine.Close(ctx, c.Param("id"), closeDate, req.Amount, req.Unit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Adjust handles POST /bed-schedules/:id/adjust, rewriting the active
// interval's end date.
func (h *BedScheduleHandler) Adjust(c echo.Context) error {
	var req scheduleAdjustReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.EndAt.IsZero() {
		return badRequest(c, "end_at is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Engine.Adjust(ctx, c.Param("id"), req.EndAt)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Delete handles DELETE /bed-schedules/:id, freeing the bed first.
func (h *BedScheduleHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Engine.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
