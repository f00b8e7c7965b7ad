package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hortaviva/community-garden/internal/model"
	"github.com/hortaviva/community-garden/internal/repository"
)

// VoluntaryHandler manages bed assignments. Creating one resolves the
// person and the ground so the assignment can denormalize the
// person's name and the bed label can be verified.
type VoluntaryHandler struct {
	Voluntaries *repository.VoluntaryRepo
	Peoples     *repository.PeopleRepo
	Grounds     *repository.GroundRepo
}

func NewVoluntaryHandler(v *repository.VoluntaryRepo, p *repository.PeopleRepo, g *repository.GroundRepo) *VoluntaryHandler {
	return &VoluntaryHandler{Voluntaries: v, Peoples: p, Grounds: g}
}

type voluntaryStoreReq struct {
	PeopleID      string     `json:"people_id"`
	GroundID      string     `json:"ground_id"`
	BedLabel      string     `json:"bed_label"`
	StartAt       model.Date `json:"start_at"`
	IsResponsible bool       `json:"is_responsible"`
}

type voluntaryUpdateReq struct {
	StartAt       *model.Date `json:"start_at"`
	EndAt         *model.Date `json:"end_at"`
	IsResponsible *bool       `json:"is_responsible"`
}

// storeOne validates and persists a single assignment. Shared by
// Store and StoreMany.
func (h *VoluntaryHandler) storeOne(ctx context.Context, req voluntaryStoreReq) (*model.Voluntary, error) {
	people, err := h.Peoples.Show(ctx, req.PeopleID)
	if err != nil {
		return nil, err
	}
	ground, err := h.Grounds.Show(ctx, req.GroundID)
	if err != nil {
		return nil, err
	}
	if _, err := h.Grounds.FindBed(ground, req.BedLabel); err != nil {
		return nil, err
	}
	if err := h.Voluntaries.MustNotExist(ctx, people.ID, ground.ID, req.BedLabel); err != nil {
		return nil, err
	}
	return h.Voluntaries.Insert(ctx, people, ground, repository.VoluntaryStore{
		PeopleID:      req.PeopleID,
		GroundID:      req.GroundID,
		BedLabel:      req.BedLabel,
		StartAt:       req.StartAt,
		IsResponsible: req.IsResponsible,
	})
}

// Show handles GET /voluntaries/:id.
func (h *VoluntaryHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Voluntaries.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Index handles GET /voluntaries, filterable by ground_id, people_id
// and bed_label.
func (h *VoluntaryHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	voluntaries, err := h.Voluntaries.Index(ctx, page, pageSize, repository.VoluntaryFilter{
		GroundID: c.QueryParam("ground_id"),
		PeopleID: c.QueryParam("people_id"),
		BedLabel: c.QueryParam("bed_label"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, voluntaries)
}

// Store handles POST /voluntaries.
func (h *VoluntaryHandler) Store(c echo.Context) error {
	var req voluntaryStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.PeopleID == "" || req.GroundID == "" || req.BedLabel == "" {
		return badRequest(c, "people_id, ground_id and bed_label are required")
	}
	if req.StartAt.IsZero() {
		return badRequest(c, "start_at is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.storeOne(ctx, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, v)
}

// voluntaryOrError is one batch entry: either the stored assignment
// or the reason it was rejected.
type voluntaryOrError struct {
	Voluntary *model.Voluntary `json:"voluntary,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// StoreMany handles POST /voluntaries/many, registering a batch of
// assignments. A failing item does not abort the batch; each result
// slot carries either the stored assignment or its error.
func (h *VoluntaryHandler) StoreMany(c echo.Context) error {
	var reqs []voluntaryStoreReq
	if err := c.Bind(&reqs); err != nil {
		return badRequest(c, "invalid body")
	}
	if len(reqs) == 0 {
		return badRequest(c, "at least one assignment is required")
	}
	for _, req := range reqs {
		if req.PeopleID == "" || req.GroundID == "" || req.BedLabel == "" {
			return badRequest(c, "people_id, ground_id and bed_label are required")
		}
		if req.StartAt.IsZero() {
			return badRequest(c, "start_at is required")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	results := make([]voluntaryOrError, 0, len(reqs))
	for _, req := range reqs {
		v, err := h.storeOne(ctx, req)
		if err != nil {
			results = append(results, voluntaryOrError{Error: err.Error()})
			continue
		}
		results = append(results, voluntaryOrError{Voluntary: v})
	}
	return c.JSON(http.StatusCreated, echo.Map{"results": results})
}

// Update handles PATCH /voluntaries/:id. end_at must not precede
// start_at.
func (h *VoluntaryHandler) Update(c echo.Context) error {
	var req voluntaryUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.EndAt != nil {
		current, err := h.Voluntaries.Show(ctx, c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		start := current.StartAt
		if req.StartAt != nil {
			start = *req.StartAt
		}
		if req.EndAt.Before(start.Time) {
			return badRequest(c, "end_at cannot precede start_at")
		}
	}

	v, err := h.Voluntaries.Update(ctx, c.Param("id"), repository.VoluntaryUpdate{
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		IsResponsible: req.IsResponsible,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Delete handles DELETE /voluntaries/:id.
func (h *VoluntaryHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Voluntaries.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
