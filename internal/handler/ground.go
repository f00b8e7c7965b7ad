package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hortaviva/community-garden/internal/repository"
)

// GroundHandler manages garden grounds and their beds.
type GroundHandler struct {
	Grounds *repository.GroundRepo
}

func NewGroundHandler(grounds *repository.GroundRepo) *GroundHandler {
	return &GroundHandler{Grounds: grounds}
}

type groundStoreReq struct {
	Address     string  `json:"address"`
	Width       int     `json:"width"`
	Length      int     `json:"length"`
	Description string  `json:"description"`
	BedsCount   int     `json:"beds_count"`
	OwnerID     *string `json:"owner_id"`
}

type groundUpdateReq struct {
	Address     *string `json:"address"`
	Width       *int    `json:"width"`
	Length      *int    `json:"length"`
	Description *string `json:"description"`
	OwnerID     *string `json:"owner_id"`
}

// Show handles GET /grounds/:id. The response carries the beds with
// their derived status and the bed count.
func (h *GroundHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Index handles GET /grounds with pagination, ordering and full-text
// search on the address.
func (h *GroundHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grounds, err := h.Grounds.Index(ctx, page, pageSize, orderParams(c), c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, grounds)
}

// Store handles POST /grounds. beds_count beds are created free and
// active, labeled "1" through "N".
func (h *GroundHandler) Store(c echo.Context) error {
	var req groundStoreReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		return badRequest(c, "address is required")
	}
	if req.Width <= 0 || req.Length <= 0 {
		return badRequest(c, "width and length must be positive")
	}
	if req.BedsCount < 0 {
		return badRequest(c, "beds_count cannot be negative")
	}
	ownerID, err := optionalObjectID(req.OwnerID)
	if err != nil {
		return badRequest(c, "owner_id is not a valid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.Store(ctx, repository.GroundStore{
		Address:     req.Address,
		Width:       req.Width,
		Length:      req.Length,
		Description: req.Description,
		BedsCount:   req.BedsCount,
		OwnerID:     ownerID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Update handles PATCH /grounds/:id. Beds are not updatable here;
// their lifecycle belongs to the schedule endpoints.
func (h *GroundHandler) Update(c echo.Context) error {
	var req groundUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.GroundUpdate{
		Width:       req.Width,
		Length:      req.Length,
		Description: req.Description,
	}
	if req.Address != nil {
		addr := strings.TrimSpace(*req.Address)
		if addr == "" {
			return badRequest(c, "address cannot be empty")
		}
		upd.Address = &addr
	}
	if req.Width != nil && *req.Width <= 0 || req.Length != nil && *req.Length <= 0 {
		return badRequest(c, "width and length must be positive")
	}
	if req.OwnerID != nil {
		ownerID, err := optionalObjectID(req.OwnerID)
		if err != nil {
			return badRequest(c, "owner_id is not a valid id")
		}
		upd.OwnerID = ownerID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grounds.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

type bedUpdateReq struct {
	Active            *bool   `json:"active"`
	ResponsibleUserID *string `json:"responsible_user_id"`
}

// UpdateBed handles PATCH /grounds/:id/beds/:label. Only the active
// flag and the responsible user are editable here; free, seed and end
// date belong to the schedule lifecycle. An empty responsible_user_id
// clears the field.
func (h *GroundHandler) UpdateBed(c echo.Context) error {
	var req bedUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Active == nil && req.ResponsibleUserID == nil {
		return badRequest(c, "nothing to update")
	}
	var upd repository.BedUpdate
	if req.Active != nil {
		upd.Active = repository.Set(*req.Active)
	}
	if req.ResponsibleUserID != nil {
		if *req.ResponsibleUserID == "" {
			upd.ResponsibleUserID = repository.Null[primitive.ObjectID]()
		} else {
			oid, err := primitive.ObjectIDFromHex(*req.ResponsibleUserID)
			if err != nil {
				return badRequest(c, "responsible_user_id is not a valid id")
			}
			upd.ResponsibleUserID = repository.Set(oid)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Grounds.UpdateBed(ctx, c.Param("id"), c.Param("label"), upd)
	if err != nil {
		return fail(c, err)
	}
	if n == 0 {
		return fail(c, repository.ErrBedNotFound)
	}
	g, err := h.Grounds.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /grounds/:id. The ground's bed schedules are
// removed with it.
func (h *GroundHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Grounds.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// optionalObjectID parses a nullable hex id from a request body.
func optionalObjectID(s *string) (*primitive.ObjectID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(*s)
	if err != nil {
		return nil, err
	}
	return &oid, nil
}
