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

// Contact-form style records: land donation offers and volunteering
// requests. Both are created publicly and listed, corrected and
// resolved by managers. Donors and applicants must be adults.

// GroundDonateHandler manages land donation offers.
type GroundDonateHandler struct {
	Donates *repository.GroundDonateRepo
}

func NewGroundDonateHandler(d *repository.GroundDonateRepo) *GroundDonateHandler {
	return &GroundDonateHandler{Donates: d}
}

type groundDonateReq struct {
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Cellphone     string     `json:"cellphone"`
	BirthDate     model.Date `json:"birth_date"`
	Address       string     `json:"address"`
	GroundAddress string     `json:"ground_address"`
}

type groundDonateUpdateReq struct {
	Name          *string     `json:"name"`
	Email         *string     `json:"email"`
	Cellphone     *string     `json:"cellphone"`
	BirthDate     *model.Date `json:"birth_date"`
	Address       *string     `json:"address"`
	GroundAddress *string     `json:"ground_address"`
}

// Show handles GET /grounds-donates/:id.
func (h *GroundDonateHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Donates.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Index handles GET /grounds-donates.
func (h *GroundDonateHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	donates, err := h.Donates.Index(ctx, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, donates)
}

// Store handles POST /grounds-donates. Donors must be adults.
func (h *GroundDonateHandler) Store(c echo.Context) error {
	var req groundDonateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.GroundAddress = strings.TrimSpace(req.GroundAddress)
	if req.Name == "" || req.Email == "" || req.GroundAddress == "" {
		return badRequest(c, "name, email and ground_address are required")
	}
	if req.BirthDate.IsZero() {
		return badRequest(c, "birth_date is required")
	}
	if err := utils.MustRepresentAnAdult(req.BirthDate); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Donates.Store(ctx, model.GroundDonate{
		Name:          req.Name,
		Email:         req.Email,
		Cellphone:     req.Cellphone,
		BirthDate:     req.BirthDate,
		Address:       req.Address,
		GroundAddress: req.GroundAddress,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Update handles PUT /grounds-donates/:id. A corrected birth date must
// still represent an adult.
func (h *GroundDonateHandler) Update(c echo.Context) error {
	var req groundDonateUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.GroundDonateUpdate{
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
	if req.GroundAddress != nil {
		addr := strings.TrimSpace(*req.GroundAddress)
		if addr == "" {
			return badRequest(c, "ground_address cannot be empty")
		}
		upd.GroundAddress = &addr
	}
	if req.BirthDate != nil {
		if err := utils.MustRepresentAnAdult(*req.BirthDate); err != nil {
			return badRequest(c, err.Error())
		}
		upd.BirthDate = req.BirthDate
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Donates.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /grounds-donates/:id.
func (h *GroundDonateHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Donates.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// VoluntaryRequestHandler manages volunteering requests.
type VoluntaryRequestHandler struct {
	Requests *repository.VoluntaryRequestRepo
}

func NewVoluntaryRequestHandler(r *repository.VoluntaryRequestRepo) *VoluntaryRequestHandler {
	return &VoluntaryRequestHandler{Requests: r}
}

type voluntaryRequestReq struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Cellphone string     `json:"cellphone"`
	BirthDate model.Date `json:"birth_date"`
	Address   string     `json:"address"`
}

type voluntaryRequestUpdateReq struct {
	Name      *string     `json:"name"`
	Email     *string     `json:"email"`
	Cellphone *string     `json:"cellphone"`
	BirthDate *model.Date `json:"birth_date"`
	Address   *string     `json:"address"`
}

// Show handles GET /voluntaries-requests/:id.
func (h *VoluntaryRequestHandler) Show(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.Show(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Index handles GET /voluntaries-requests.
func (h *VoluntaryRequestHandler) Index(c echo.Context) error {
	page, pageSize, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	requests, err := h.Requests.Index(ctx, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Store handles POST /voluntaries-requests. Applicants must be adults.
func (h *VoluntaryRequestHandler) Store(c echo.Context) error {
	var req voluntaryRequestReq
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

	r, err := h.Requests.Store(ctx, model.VoluntaryRequest{
		Name:      req.Name,
		Email:     req.Email,
		Cellphone: req.Cellphone,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /voluntaries-requests/:id. A corrected birth date
// must still represent an adult.
func (h *VoluntaryRequestHandler) Update(c echo.Context) error {
	var req voluntaryRequestUpdateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	upd := repository.VoluntaryRequestUpdate{
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

	r, err := h.Requests.Update(ctx, c.Param("id"), upd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /voluntaries-requests/:id.
func (h *VoluntaryRequestHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
