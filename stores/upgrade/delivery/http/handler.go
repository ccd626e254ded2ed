package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/base/validator"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
)

type handler struct {
	gate auction.GateUseCase
	// revisions is the set of logic builds this binary ships. Only a
	// registered revision can be activated.
	revisions map[string]auction.Logic
}

func New(e *echo.Echo, gate auction.GateUseCase, revisions map[string]auction.Logic) {
	h := &handler{gate, revisions}

	e.GET("/version", h.version)

	e.POST("/admin/upgrade", h.upgrade)
}

func (h *handler) version(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	version, err := h.gate.ActiveVersion(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Version string `json:"version"`
	}{version})
}

func (h *handler) upgrade(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Caller  domain.Address `json:"caller" validate:"required"`
		Version string         `json:"version" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !validator.IsValidAddress(string(p.Caller)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	logic, ok := h.revisions[p.Version]
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusNotFound, "unknown version")
	}

	if err := h.gate.Upgrade(ctx, p.Caller, logic); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, domain.ErrIncompatibleLayout):
			status = http.StatusConflict
		}
		return delivery.MakeJsonResp(c, status, err)
	}

	version, err := h.gate.ActiveVersion(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, struct {
		Version string `json:"version"`
	}{version})
}
