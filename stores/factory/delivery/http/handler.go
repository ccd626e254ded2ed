package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/base/validator"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
)

var met metrics.Service

type handler struct {
	factory auction.FactoryUseCase
}

func New(e *echo.Echo, factory auction.FactoryUseCase) {
	met = metrics.New("factory")

	h := &handler{factory}

	e.POST("/auctions", h.create)

	e.GET("/paytokens", h.listPayTokens)

	e.GET("/events", h.listEvents)

	e.PUT("/admin/paytokens", h.setCurrencyFeed)
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	defer met.BumpTime("time", "func", "createAuction").End()

	type params struct {
		Seller      domain.Address `json:"seller" validate:"required"`
		Collection  domain.Address `json:"collection" validate:"required"`
		TokenId     domain.TokenId `json:"tokenId" validate:"required"`
		DurationSec int64          `json:"durationSec" validate:"required,gt=0"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !validator.IsValidAddress(string(p.Seller)) || !validator.IsValidAddress(string(p.Collection)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	a, err := h.factory.CreateAuction(ctx, p.Seller, p.Collection, p.TokenId, time.Duration(p.DurationSec)*time.Second)
	if err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, a)
}

func (h *handler) listPayTokens(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.factory.ListPayTokens(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) listEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		AuctionId *domain.AuctionId  `query:"auctionId"`
		Type      *auction.EventType `query:"type"`
		Offset    int32              `query:"offset"`
		Limit     int32              `query:"limit"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []auction.EventFindAllOptionsFunc{}

	if p.AuctionId != nil {
		opts = append(opts, auction.EventWithAuctionId(*p.AuctionId))
	}
	if p.Type != nil {
		opts = append(opts, auction.EventWithType(*p.Type))
	}
	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, auction.EventWithPagination(p.Offset, p.Limit))
	}

	res, err := h.factory.ListEvents(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) setCurrencyFeed(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Caller        domain.Address `json:"caller" validate:"required"`
		Name          string         `json:"name"`
		Symbol        string         `json:"symbol"`
		Address       domain.Address `json:"address"`
		TokenDecimals int32          `json:"tokenDecimals"`
		FeedAddress   domain.Address `json:"feedAddress" validate:"required"`
		FeedDecimals  int32          `json:"feedDecimals"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	// empty address registers the native currency
	address := domain.EmptyAddress
	if !p.Address.IsEmpty() {
		if !validator.IsValidAddress(string(p.Address)) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		address = p.Address
	}

	payToken := &domain.PayToken{
		Name:          p.Name,
		Symbol:        p.Symbol,
		Address:       address,
		TokenDecimals: p.TokenDecimals,
		FeedAddress:   p.FeedAddress,
		FeedDecimals:  p.FeedDecimals,
	}
	if err := h.factory.SetCurrencyFeed(ctx, p.Caller, payToken); err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, payToken)
}
