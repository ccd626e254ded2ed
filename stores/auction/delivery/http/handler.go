package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/delivery"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/base/validator"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
)

var (
	met     metrics.Service
	timeNow = time.Now
)

type handler struct {
	auction auction.GateUseCase
}

func New(e *echo.Echo, gate auction.GateUseCase) {
	met = metrics.New("auction")

	h := &handler{gate}

	e.GET("/auctions", h.list)

	g := e.Group("/auction/:auctionId")

	g.GET("", h.get)

	g.POST("/bids", h.placeBid)

	g.POST("/end", h.end)

	e.POST("/refunds/withdraw", h.withdrawRefund)
}

// auctionView augments the stored record with a display value of the
// leading bid
type auctionView struct {
	*auction.Auction
	Status        auction.Status   `json:"status"`
	HighestBidUsd *decimal.Decimal `json:"highestBidUsd,omitempty"`
}

func makeView(a *auction.Auction) *auctionView {
	v := &auctionView{Auction: a, Status: a.StatusAt(timeNow())}
	if a.HighestBid != nil {
		if normalized, err := a.HighestBid.NormalizedBig(); err == nil {
			usd := decimal.NewFromBigInt(normalized, -8)
			v.HighestBidUsd = &usd
		}
	}
	return v
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrIncompatibleLayout):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStalePrice),
		errors.Is(err, domain.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		ChainId *domain.ChainId `query:"chainId"`
		Seller  *domain.Address `query:"seller"`
		Settled *bool           `query:"settled"`
		Offset  int32           `query:"offset"`
		Limit   int32           `query:"limit"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []auction.FindAllOptionsFunc{}

	if p.ChainId != nil {
		opts = append(opts, auction.WithChainId(*p.ChainId))
	}
	if p.Seller != nil {
		opts = append(opts, auction.WithSeller(*p.Seller))
	}
	if p.Settled != nil {
		opts = append(opts, auction.WithSettled(*p.Settled))
	}
	if p.Offset != 0 || p.Limit != 0 {
		opts = append(opts, auction.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.auction.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	views := make([]*auctionView, 0, len(res))
	for _, a := range res {
		views = append(views, makeView(a))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, views)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		AuctionId domain.AuctionId `param:"auctionId"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	a, err := h.auction.GetAuction(ctx, p.AuctionId)
	if err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, makeView(a))
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	defer met.BumpTime("time", "func", "placeBid").End()

	type params struct {
		AuctionId domain.AuctionId `param:"auctionId"`
		Bidder    domain.Address   `json:"bidder" validate:"required"`
		Currency  *domain.Address  `json:"currency"`
		Amount    string           `json:"amount" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if !validator.IsValidAddress(string(p.Bidder)) {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
	}

	// omitted currency means a native-denominated bid
	currency := domain.EmptyAddress
	if p.Currency != nil {
		currency = *p.Currency
	}

	amount, err := domain.ToBigInt(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	a, err := h.auction.PlaceBid(ctx, p.AuctionId, p.Bidder, currency, amount)
	if err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, makeView(a))
}

func (h *handler) end(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	defer met.BumpTime("time", "func", "endAuction").End()

	type params struct {
		AuctionId domain.AuctionId `param:"auctionId"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	a, err := h.auction.EndAuction(ctx, p.AuctionId)
	if err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, makeView(a))
}

func (h *handler) withdrawRefund(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Caller   domain.Address  `json:"caller" validate:"required"`
		Currency *domain.Address `json:"currency"`
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

	currency := domain.EmptyAddress
	if p.Currency != nil {
		currency = *p.Currency
	}

	amount, err := h.auction.WithdrawRefund(ctx, p.Caller, currency)
	if err != nil {
		return delivery.MakeJsonResp(c, errStatus(err), err)
	}

	type result struct {
		Amount string `json:"amount"`
	}
	return delivery.MakeJsonResp(c, http.StatusOK, &result{Amount: amount.String()})
}
