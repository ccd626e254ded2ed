package pricefeed

import (
	"math/big"
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

// Round is the latest published answer of an aggregator feed
type Round struct {
	Answer    *big.Int
	UpdatedAt time.Time
}

type PriceFeed interface {
	LatestRound(c ctx.Ctx, chainId domain.ChainId, feedAddress domain.Address) (*Round, error)
	Decimals(c ctx.Ctx, chainId domain.ChainId, feedAddress domain.Address) (uint8, error)
}
