package domain

import (
	"math/big"

	"github.com/bidhaus/goapi/base/ctx"
)

type Id struct {
	ChainId ChainId `bson:"chainId"`
	Address Address `bson:"address"`
}

// PayToken is a currency accepted for bidding together with its usd price
// feed. The native currency is registered under EmptyAddress.
type PayToken struct {
	Name          string  `bson:"name" json:"name"`
	Symbol        string  `bson:"symbol" json:"symbol"`
	ChainId       ChainId `bson:"chainId" json:"chainId"`
	Address       Address `bson:"address" json:"address"`
	TokenDecimals int32   `bson:"tokenDecimals" json:"tokenDecimals"`
	// FeedAddress is the aggregator proxy reporting token/usd
	FeedAddress  Address `bson:"feedAddress" json:"feedAddress"`
	FeedDecimals int32   `bson:"feedDecimals" json:"feedDecimals"`
}

func (t *PayToken) ToId() *Id {
	return &Id{
		ChainId: t.ChainId,
		Address: t.Address,
	}
}

type PayTokenRepo interface {
	FindOne(ctx.Ctx, ChainId, Address) (*PayToken, error)
	FindAll(ctx.Ctx, ChainId) ([]*PayToken, error)
	Upsert(ctx.Ctx, *PayToken) error
}

// NormalizerUseCase converts a raw bid amount into the usd8 common unit
// using the feed snapshotted on the auction.
type NormalizerUseCase interface {
	Normalize(c ctx.Ctx, feed *PayToken, amount *big.Int) (*big.Int, error)
}
