package auction

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

// FactoryUseCase mints auctions and curates the currency registry every new
// auction snapshots from.
type FactoryUseCase interface {
	// CreateAuction escrows the asset and opens a new auction for it
	CreateAuction(c ctx.Ctx, seller, collection domain.Address, tokenId domain.TokenId, duration time.Duration) (*Auction, error)
	// SetCurrencyFeed registers or replaces a currency's price feed.
	// Running auctions keep the snapshot taken at their creation.
	SetCurrencyFeed(c ctx.Ctx, caller domain.Address, payToken *domain.PayToken) error
	ListPayTokens(c ctx.Ctx) ([]*domain.PayToken, error)
	// ListEvents exposes the append-only event log for off-core indexers
	ListEvents(c ctx.Ctx, opts ...EventFindAllOptionsFunc) ([]*Event, error)
}
