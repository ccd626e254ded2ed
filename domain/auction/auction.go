package auction

import (
	"math/big"
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
)

// Bid is the current winning bid. Superseded bids are not retained; their
// principal moves to escrow when they are outbid.
type Bid struct {
	Bidder   domain.Address `json:"bidder" bson:"bidder"`
	Currency domain.Address `json:"currency" bson:"currency"`
	// Amount is the raw principal in the currency's base units
	Amount string `json:"amount" bson:"amount"`
	// Normalized is the usd8 value used for comparison
	Normalized string    `json:"normalized" bson:"normalized"`
	BidAt      time.Time `json:"bidAt" bson:"bidAt"`
}

func (b *Bid) NormalizedBig() (*big.Int, error) {
	return domain.ToBigInt(b.Normalized)
}

func (b *Bid) AmountBig() (*big.Int, error) {
	return domain.ToBigInt(b.Amount)
}

type Status string

const (
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
	StatusSettled Status = "settled"
)

type Auction struct {
	AuctionId  domain.AuctionId `json:"auctionId" bson:"auctionId"`
	ChainId    domain.ChainId   `json:"chainId" bson:"chainId"`
	Collection domain.Address   `json:"collection" bson:"collection"`
	TokenId    domain.TokenId   `json:"tokenId" bson:"tokenId"`
	Seller     domain.Address   `json:"seller" bson:"seller"`
	EndTime    time.Time        `json:"endTime" bson:"endTime"`
	Settled    bool             `json:"settled" bson:"settled"`
	HighestBid *Bid             `json:"highestBid" bson:"highestBid,omitempty"`
	// Feeds is the currency registry snapshot taken at creation, keyed by
	// lowercased currency address. Later registry edits never reach it.
	Feeds     map[domain.Address]domain.PayToken `json:"feeds" bson:"feeds"`
	CreatedAt time.Time                          `json:"createdAt" bson:"createdAt"`
}

// IsActive is always computed from the stored end time and settled flag,
// never cached: settlement may lag the deadline by an unbounded gap.
func (a *Auction) IsActive(now time.Time) bool {
	return !a.Settled && now.Before(a.EndTime)
}

func (a *Auction) StatusAt(now time.Time) Status {
	if a.Settled {
		return StatusSettled
	}
	if now.Before(a.EndTime) {
		return StatusActive
	}
	return StatusEnded
}

// Feed resolves a bid currency against the creation-time snapshot.
func (a *Auction) Feed(currency domain.Address) (*domain.PayToken, bool) {
	pt, ok := a.Feeds[currency.ToLower()]
	if !ok {
		return nil, false
	}
	return &pt, true
}

type Patchable struct {
	HighestBid *Bid  `bson:"highestBid,omitempty"`
	Settled    *bool `bson:"settled,omitempty"`
}

type FindAllOptions struct {
	ChainId   *domain.ChainId
	Seller    *domain.Address
	Settled   *bool
	EndTimeLT *time.Time
	Offset    *int32
	Limit     *int32
	SortBy    *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}
	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		seller = seller.ToLower()
		options.Seller = &seller
		return nil
	}
}

func WithSettled(settled bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Settled = &settled
		return nil
	}
}

func WithEndTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sort string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sort
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	FindOne(c ctx.Ctx, id domain.AuctionId) (*Auction, error)
	Create(c ctx.Ctx, a *Auction) error
	Update(c ctx.Ctx, id domain.AuctionId, patchable Patchable) error
	// NextId hands out factory-scoped, monotonically increasing auction ids
	NextId(c ctx.Ctx) (domain.AuctionId, error)
}

// UseCase is the auction state machine. Mutating operations are serialized
// by the implementation; each call is all-or-nothing.
type UseCase interface {
	GetAuction(c ctx.Ctx, id domain.AuctionId) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder, currency domain.Address, amount *big.Int) (*Auction, error)
	EndAuction(c ctx.Ctx, id domain.AuctionId) (*Auction, error)
	WithdrawRefund(c ctx.Ctx, caller, currency domain.Address) (*big.Int, error)
}
