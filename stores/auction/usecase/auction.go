package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/base/metrics"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/domain/escrow"
	"github.com/bidhaus/goapi/service/chain/contract"
)

var timeNow = time.Now

type impl struct {
	// mu serializes every ledger mutation. Reads go through unlocked.
	mu sync.Mutex

	chainId    domain.ChainId
	auctions   auction.Repo
	events     auction.EventRepo
	escrow     escrow.UseCase
	normalizer domain.NormalizerUseCase
	erc721     contract.Erc721Contract
	erc20      contract.Erc20Contract
	// custodian holds auctioned assets and bid principals until settlement
	custodian domain.Address
	met       metrics.Service

	version       string
	layoutVersion int
}

type Config struct {
	ChainId    domain.ChainId
	Auctions   auction.Repo
	Events     auction.EventRepo
	Escrow     escrow.UseCase
	Normalizer domain.NormalizerUseCase
	Erc721     contract.Erc721Contract
	Erc20      contract.Erc20Contract
	Custodian  domain.Address
	Metrics    metrics.Service

	Version       string
	LayoutVersion int
}

func New(cfg *Config) auction.Logic {
	return &impl{
		chainId:       cfg.ChainId,
		auctions:      cfg.Auctions,
		events:        cfg.Events,
		escrow:        cfg.Escrow,
		normalizer:    cfg.Normalizer,
		erc721:        cfg.Erc721,
		erc20:         cfg.Erc20,
		custodian:     cfg.Custodian,
		met:           cfg.Metrics,
		version:       cfg.Version,
		layoutVersion: cfg.LayoutVersion,
	}
}

func (im *impl) Version() string {
	return im.version
}

func (im *impl) LayoutVersion() int {
	return im.layoutVersion
}

func (im *impl) GetAuction(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	a, err := im.auctions.FindOne(c, id)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithField("err", err).Error("auctions.FindOne failed")
		}
		return nil, err
	}
	return a, nil
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.auctions.FindAll(c, opts...)
}

// PlaceBid pulls the bid principal into custody, banks the superseded bid to
// escrow and installs the new highest bid. Any failure before the principal
// is secured leaves the ledger untouched.
func (im *impl) PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder, currency domain.Address, amount *big.Int) (*auction.Auction, error) {
	if im.met != nil {
		defer im.met.BumpTime("time", "func", "placeBid").End()
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return nil, domain.ErrBadParamInput
	}

	a, err := im.auctions.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	if !a.IsActive(now) {
		return nil, domain.ErrAuctionNotActive
	}

	feed, ok := a.Feed(currency)
	if !ok {
		return nil, domain.ErrUnregisteredCurrency
	}

	normalized, err := im.normalizer.Normalize(c, feed, amount)
	if err != nil {
		return nil, err
	}
	// the implicit starting bid is zero, so a bid whose value floors to
	// zero never wins
	if normalized.Sign() <= 0 {
		return nil, domain.ErrBidTooLow
	}

	prev := a.HighestBid
	if prev != nil {
		prevNormalized, err := prev.NormalizedBig()
		if err != nil {
			c.WithFields(log.Fields{
				"err":        err,
				"auctionId":  id,
				"normalized": prev.Normalized,
			}).Error("prev.NormalizedBig failed")
			return nil, err
		}
		if normalized.Cmp(prevNormalized) <= 0 {
			return nil, domain.ErrBidTooLow
		}
	}

	token, ok := domain.CustodyToken(a.ChainId, currency)
	if !ok {
		c.WithField("chainId", a.ChainId).Error("no wrapped native token for chain")
		return nil, domain.ErrTransferFailed
	}
	if _, err := im.erc20.TransferFrom(c, int32(a.ChainId), string(token), string(bidder), string(im.custodian), amount); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
			"bidder":    bidder,
			"currency":  currency,
			"amount":    amount.String(),
		}).Error("erc20.TransferFrom failed")
		return nil, domain.ErrTransferFailed
	}

	// the superseded principal is banked into escrow before the ledger is
	// patched: a failed deposit must leave the previous bid in place so
	// escrow and ledger never diverge
	if prev != nil {
		prevAmount, err := prev.AmountBig()
		if err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"amount": prev.Amount,
			}).Error("prev.AmountBig failed")
			return nil, err
		}
		if err := im.escrow.Deposit(c, a.ChainId, prev.Currency, prev.Bidder, prevAmount); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
				"bidder":    prev.Bidder,
			}).Error("escrow.Deposit failed")
			return nil, err
		}
	}

	bid := &auction.Bid{
		Bidder:     bidder.ToLower(),
		Currency:   currency.ToLower(),
		Amount:     amount.String(),
		Normalized: normalized.String(),
		BidAt:      now,
	}
	if err := im.auctions.Update(c, id, auction.Patchable{HighestBid: bid}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("auctions.Update failed")
		return nil, err
	}

	if err := im.events.Append(c, &auction.Event{
		Type:       auction.EventTypeBidAccepted,
		AuctionId:  id,
		Account:    bid.Bidder,
		Currency:   bid.Currency,
		Amount:     bid.Amount,
		Normalized: bid.Normalized,
		Time:       now,
	}); err != nil {
		c.WithField("err", err).Warn("events.Append failed")
	}

	a.HighestBid = bid
	return a, nil
}

// EndAuction settles once. The settled flag flips only after the asset and
// the winning principal have both moved, so a failed settlement can be
// retried and a successful one can never run twice.
func (im *impl) EndAuction(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	if im.met != nil {
		defer im.met.BumpTime("time", "func", "endAuction").End()
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	a, err := im.auctions.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	if a.Settled {
		return nil, domain.ErrAlreadySettled
	}
	now := timeNow()
	if now.Before(a.EndTime) {
		return nil, domain.ErrNotYetEnded
	}

	tokenId, err := a.TokenId.ToBigInt()
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"tokenId": a.TokenId,
		}).Error("tokenId.ToBigInt failed")
		return nil, err
	}

	var winner domain.Address
	if a.HighestBid != nil {
		winner = a.HighestBid.Bidder
		amount, err := a.HighestBid.AmountBig()
		if err != nil {
			c.WithFields(log.Fields{
				"err":    err,
				"amount": a.HighestBid.Amount,
			}).Error("bid.AmountBig failed")
			return nil, err
		}
		token, ok := domain.CustodyToken(a.ChainId, a.HighestBid.Currency)
		if !ok {
			c.WithField("chainId", a.ChainId).Error("no wrapped native token for chain")
			return nil, domain.ErrTransferFailed
		}

		// the seller is paid before the asset leaves custody: a failed
		// payout keeps the auction retryable, while a retry after the
		// asset has moved could never repeat the 721 transfer
		if _, err := im.erc20.Transfer(c, int32(a.ChainId), string(token), string(a.Seller), amount); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
				"seller":    a.Seller,
				"amount":    amount.String(),
			}).Error("erc20.Transfer failed")
			return nil, domain.ErrTransferFailed
		}
		if _, err := im.erc721.TransferFrom(c, int32(a.ChainId), string(a.Collection), string(im.custodian), string(winner), tokenId); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
				"winner":    winner,
			}).Error("erc721.TransferFrom failed")
			return nil, domain.ErrTransferFailed
		}
	} else {
		// no bids, the asset goes back to the seller
		if _, err := im.erc721.TransferFrom(c, int32(a.ChainId), string(a.Collection), string(im.custodian), string(a.Seller), tokenId); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
				"seller":    a.Seller,
			}).Error("erc721.TransferFrom failed")
			return nil, domain.ErrTransferFailed
		}
	}

	if err := im.auctions.Update(c, id, auction.Patchable{Settled: ptr.Bool(true)}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("auctions.Update failed")
		return nil, err
	}

	event := &auction.Event{
		Type:      auction.EventTypeAuctionEnded,
		AuctionId: id,
		Winner:    winner,
		Time:      now,
	}
	if a.HighestBid != nil {
		event.Currency = a.HighestBid.Currency
		event.Amount = a.HighestBid.Amount
		event.Normalized = a.HighestBid.Normalized
	}
	if err := im.events.Append(c, event); err != nil {
		c.WithField("err", err).Warn("events.Append failed")
	}

	a.Settled = true
	return a, nil
}

// WithdrawRefund pays out the caller's escrow balance for one currency.
func (im *impl) WithdrawRefund(c ctx.Ctx, caller, currency domain.Address) (*big.Int, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	return im.escrow.Withdraw(c, im.chainId, currency, caller)
}
