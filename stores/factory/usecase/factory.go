package usecase

import (
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	"github.com/bidhaus/goapi/service/chain/contract"
	"github.com/bidhaus/goapi/service/pricefeed"
)

var timeNow = time.Now

type impl struct {
	chainId   domain.ChainId
	auctions  auction.Repo
	events    auction.EventRepo
	payTokens domain.PayTokenRepo
	erc721    contract.Erc721Contract
	erc20     contract.Erc20Contract
	pricefeed pricefeed.PriceFeed
	custodian domain.Address
	admin     domain.Address
}

type Config struct {
	ChainId   domain.ChainId
	Auctions  auction.Repo
	Events    auction.EventRepo
	PayTokens domain.PayTokenRepo
	Erc721    contract.Erc721Contract
	Erc20     contract.Erc20Contract
	PriceFeed pricefeed.PriceFeed
	Custodian domain.Address
	Admin     domain.Address
}

func New(cfg *Config) auction.FactoryUseCase {
	return &impl{
		chainId:   cfg.ChainId,
		auctions:  cfg.Auctions,
		events:    cfg.Events,
		payTokens: cfg.PayTokens,
		erc721:    cfg.Erc721,
		erc20:     cfg.Erc20,
		pricefeed: cfg.PriceFeed,
		custodian: cfg.Custodian,
		admin:     cfg.Admin,
	}
}

// CreateAuction verifies ownership and approval, pulls the asset into
// custody and opens the auction with a copy of the current currency
// registry. The copy shields running auctions from later registry edits.
func (im *impl) CreateAuction(c ctx.Ctx, seller, collection domain.Address, tokenId domain.TokenId, duration time.Duration) (*auction.Auction, error) {
	if duration <= 0 {
		return nil, domain.ErrBadParamInput
	}

	tokenIdBig, err := tokenId.ToBigInt()
	if err != nil {
		return nil, domain.ErrBadParamInput
	}

	owner, err := im.erc721.OwnerOf(c, int32(im.chainId), string(collection), tokenIdBig)
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"collection": collection,
			"tokenId":    tokenId,
		}).Error("erc721.OwnerOf failed")
		return nil, err
	}
	if !seller.Equals(domain.Address(owner)) {
		return nil, domain.ErrUnauthorized
	}

	approved, err := im.erc721.IsApproved(c, int32(im.chainId), string(collection), tokenIdBig, string(seller), string(im.custodian))
	if err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"collection": collection,
			"tokenId":    tokenId,
		}).Error("erc721.IsApproved failed")
		return nil, err
	}
	if !approved {
		return nil, domain.ErrTransferFailed
	}

	payTokens, err := im.payTokens.FindAll(c, im.chainId)
	if err != nil {
		c.WithField("err", err).Error("payTokens.FindAll failed")
		return nil, err
	}
	feeds := make(map[domain.Address]domain.PayToken, len(payTokens))
	for _, pt := range payTokens {
		feeds[pt.Address.ToLower()] = *pt
	}

	id, err := im.auctions.NextId(c)
	if err != nil {
		c.WithField("err", err).Error("auctions.NextId failed")
		return nil, err
	}

	if _, err := im.erc721.TransferFrom(c, int32(im.chainId), string(collection), string(seller), string(im.custodian), tokenIdBig); err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"collection": collection,
			"tokenId":    tokenId,
			"seller":     seller,
		}).Error("erc721.TransferFrom failed")
		return nil, domain.ErrTransferFailed
	}

	now := timeNow()
	a := &auction.Auction{
		AuctionId:  id,
		ChainId:    im.chainId,
		Collection: collection.ToLower(),
		TokenId:    tokenId,
		Seller:     seller.ToLower(),
		EndTime:    now.Add(duration),
		Feeds:      feeds,
		CreatedAt:  now,
	}
	if err := im.auctions.Create(c, a); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("auctions.Create failed")
		return nil, err
	}

	if err := im.events.Append(c, &auction.Event{
		Type:      auction.EventTypeAuctionCreated,
		AuctionId: id,
		Account:   a.Seller,
		Time:      now,
	}); err != nil {
		c.WithField("err", err).Warn("events.Append failed")
	}

	return a, nil
}

// SetCurrencyFeed is admin only. Token and feed decimals are read from the
// chain when the caller leaves them unset.
func (im *impl) SetCurrencyFeed(c ctx.Ctx, caller domain.Address, payToken *domain.PayToken) error {
	if !caller.Equals(im.admin) {
		return domain.ErrUnauthorized
	}
	if payToken == nil || len(payToken.FeedAddress) == 0 {
		return domain.ErrBadParamInput
	}

	payToken.ChainId = im.chainId
	if payToken.FeedDecimals == 0 {
		decimals, err := im.pricefeed.Decimals(c, im.chainId, payToken.FeedAddress)
		if err != nil {
			c.WithFields(log.Fields{
				"err":  err,
				"feed": payToken.FeedAddress,
			}).Error("pricefeed.Decimals failed")
			return err
		}
		payToken.FeedDecimals = int32(decimals)
	}
	if payToken.TokenDecimals == 0 {
		if payToken.Address.IsNative() {
			payToken.TokenDecimals = 18
		} else {
			decimals, err := im.erc20.Decimals(c, int32(im.chainId), string(payToken.Address))
			if err != nil {
				c.WithFields(log.Fields{
					"err":   err,
					"token": payToken.Address,
				}).Error("erc20.Decimals failed")
				return err
			}
			payToken.TokenDecimals = int32(decimals)
		}
	}

	if err := im.payTokens.Upsert(c, payToken); err != nil {
		c.WithField("err", err).Error("payTokens.Upsert failed")
		return err
	}

	if err := im.events.Append(c, &auction.Event{
		Type:     auction.EventTypeCurrencyFeedSet,
		Account:  caller.ToLower(),
		Currency: payToken.Address.ToLower(),
		Time:     timeNow(),
	}); err != nil {
		c.WithField("err", err).Warn("events.Append failed")
	}

	return nil
}

func (im *impl) ListPayTokens(c ctx.Ctx) ([]*domain.PayToken, error) {
	return im.payTokens.FindAll(c, im.chainId)
}

func (im *impl) ListEvents(c ctx.Ctx, opts ...auction.EventFindAllOptionsFunc) ([]*auction.Event, error) {
	return im.events.FindAll(c, opts...)
}
