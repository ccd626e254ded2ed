package usecase

import (
	"math/big"
	"time"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/service/pricefeed"
)

const usdDecimals = 8

var timeNow = time.Now

type impl struct {
	pricefeed pricefeed.PriceFeed
	// maxPriceAge rejects rounds older than this. Zero disables the check.
	maxPriceAge time.Duration
}

func New(pf pricefeed.PriceFeed, maxPriceAge time.Duration) domain.NormalizerUseCase {
	return &impl{pricefeed: pf, maxPriceAge: maxPriceAge}
}

// Normalize converts a raw base-unit amount into usd with 8 decimals using
// the feed's latest answer. Integer math only, rounding down.
func (im *impl) Normalize(c ctx.Ctx, feed *domain.PayToken, amount *big.Int) (*big.Int, error) {
	if feed == nil || len(feed.FeedAddress) == 0 {
		return nil, domain.ErrUnregisteredCurrency
	}

	round, err := im.pricefeed.LatestRound(c, feed.ChainId, feed.FeedAddress)
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": feed.ChainId,
			"feed":    feed.FeedAddress,
		}).Error("pricefeed.LatestRound failed")
		return nil, err
	}

	if round.Answer == nil || round.Answer.Sign() <= 0 {
		return nil, domain.ErrStalePrice
	}
	if im.maxPriceAge > 0 && timeNow().Sub(round.UpdatedAt) > im.maxPriceAge {
		c.WithFields(log.Fields{
			"chainId":   feed.ChainId,
			"feed":      feed.FeedAddress,
			"updatedAt": round.UpdatedAt,
		}).Warn("price feed answer too old")
		return nil, domain.ErrStalePrice
	}

	// usd8 = amount * answer * 10^(8-feedDecimals) / 10^tokenDecimals
	// multiply first and divide once so truncation happens a single time
	num := new(big.Int).Mul(amount, round.Answer)
	scaleUp := int64(0)
	scaleDown := int64(feed.TokenDecimals)
	if int64(feed.FeedDecimals) <= usdDecimals {
		scaleUp = usdDecimals - int64(feed.FeedDecimals)
	} else {
		scaleDown += int64(feed.FeedDecimals) - usdDecimals
	}
	if scaleUp > 0 {
		num.Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(scaleUp), nil))
	}
	if scaleDown > 0 {
		num.Quo(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(scaleDown), nil))
	}
	return num, nil
}
