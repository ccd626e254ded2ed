package pricefeed

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bidhaus/goapi/base/abi"
	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/log"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/keys"
	"github.com/bidhaus/goapi/service/cache"
	"github.com/bidhaus/goapi/service/cache/provider/primitive"
	"github.com/bidhaus/goapi/service/chain"
)

type impl struct {
	chainClient chain.Client
	// decimals are immutable per feed so they can live in cache forever.
	// answers are never cached, staleness checks need the live round.
	decimalsCache cache.Service
}

func New(chainClient chain.Client) PriceFeed {
	return &impl{
		chainClient: chainClient,
		decimalsCache: cache.New(cache.ServiceConfig{
			Ttl:   24 * time.Hour,
			Pfx:   "pricefeed_decimals",
			Cache: primitive.NewPrimitive("pricefeed_decimals", 8),
		}),
	}
}

func (im *impl) LatestRound(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (*Round, error) {
	feedAddr := common.HexToAddress(string(address))

	res, err := im.chainClient.Call(c, int32(chainId), feedAddr, nil, abi.AggregatorABI, "latestRoundData")
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("chainClient.Call failed")
		return nil, err
	}

	// latestRoundData returns (roundId, answer, startedAt, updatedAt, answeredInRound)
	answer := res[1].(*big.Int)
	updatedAt := res[3].(*big.Int)
	return &Round{
		Answer:    answer,
		UpdatedAt: time.Unix(updatedAt.Int64(), 0),
	}, nil
}

func (im *impl) Decimals(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (uint8, error) {
	var res uint64

	key := keys.CacheKey(strconv.Itoa(int(chainId)), string(address))

	if err := im.decimalsCache.GetByFunc(c, key, &res, func() (interface{}, error) {
		unpacked, err := im.chainClient.Call(c, int32(chainId), common.HexToAddress(string(address)), nil, abi.AggregatorABI, "decimals")
		if err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"address": address,
			}).Error("chainClient.Call failed")
			return nil, err
		}
		decimals := uint64(unpacked[0].(uint8))
		return &decimals, nil
	}); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("decimalsCache.GetByFunc failed")
		return 0, err
	}

	return uint8(res), nil
}
