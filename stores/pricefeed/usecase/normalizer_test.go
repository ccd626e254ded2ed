package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	mockPricefeed "github.com/bidhaus/goapi/service/pricefeed/mocks"
	"github.com/bidhaus/goapi/service/pricefeed"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	mockPricefeed *mockPricefeed.PriceFeed
	subject       *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockPricefeed = &mockPricefeed.PriceFeed{}
	t.subject = &impl{
		pricefeed:   t.mockPricefeed,
		maxPriceAge: time.Hour,
	}
}

func eth(n int64, denom int64) *big.Int {
	wei := new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	return wei.Div(wei, big.NewInt(denom))
}

func usd8(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e8))
}

func (t *testsuite) TestNormalizeNativeBid() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.EmptyAddress,
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: usd8(3000), UpdatedAt: time.Now()}, nil)

	// 0.5 eth at 3000 usd
	val, err := t.subject.Normalize(mockCtx, feed, eth(1, 2))
	t.NoError(err)
	t.Equal(usd8(1500), val)
}

func (t *testsuite) TestNormalizeTokenBid() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed2"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: usd8(2), UpdatedAt: time.Now()}, nil)

	// 800 tokens at 2 usd
	val, err := t.subject.Normalize(mockCtx, feed, eth(800, 1))
	t.NoError(err)
	t.Equal(usd8(1600), val)
}

func (t *testsuite) TestNormalizeNonStandardFeedDecimals() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 6,
		FeedAddress:   domain.Address("0xfeed3"),
		FeedDecimals:  18,
	}

	// answer of 5 usd published with 18 decimals
	answer := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: answer, UpdatedAt: time.Now()}, nil)

	// 3 tokens of 6 decimals at 5 usd
	val, err := t.subject.Normalize(mockCtx, feed, big.NewInt(3_000_000))
	t.NoError(err)
	t.Equal(usd8(15), val)
}

func (t *testsuite) TestNormalizeRoundsDown() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed4"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: big.NewInt(1), UpdatedAt: time.Now()}, nil)

	// 1 wei at the smallest possible price truncates to zero
	val, err := t.subject.Normalize(mockCtx, feed, big.NewInt(1))
	t.NoError(err)
	// big.Int zero values can differ in internal representation, so
	// compare mathematically instead of structurally.
	t.Zero(big.NewInt(0).Cmp(val))
}

func (t *testsuite) TestNormalizeStalePrice() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed5"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: usd8(3000), UpdatedAt: time.Now().Add(-2 * time.Hour)}, nil)

	_, err := t.subject.Normalize(mockCtx, feed, eth(1, 1))
	t.ErrorIs(err, domain.ErrStalePrice)
}

func (t *testsuite) TestNormalizeNonPositiveAnswer() {
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed6"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: big.NewInt(0), UpdatedAt: time.Now()}, nil)

	_, err := t.subject.Normalize(mockCtx, feed, eth(1, 1))
	t.ErrorIs(err, domain.ErrStalePrice)
}

func (t *testsuite) TestNormalizeUnregisteredFeed() {
	_, err := t.subject.Normalize(mockCtx, nil, eth(1, 1))
	t.ErrorIs(err, domain.ErrUnregisteredCurrency)

	_, err = t.subject.Normalize(mockCtx, &domain.PayToken{ChainId: 1}, eth(1, 1))
	t.ErrorIs(err, domain.ErrUnregisteredCurrency)
}

func (t *testsuite) TestStaleCheckDisabled() {
	t.subject.maxPriceAge = 0
	feed := &domain.PayToken{
		ChainId:       1,
		Address:       domain.Address("0xtoken"),
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xfeed7"),
		FeedDecimals:  8,
	}

	t.mockPricefeed.
		On("LatestRound", mockCtx, domain.ChainId(1), feed.FeedAddress).
		Return(&pricefeed.Round{Answer: usd8(3000), UpdatedAt: time.Now().Add(-24 * time.Hour)}, nil)

	val, err := t.subject.Normalize(mockCtx, feed, eth(1, 1))
	t.NoError(err)
	t.Equal(usd8(3000), val)
}
