package usecase

import (
	"testing"
	"time"

	"math/big"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
	mockDomain "github.com/bidhaus/goapi/domain/mocks"
	mockContract "github.com/bidhaus/goapi/service/chain/contract/mocks"
	mockPricefeed "github.com/bidhaus/goapi/service/pricefeed/mocks"
)

var (
	mockCtx = ctx.Background()

	frozenNow = time.Unix(1700000000, 0)

	chainId    = domain.ChainId(1)
	custodian  = domain.Address("0xcustodian")
	admin      = domain.Address("0xadmin")
	seller     = domain.Address("0xseller")
	collection = domain.Address("0xnft")
)

type testsuite struct {
	suite.Suite
	mockAuctions  *mockAuction.Repo
	mockEvents    *mockAuction.EventRepo
	mockPayTokens *mockDomain.PayTokenRepo
	mockErc721    *mockContract.Erc721Contract
	mockErc20     *mockContract.Erc20Contract
	mockPricefeed *mockPricefeed.PriceFeed
	subject       *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	timeNow = func() time.Time { return frozenNow }
	t.mockAuctions = &mockAuction.Repo{}
	t.mockEvents = &mockAuction.EventRepo{}
	t.mockPayTokens = &mockDomain.PayTokenRepo{}
	t.mockErc721 = &mockContract.Erc721Contract{}
	t.mockErc20 = &mockContract.Erc20Contract{}
	t.mockPricefeed = &mockPricefeed.PriceFeed{}
	t.subject = &impl{
		chainId:   chainId,
		auctions:  t.mockAuctions,
		events:    t.mockEvents,
		payTokens: t.mockPayTokens,
		erc721:    t.mockErc721,
		erc20:     t.mockErc20,
		pricefeed: t.mockPricefeed,
		custodian: custodian,
		admin:     admin,
	}
}

func (t *testsuite) TearDownTest() {
	timeNow = time.Now
}

func (t *testsuite) registry() []*domain.PayToken {
	return []*domain.PayToken{
		{
			Symbol:        "ETH",
			ChainId:       chainId,
			Address:       domain.EmptyAddress,
			TokenDecimals: 18,
			FeedAddress:   domain.Address("0xethfeed"),
			FeedDecimals:  8,
		},
		{
			Symbol:        "TKN",
			ChainId:       chainId,
			Address:       domain.Address("0xtkn"),
			TokenDecimals: 18,
			FeedAddress:   domain.Address("0xtknfeed"),
			FeedDecimals:  8,
		},
	}
}

func (t *testsuite) TestCreateAuction() {
	registry := t.registry()

	t.mockErc721.
		On("OwnerOf", mockCtx, int32(chainId), string(collection), big.NewInt(7)).
		Return(string(seller), nil)
	t.mockErc721.
		On("IsApproved", mockCtx, int32(chainId), string(collection), big.NewInt(7), string(seller), string(custodian)).
		Return(true, nil)
	t.mockPayTokens.On("FindAll", mockCtx, chainId).Return(registry, nil)
	t.mockAuctions.On("NextId", mockCtx).Return(domain.AuctionId(1), nil)
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(collection), string(seller), string(custodian), big.NewInt(7)).
		Return(domain.TxHash("0xtx1"), nil)
	t.mockAuctions.On("Create", mockCtx, mock.AnythingOfType("*auction.Auction")).Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:      auction.EventTypeAuctionCreated,
		AuctionId: 1,
		Account:   seller,
		Time:      frozenNow,
	}).Return(nil)

	a, err := t.subject.CreateAuction(mockCtx, seller, collection, domain.TokenId("7"), time.Hour)
	t.NoError(err)
	t.Equal(domain.AuctionId(1), a.AuctionId)
	t.Equal(frozenNow.Add(time.Hour), a.EndTime)
	t.Len(a.Feeds, 2)
	t.Equal("0xtknfeed", string(a.Feeds[domain.Address("0xtkn")].FeedAddress))
	t.mockAuctions.AssertExpectations(t.T())
}

func (t *testsuite) TestCreateAuctionSnapshotIsACopy() {
	registry := t.registry()

	t.mockErc721.
		On("OwnerOf", mockCtx, int32(chainId), string(collection), big.NewInt(7)).
		Return(string(seller), nil)
	t.mockErc721.
		On("IsApproved", mockCtx, int32(chainId), string(collection), big.NewInt(7), string(seller), string(custodian)).
		Return(true, nil)
	t.mockPayTokens.On("FindAll", mockCtx, chainId).Return(registry, nil)
	t.mockAuctions.On("NextId", mockCtx).Return(domain.AuctionId(2), nil)
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(collection), string(seller), string(custodian), big.NewInt(7)).
		Return(domain.TxHash("0xtx2"), nil)
	t.mockAuctions.On("Create", mockCtx, mock.AnythingOfType("*auction.Auction")).Return(nil)
	t.mockEvents.On("Append", mockCtx, mock.AnythingOfType("*auction.Event")).Return(nil)

	a, err := t.subject.CreateAuction(mockCtx, seller, collection, domain.TokenId("7"), time.Hour)
	t.NoError(err)

	// a later registry edit must not leak into the snapshot
	registry[1].FeedAddress = domain.Address("0xreplaced")
	t.Equal("0xtknfeed", string(a.Feeds[domain.Address("0xtkn")].FeedAddress))
}

func (t *testsuite) TestCreateAuctionNotOwner() {
	t.mockErc721.
		On("OwnerOf", mockCtx, int32(chainId), string(collection), big.NewInt(7)).
		Return("0xsomeoneelse", nil)

	_, err := t.subject.CreateAuction(mockCtx, seller, collection, domain.TokenId("7"), time.Hour)
	t.ErrorIs(err, domain.ErrUnauthorized)
	t.mockAuctions.AssertNotCalled(t.T(), "NextId")
}

func (t *testsuite) TestCreateAuctionNotApproved() {
	t.mockErc721.
		On("OwnerOf", mockCtx, int32(chainId), string(collection), big.NewInt(7)).
		Return(string(seller), nil)
	t.mockErc721.
		On("IsApproved", mockCtx, int32(chainId), string(collection), big.NewInt(7), string(seller), string(custodian)).
		Return(false, nil)

	_, err := t.subject.CreateAuction(mockCtx, seller, collection, domain.TokenId("7"), time.Hour)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.mockAuctions.AssertNotCalled(t.T(), "Create")
}

func (t *testsuite) TestCreateAuctionBadDuration() {
	_, err := t.subject.CreateAuction(mockCtx, seller, collection, domain.TokenId("7"), 0)
	t.ErrorIs(err, domain.ErrBadParamInput)
}

func (t *testsuite) TestSetCurrencyFeedAdminOnly() {
	err := t.subject.SetCurrencyFeed(mockCtx, seller, &domain.PayToken{
		Address:     domain.Address("0xtkn"),
		FeedAddress: domain.Address("0xtknfeed"),
	})
	t.ErrorIs(err, domain.ErrUnauthorized)
	t.mockPayTokens.AssertNotCalled(t.T(), "Upsert")
}

func (t *testsuite) TestSetCurrencyFeedFillsDecimalsFromChain() {
	t.mockPricefeed.
		On("Decimals", mockCtx, chainId, domain.Address("0xtknfeed")).
		Return(uint8(8), nil)
	t.mockErc20.
		On("Decimals", mockCtx, int32(chainId), "0xtkn").
		Return(uint8(6), nil)
	t.mockPayTokens.
		On("Upsert", mockCtx, &domain.PayToken{
			Symbol:        "TKN",
			ChainId:       chainId,
			Address:       domain.Address("0xtkn"),
			TokenDecimals: 6,
			FeedAddress:   domain.Address("0xtknfeed"),
			FeedDecimals:  8,
		}).
		Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:     auction.EventTypeCurrencyFeedSet,
		Account:  admin,
		Currency: domain.Address("0xtkn"),
		Time:     frozenNow,
	}).Return(nil)

	err := t.subject.SetCurrencyFeed(mockCtx, admin, &domain.PayToken{
		Symbol:      "TKN",
		Address:     domain.Address("0xtkn"),
		FeedAddress: domain.Address("0xtknfeed"),
	})
	t.NoError(err)
	t.mockPayTokens.AssertExpectations(t.T())
}

func (t *testsuite) TestSetCurrencyFeedNativeDefaults() {
	t.mockPricefeed.
		On("Decimals", mockCtx, chainId, domain.Address("0xethfeed")).
		Return(uint8(8), nil)
	t.mockPayTokens.
		On("Upsert", mockCtx, &domain.PayToken{
			Symbol:        "ETH",
			ChainId:       chainId,
			Address:       domain.EmptyAddress,
			TokenDecimals: 18,
			FeedAddress:   domain.Address("0xethfeed"),
			FeedDecimals:  8,
		}).
		Return(nil)
	t.mockEvents.On("Append", mockCtx, mock.AnythingOfType("*auction.Event")).Return(nil)

	err := t.subject.SetCurrencyFeed(mockCtx, admin, &domain.PayToken{
		Symbol:      "ETH",
		Address:     domain.EmptyAddress,
		FeedAddress: domain.Address("0xethfeed"),
	})
	t.NoError(err)
	t.mockErc20.AssertNotCalled(t.T(), "Decimals")
}

func (t *testsuite) TestSetCurrencyFeedRequiresFeedAddress() {
	err := t.subject.SetCurrencyFeed(mockCtx, admin, &domain.PayToken{Address: domain.Address("0xtkn")})
	t.ErrorIs(err, domain.ErrBadParamInput)
}

func (t *testsuite) TestListEvents() {
	events := []*auction.Event{
		{Type: auction.EventTypeBidAccepted, AuctionId: domain.AuctionId(7)},
		{Type: auction.EventTypeAuctionCreated, AuctionId: domain.AuctionId(7)},
	}
	t.mockEvents.
		On("FindAll", mockCtx, mock.AnythingOfType("auction.EventFindAllOptionsFunc")).
		Return(events, nil)

	res, err := t.subject.ListEvents(mockCtx, auction.EventWithAuctionId(domain.AuctionId(7)))
	t.NoError(err)
	t.Equal(events, res)
}
