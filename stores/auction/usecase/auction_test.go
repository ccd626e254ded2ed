package usecase

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bidhaus/goapi/base/ctx"
	"github.com/bidhaus/goapi/base/ptr"
	"github.com/bidhaus/goapi/domain"
	"github.com/bidhaus/goapi/domain/auction"
	mockAuction "github.com/bidhaus/goapi/domain/auction/mocks"
	mockEscrow "github.com/bidhaus/goapi/domain/escrow/mocks"
	mockDomain "github.com/bidhaus/goapi/domain/mocks"
	mockContract "github.com/bidhaus/goapi/service/chain/contract/mocks"
)

var (
	mockCtx = ctx.Background()

	frozenNow = time.Unix(1700000000, 0)

	chainId   = domain.ChainId(1)
	custodian = domain.Address("0xcustodian")
	seller    = domain.Address("0xseller")
	alice     = domain.Address("0xalice")
	bob       = domain.Address("0xbob")
	tokenAddr = domain.Address("0xtkn")
	wrapped   = domain.ChainIdWrappedNativeMap[chainId]

	ethFeed = domain.PayToken{
		Symbol:        "ETH",
		ChainId:       chainId,
		Address:       domain.EmptyAddress,
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xethfeed"),
		FeedDecimals:  8,
	}
	tknFeed = domain.PayToken{
		Symbol:        "TKN",
		ChainId:       chainId,
		Address:       tokenAddr,
		TokenDecimals: 18,
		FeedAddress:   domain.Address("0xtknfeed"),
		FeedDecimals:  8,
	}
)

func usd8(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e8))
}

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

type testsuite struct {
	suite.Suite
	mockAuctions   *mockAuction.Repo
	mockEvents     *mockAuction.EventRepo
	mockEscrow     *mockEscrow.UseCase
	mockNormalizer *mockDomain.NormalizerUseCase
	mockErc721     *mockContract.Erc721Contract
	mockErc20      *mockContract.Erc20Contract
	subject        *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	timeNow = func() time.Time { return frozenNow }
	t.mockAuctions = &mockAuction.Repo{}
	t.mockEvents = &mockAuction.EventRepo{}
	t.mockEscrow = &mockEscrow.UseCase{}
	t.mockNormalizer = &mockDomain.NormalizerUseCase{}
	t.mockErc721 = &mockContract.Erc721Contract{}
	t.mockErc20 = &mockContract.Erc20Contract{}
	t.subject = &impl{
		chainId:       chainId,
		auctions:      t.mockAuctions,
		events:        t.mockEvents,
		escrow:        t.mockEscrow,
		normalizer:    t.mockNormalizer,
		erc721:        t.mockErc721,
		erc20:         t.mockErc20,
		custodian:     custodian,
		version:       "v1",
		layoutVersion: 1,
	}
}

func (t *testsuite) TearDownTest() {
	timeNow = time.Now
}

func (t *testsuite) openAuction(id domain.AuctionId) *auction.Auction {
	return &auction.Auction{
		AuctionId:  id,
		ChainId:    chainId,
		Collection: domain.Address("0xnft"),
		TokenId:    domain.TokenId("7"),
		Seller:     seller,
		EndTime:    frozenNow.Add(time.Hour),
		Feeds: map[domain.Address]domain.PayToken{
			domain.EmptyAddress: ethFeed,
			tokenAddr:           tknFeed,
		},
		CreatedAt: frozenNow.Add(-time.Hour),
	}
}

func (t *testsuite) TestPlaceBidFirstBid() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	halfEth := tokens(1)
	halfEth.Div(halfEth, big.NewInt(2))

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &ethFeed, halfEth).Return(usd8(1500), nil)
	t.mockErc20.
		On("TransferFrom", mockCtx, int32(chainId), string(wrapped), string(alice), string(custodian), halfEth).
		Return(domain.TxHash("0xtx1"), nil)
	t.mockAuctions.
		On("Update", mockCtx, id, auction.Patchable{HighestBid: &auction.Bid{
			Bidder:     alice,
			Currency:   domain.EmptyAddress,
			Amount:     halfEth.String(),
			Normalized: usd8(1500).String(),
			BidAt:      frozenNow,
		}}).
		Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:       auction.EventTypeBidAccepted,
		AuctionId:  id,
		Account:    alice,
		Currency:   domain.EmptyAddress,
		Amount:     halfEth.String(),
		Normalized: usd8(1500).String(),
		Time:       frozenNow,
	}).Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, id, alice, domain.EmptyAddress, halfEth)
	t.NoError(err)
	t.Equal(alice, res.HighestBid.Bidder)
	t.mockAuctions.AssertExpectations(t.T())
	t.mockEscrow.AssertNotCalled(t.T(), "Deposit")
}

func (t *testsuite) TestPlaceBidOutbidBanksPreviousToEscrow() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	halfEth := tokens(1)
	halfEth.Div(halfEth, big.NewInt(2))
	a.HighestBid = &auction.Bid{
		Bidder:     alice,
		Currency:   domain.EmptyAddress,
		Amount:     halfEth.String(),
		Normalized: usd8(1500).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(800)).Return(usd8(1600), nil)
	t.mockErc20.
		On("TransferFrom", mockCtx, int32(chainId), string(tokenAddr), string(bob), string(custodian), tokens(800)).
		Return(domain.TxHash("0xtx2"), nil)
	t.mockAuctions.On("Update", mockCtx, id, auction.Patchable{HighestBid: &auction.Bid{
		Bidder:     bob,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		BidAt:      frozenNow,
	}}).Return(nil)
	t.mockEscrow.
		On("Deposit", mockCtx, chainId, domain.EmptyAddress, alice, halfEth).
		Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:       auction.EventTypeBidAccepted,
		AuctionId:  id,
		Account:    bob,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		Time:       frozenNow,
	}).Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, id, bob, tokenAddr, tokens(800))
	t.NoError(err)
	t.Equal(bob, res.HighestBid.Bidder)
	t.mockEscrow.AssertExpectations(t.T())
}

func (t *testsuite) TestPlaceBidTooLow() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.HighestBid = &auction.Bid{
		Bidder:     alice,
		Currency:   domain.EmptyAddress,
		Amount:     tokens(1).String(),
		Normalized: usd8(3000).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(700)).Return(usd8(1400), nil)

	_, err := t.subject.PlaceBid(mockCtx, id, bob, tokenAddr, tokens(700))
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.mockErc20.AssertNotCalled(t.T(), "TransferFrom")
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
}

func (t *testsuite) TestPlaceBidTieRejected() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.HighestBid = &auction.Bid{
		Bidder:     alice,
		Currency:   domain.EmptyAddress,
		Amount:     tokens(1).String(),
		Normalized: usd8(3000).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(1500)).Return(usd8(3000), nil)

	_, err := t.subject.PlaceBid(mockCtx, id, bob, tokenAddr, tokens(1500))
	t.ErrorIs(err, domain.ErrBidTooLow)
}

func (t *testsuite) TestPlaceBidAfterDeadline() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, domain.EmptyAddress, tokens(1))
	t.ErrorIs(err, domain.ErrAuctionNotActive)
	t.mockNormalizer.AssertNotCalled(t.T(), "Normalize")
}

func (t *testsuite) TestPlaceBidOnSettledAuction() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.Settled = true

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, domain.EmptyAddress, tokens(1))
	t.ErrorIs(err, domain.ErrAuctionNotActive)
}

func (t *testsuite) TestPlaceBidUnregisteredCurrency() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, domain.Address("0xunknown"), tokens(1))
	t.ErrorIs(err, domain.ErrUnregisteredCurrency)
	t.mockNormalizer.AssertNotCalled(t.T(), "Normalize")
}

func (t *testsuite) TestPlaceBidSnapshotIgnoresLaterRegistryEdits() {
	// the snapshot carries the feed as it was at creation, a different feed
	// address in the live registry must not be consulted
	id := domain.AuctionId(1)
	a := t.openAuction(id)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(10)).Return(usd8(20), nil)
	t.mockErc20.
		On("TransferFrom", mockCtx, int32(chainId), string(tokenAddr), string(alice), string(custodian), tokens(10)).
		Return(domain.TxHash("0xtx3"), nil)
	t.mockAuctions.On("Update", mockCtx, id, auction.Patchable{HighestBid: &auction.Bid{
		Bidder:     alice,
		Currency:   tokenAddr,
		Amount:     tokens(10).String(),
		Normalized: usd8(20).String(),
		BidAt:      frozenNow,
	}}).Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:       auction.EventTypeBidAccepted,
		AuctionId:  id,
		Account:    alice,
		Currency:   tokenAddr,
		Amount:     tokens(10).String(),
		Normalized: usd8(20).String(),
		Time:       frozenNow,
	}).Return(nil)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, tokenAddr, tokens(10))
	t.NoError(err)
	t.mockNormalizer.AssertCalled(t.T(), "Normalize", mockCtx, &tknFeed, tokens(10))
}

func (t *testsuite) TestPlaceBidPullFailureLeavesLedgerUntouched() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(10)).Return(usd8(20), nil)
	t.mockErc20.
		On("TransferFrom", mockCtx, int32(chainId), string(tokenAddr), string(alice), string(custodian), tokens(10)).
		Return(domain.TxHash(""), domain.ErrTransferFailed)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, tokenAddr, tokens(10))
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
	t.mockEscrow.AssertNotCalled(t.T(), "Deposit")
}

func (t *testsuite) TestPlaceBidDepositFailureKeepsPreviousBid() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	halfEth := tokens(1)
	halfEth.Div(halfEth, big.NewInt(2))
	a.HighestBid = &auction.Bid{
		Bidder:     alice,
		Currency:   domain.EmptyAddress,
		Amount:     halfEth.String(),
		Normalized: usd8(1500).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, tokens(800)).Return(usd8(1600), nil)
	t.mockErc20.
		On("TransferFrom", mockCtx, int32(chainId), string(tokenAddr), string(bob), string(custodian), tokens(800)).
		Return(domain.TxHash("0xtx3"), nil)
	t.mockEscrow.
		On("Deposit", mockCtx, chainId, domain.EmptyAddress, alice, halfEth).
		Return(domain.ErrConflict)

	_, err := t.subject.PlaceBid(mockCtx, id, bob, tokenAddr, tokens(800))
	t.ErrorIs(err, domain.ErrConflict)
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
}

func (t *testsuite) TestPlaceBidNormalizedZeroRejected() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	dust := big.NewInt(1)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockNormalizer.On("Normalize", mockCtx, &tknFeed, dust).Return(big.NewInt(0), nil)

	_, err := t.subject.PlaceBid(mockCtx, id, alice, tokenAddr, dust)
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.mockErc20.AssertNotCalled(t.T(), "TransferFrom")
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
}

func (t *testsuite) TestEndAuctionPaysWinnerAndSeller() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)
	a.HighestBid = &auction.Bid{
		Bidder:     bob,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(a.Collection), string(custodian), string(bob), big.NewInt(7)).
		Return(domain.TxHash("0xtx4"), nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(tokenAddr), string(seller), tokens(800)).
		Return(domain.TxHash("0xtx5"), nil)
	t.mockAuctions.On("Update", mockCtx, id, auction.Patchable{Settled: ptr.Bool(true)}).Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:       auction.EventTypeAuctionEnded,
		AuctionId:  id,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		Winner:     bob,
		Time:       frozenNow,
	}).Return(nil)

	res, err := t.subject.EndAuction(mockCtx, id)
	t.NoError(err)
	t.True(res.Settled)
	t.mockErc721.AssertExpectations(t.T())
	t.mockErc20.AssertExpectations(t.T())
}

func (t *testsuite) TestEndAuctionNoBidsReturnsAsset() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(a.Collection), string(custodian), string(seller), big.NewInt(7)).
		Return(domain.TxHash("0xtx6"), nil)
	t.mockAuctions.On("Update", mockCtx, id, auction.Patchable{Settled: ptr.Bool(true)}).Return(nil)
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:      auction.EventTypeAuctionEnded,
		AuctionId: id,
		Time:      frozenNow,
	}).Return(nil)

	res, err := t.subject.EndAuction(mockCtx, id)
	t.NoError(err)
	t.True(res.Settled)
	t.mockErc20.AssertNotCalled(t.T(), "Transfer")
}

func (t *testsuite) TestEndAuctionBeforeDeadline() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)

	_, err := t.subject.EndAuction(mockCtx, id)
	t.ErrorIs(err, domain.ErrNotYetEnded)
	t.mockErc721.AssertNotCalled(t.T(), "TransferFrom")
}

func (t *testsuite) TestEndAuctionOnlyOnce() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)
	settled := *a
	settled.Settled = true

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil).Once()
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(a.Collection), string(custodian), string(seller), big.NewInt(7)).
		Return(domain.TxHash("0xtx7"), nil).Once()
	t.mockAuctions.On("Update", mockCtx, id, auction.Patchable{Settled: ptr.Bool(true)}).Return(nil).Once()
	t.mockEvents.On("Append", mockCtx, &auction.Event{
		Type:      auction.EventTypeAuctionEnded,
		AuctionId: id,
		Time:      frozenNow,
	}).Return(nil).Once()

	_, err := t.subject.EndAuction(mockCtx, id)
	t.NoError(err)

	t.mockAuctions.On("FindOne", mockCtx, id).Return(&settled, nil)
	_, err = t.subject.EndAuction(mockCtx, id)
	t.ErrorIs(err, domain.ErrAlreadySettled)
}

func (t *testsuite) TestEndAuctionPayoutFailureKeepsAssetInCustody() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)
	a.HighestBid = &auction.Bid{
		Bidder:     bob,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(tokenAddr), string(seller), tokens(800)).
		Return(domain.TxHash(""), domain.ErrTransferFailed)

	_, err := t.subject.EndAuction(mockCtx, id)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.mockErc721.AssertNotCalled(t.T(), "TransferFrom")
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
}

func (t *testsuite) TestEndAuctionAssetTransferFailureKeepsUnsettled() {
	id := domain.AuctionId(1)
	a := t.openAuction(id)
	a.EndTime = frozenNow.Add(-time.Second)
	a.HighestBid = &auction.Bid{
		Bidder:     bob,
		Currency:   tokenAddr,
		Amount:     tokens(800).String(),
		Normalized: usd8(1600).String(),
		BidAt:      frozenNow.Add(-time.Minute),
	}

	t.mockAuctions.On("FindOne", mockCtx, id).Return(a, nil)
	t.mockErc20.
		On("Transfer", mockCtx, int32(chainId), string(tokenAddr), string(seller), tokens(800)).
		Return(domain.TxHash("0xtx8"), nil)
	t.mockErc721.
		On("TransferFrom", mockCtx, int32(chainId), string(a.Collection), string(custodian), string(bob), big.NewInt(7)).
		Return(domain.TxHash(""), domain.ErrTransferFailed)

	_, err := t.subject.EndAuction(mockCtx, id)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.mockAuctions.AssertNotCalled(t.T(), "Update")
}

func (t *testsuite) TestWithdrawRefundDelegatesToEscrow() {
	t.mockEscrow.
		On("Withdraw", mockCtx, chainId, domain.EmptyAddress, alice).
		Return(usd8(1), nil)

	val, err := t.subject.WithdrawRefund(mockCtx, alice, domain.EmptyAddress)
	t.NoError(err)
	t.Equal(usd8(1), val)
	t.mockEscrow.AssertExpectations(t.T())
}
